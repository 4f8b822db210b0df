// Package llm wraps the OpenAI API for the three capabilities the bot
// needs: chat completion, text embedding and voice transcription.
package llm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hilacarreon/vecinito/internal/cache"
	"github.com/hilacarreon/vecinito/internal/textnorm"
	"github.com/hilacarreon/vecinito/pkg/logger"
)

// MaxVoiceNoteBytes is the largest voice note accepted for
// transcription.
const MaxVoiceNoteBytes = 10 << 20

// ErrVoiceNoteTooLarge is returned when a voice note exceeds
// MaxVoiceNoteBytes.
var ErrVoiceNoteTooLarge = fmt.Errorf("voice note exceeds %d bytes", MaxVoiceNoteBytes)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// Config holds the model selection and generation limits.
type Config struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Temperature    float64
	MaxTokens      int64
	EmbedCacheSize int
}

// Client calls OpenAI. Embeddings are memoized in a bounded LRU because
// the same queries recur constantly.
type Client struct {
	api        openai.Client
	cfg        Config
	embedCache *cache.LRU[string, []float32]
	log        logger.Logger
}

// New builds a Client from cfg.
func New(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = openai.ChatModelGPT4oMini
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 700
	}
	if cfg.EmbedCacheSize == 0 {
		cfg.EmbedCacheSize = 2000
	}

	return &Client{
		api:        openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:        cfg,
		embedCache: cache.NewLRU[string, []float32](cfg.EmbedCacheSize),
		log:        log,
	}, nil
}

// Complete sends system plus history to the chat model and returns the
// assistant's reply.
func (c *Client) Complete(ctx context.Context, system string, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(system))
	for _, m := range history {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.cfg.ChatModel,
		Messages:    messages,
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return completion.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for text, serving repeats from the
// in-process cache.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	key := embedKey(text)
	if vec, ok := c.embedCache.Get(key); ok {
		return vec, nil
	}

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: c.cfg.EmbeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding: empty response")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	c.embedCache.Put(key, vec)
	return vec, nil
}

// Transcribe converts a Spanish voice note to text. size is the length
// in bytes as reported by the messaging platform.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, size int64) (string, error) {
	if size > MaxVoiceNoteBytes {
		return "", ErrVoiceNoteTooLarge
	}

	resp, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:    openai.AudioModelWhisper1,
		File:     audio,
		Language: openai.String("es"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return resp.Text, nil
}

func embedKey(text string) string {
	sum := md5.Sum([]byte(textnorm.Normalize(text)))
	return hex.EncodeToString(sum[:])
}
