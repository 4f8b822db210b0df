// Package telegram connects the assistant to Telegram. Text messages
// go through the per-user coalescer so rapid bursts become one query;
// commands, zone buttons, locations and voice notes are handled
// immediately.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hilacarreon/vecinito/internal/assistant"
	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/coalesce"
	"github.com/hilacarreon/vecinito/internal/config"
	"github.com/hilacarreon/vecinito/internal/llm"
	"github.com/hilacarreon/vecinito/pkg/logger"
	"github.com/hilacarreon/vecinito/pkg/metrics"
)

// Transcriber converts a voice note to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, size int64) (string, error)
}

// Connector bridges Telegram updates to the assistant.
type Connector struct {
	bot         *bot.Bot
	service     *assistant.Service
	coalescer   *coalesce.Coalescer
	transcriber Transcriber
	metrics     *metrics.Metrics
	log         logger.Logger
	commands    *commandRegistry
	httpClient  *http.Client

	mu    sync.Mutex
	chats map[int64]int64 // userID -> chatID for coalesced replies
	seen  map[int64]struct{}
}

// New builds the connector and registers its handlers.
func New(
	cfg config.TelegramConfig,
	botCfg config.BotConfig,
	service *assistant.Service,
	transcriber Transcriber,
	m *metrics.Metrics,
	log logger.Logger,
) (*Connector, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	c := &Connector{
		service:     service,
		transcriber: transcriber,
		metrics:     m,
		log:         log,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		chats:       make(map[int64]int64),
		seen:        make(map[int64]struct{}),
	}
	c.coalescer = coalesce.New(botCfg.DebounceWindow, c.flushBurst)
	c.setupCommands()

	opts := []bot.Option{
		bot.WithDefaultHandler(c.handleUpdate),
	}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	c.bot = b
	return c, nil
}

// Start begins long polling. It blocks until ctx is cancelled.
func (c *Connector) Start(ctx context.Context) {
	c.log.Info("Starting Telegram polling")
	c.bot.Start(ctx)
}

// Stop drops pending coalesced bursts.
func (c *Connector) Stop() {
	c.coalescer.Stop()
}

func (c *Connector) handleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID
	c.rememberChat(userID, chatID)

	switch {
	case msg.Location != nil:
		c.handleLocation(ctx, userID, chatID, msg.Location)
	case msg.Voice != nil:
		c.handleVoice(ctx, userID, chatID, msg.Voice)
	case msg.Text != "":
		c.handleText(ctx, userID, chatID, msg.Text)
	}
}

func (c *Connector) handleText(ctx context.Context, userID, chatID int64, text string) {
	c.metrics.MessagesTotal.WithLabelValues("text").Inc()

	if c.commands.isCommand(text) {
		c.coalescer.Discard(userID)
		c.commands.handle(ctx, c, userID, chatID, text)
		return
	}

	if ok, msg := c.service.Allow(userID); !ok {
		c.reply(ctx, chatID, msg)
		return
	}

	if c.firstContact(ctx, userID) {
		c.sendWelcome(ctx, chatID)
		if !isSearchable(text) {
			return
		}
	}

	if assistant.IsGreeting(text) {
		c.reply(ctx, chatID, assistant.GreetingReply(text))
		return
	}

	if assistant.IsLocationIntent(text) {
		c.reply(ctx, chatID, c.service.LocationIntentReply())
		return
	}

	// Zone buttons answer immediately; there is no burst to wait for.
	if zone := catalog.DetectZone(text); zone != "" && isZoneButton(text) {
		c.coalescer.Discard(userID)
		c.reply(ctx, chatID, c.service.Respond(ctx, userID, text))
		return
	}

	c.coalescer.Enqueue(userID, text)
}

// flushBurst is called by the coalescer once a burst settles.
func (c *Connector) flushBurst(userID int64, text string, messages int) {
	c.metrics.CoalescedBurstSize.Observe(float64(messages))

	chatID := c.chatFor(userID)
	if chatID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	c.reply(ctx, chatID, c.service.Respond(ctx, userID, text))
}

func (c *Connector) handleLocation(ctx context.Context, userID, chatID int64, loc *models.Location) {
	c.metrics.MessagesTotal.WithLabelValues("location").Inc()
	c.reply(ctx, chatID, c.service.SaveLocation(ctx, userID, loc.Latitude, loc.Longitude))

	// With coordinates in hand, the previous search can be re-ranked by
	// distance.
	if query, ok := c.service.LastUserQuery(ctx, userID); ok {
		c.reply(ctx, chatID, c.service.Respond(ctx, userID, query))
	}
}

func (c *Connector) handleVoice(ctx context.Context, userID, chatID int64, voice *models.Voice) {
	c.metrics.MessagesTotal.WithLabelValues("voice").Inc()

	if voice.FileSize > llm.MaxVoiceNoteBytes {
		c.reply(ctx, chatID, "Ese audio es muy largo 🙈, probá con uno más corto o escribime.")
		return
	}

	text, err := c.transcribeVoice(ctx, voice)
	if err != nil {
		c.metrics.TranscriptionErrors.Inc()
		c.log.Error("voice transcription failed",
			logger.Int64Field("user_id", userID),
			logger.ErrorField(err))
		c.reply(ctx, chatID, "No pude entender el audio 😕, ¿me lo escribís?")
		return
	}

	c.handleText(ctx, userID, chatID, text)
}

func (c *Connector) transcribeVoice(ctx context.Context, voice *models.Voice) (string, error) {
	file, err := c.bot.GetFile(ctx, &bot.GetFileParams{FileID: voice.FileID})
	if err != nil {
		return "", fmt.Errorf("resolving voice file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bot.FileDownloadLink(file), nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading voice file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading voice file: status %d", resp.StatusCode)
	}

	return c.transcriber.Transcribe(ctx, resp.Body, voice.FileSize)
}

// reply sends text as Markdown, falling back to plain text when
// Telegram rejects the formatting.
func (c *Connector) reply(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}

	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err == nil {
		return
	}

	_, err = c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		c.log.Error("sending reply failed",
			logger.Int64Field("chat_id", chatID),
			logger.ErrorField(err))
	}
}

// sendWelcome greets a new user and shows the zone keyboard.
func (c *Connector) sendWelcome(ctx context.Context, chatID int64) {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        c.service.Welcome(),
		ReplyMarkup: zoneKeyboard(),
	})
	if err != nil {
		c.log.Error("sending welcome failed", logger.ErrorField(err))
	}
}

func zoneKeyboard() *models.ReplyKeyboardMarkup {
	rows := make([][]models.KeyboardButton, 0, 1)
	row := make([]models.KeyboardButton, 0, len(catalog.Zones))
	for _, zone := range catalog.Zones {
		row = append(row, models.KeyboardButton{Text: zone})
	}
	rows = append(rows, row)
	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

// isZoneButton reports whether text is exactly a zone name, i.e. a tap
// on the zone keyboard rather than a sentence mentioning a zone.
func isZoneButton(text string) bool {
	for _, zone := range catalog.Zones {
		if text == zone {
			return true
		}
	}
	return false
}

// isSearchable reports whether a first message carries search intent
// that deserves an answer beyond the welcome.
func isSearchable(text string) bool {
	return !assistant.IsGreeting(text) && len(text) > 2
}

func (c *Connector) rememberChat(userID, chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chats[userID] = chatID
}

func (c *Connector) chatFor(userID int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chats[userID]
}

// firstContact reports whether the user has never interacted before,
// marking them seen as a side effect. The in-process set is only a
// fast path; stored history is what survives a restart, so returning
// users are not re-welcomed.
func (c *Connector) firstContact(ctx context.Context, userID int64) bool {
	c.mu.Lock()
	if _, ok := c.seen[userID]; ok {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	known := c.service.HasHistory(ctx, userID)

	c.mu.Lock()
	c.seen[userID] = struct{}{}
	c.mu.Unlock()
	return !known
}
