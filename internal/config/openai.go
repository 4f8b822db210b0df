package config

// OpenAIConfig holds the model selection and generation limits.
type OpenAIConfig struct {
	APIKey         string  `env:"OPENAI_API_KEY" yaml:"api_key"`
	ChatModel      string  `env:"OPENAI_CHAT_MODEL" yaml:"chat_model" default:"gpt-4o-mini"`
	EmbeddingModel string  `env:"OPENAI_EMBEDDING_MODEL" yaml:"embedding_model" default:"text-embedding-3-small"`
	Temperature    float64 `env:"OPENAI_TEMPERATURE" yaml:"temperature" default:"0.3"`
	MaxTokens      int64   `env:"OPENAI_MAX_TOKENS" yaml:"max_tokens" default:"700"`
	EmbedCacheSize int     `env:"OPENAI_EMBED_CACHE_SIZE" yaml:"embed_cache_size" default:"2000"`
}
