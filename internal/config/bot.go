package config

import "time"

// BotConfig tunes conversation behavior.
type BotConfig struct {
	DebounceWindow   time.Duration `env:"BOT_DEBOUNCE_WINDOW" yaml:"debounce_window" default:"1500ms"`
	CacheTTL         time.Duration `env:"BOT_CACHE_TTL" yaml:"cache_ttl" default:"2m"`
	CacheCapacity    int           `env:"BOT_CACHE_CAPACITY" yaml:"cache_capacity" default:"1000"`
	CacheGlobalTier  bool          `env:"BOT_CACHE_GLOBAL_TIER" yaml:"cache_global_tier"`
	RateLimit        int           `env:"BOT_RATE_LIMIT" yaml:"rate_limit" default:"10"`
	RateLimitWindow  time.Duration `env:"BOT_RATE_LIMIT_WINDOW" yaml:"rate_limit_window" default:"1m"`
	HistoryTTL       time.Duration `env:"BOT_HISTORY_TTL" yaml:"history_ttl" default:"2h"`
	LocationTTL      time.Duration `env:"BOT_LOCATION_TTL" yaml:"location_ttl" default:"24h"`
	HistoryWindow    time.Duration `env:"BOT_HISTORY_WINDOW" yaml:"history_window" default:"1h"`
	HistoryMax       int           `env:"BOT_HISTORY_MAX" yaml:"history_max" default:"10"`
	TopK             int           `env:"BOT_TOP_K" yaml:"top_k" default:"6"`
	MemorySessionCap int           `env:"BOT_MEMORY_SESSION_CAP" yaml:"memory_session_cap" default:"500"`
	AuditLogPath     string        `env:"BOT_AUDIT_LOG_PATH" yaml:"audit_log_path" default:"consultas.csv"`
	SweepSchedule    string        `env:"BOT_SWEEP_SCHEDULE" yaml:"sweep_schedule" default:"@hourly"`
}
