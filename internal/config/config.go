// Package config defines the application configuration, loaded from an
// optional YAML file with environment variable overrides.
package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/hilacarreon/vecinito/pkg/config"
	"github.com/hilacarreon/vecinito/pkg/logger"
)

// AppConfig holds all application configuration.
type AppConfig struct {
	ServiceName string `env:"SERVICE_NAME" yaml:"service_name" default:"vecinito"`
	Environment string `env:"ENVIRONMENT" yaml:"environment" default:"development"`

	Telegram   TelegramConfig   `yaml:"telegram,inline"`
	OpenAI     OpenAIConfig     `yaml:"openai,inline"`
	Bot        BotConfig        `yaml:"bot,inline"`
	Catalog    CatalogConfig    `yaml:"catalog,inline"`
	Redis      RedisConfig      `yaml:"redis,inline"`
	Database   DatabaseConfig   `yaml:"database,inline"`
	Logging    LoggingConfig    `yaml:"logging,inline"`
	Monitoring MonitoringConfig `yaml:"monitoring,inline"`
}

// Load reads the config file at path (optional) and the environment.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := config.Load(&cfg, path, true); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints, collecting every problem
// into one error so misconfiguration is reported in a single pass.
func (c *AppConfig) Validate() error {
	var result error

	if c.Telegram.BotToken == "" {
		result = multierror.Append(result, fmt.Errorf("telegram bot token is required"))
	}
	if c.OpenAI.APIKey == "" {
		result = multierror.Append(result, fmt.Errorf("openai api key is required"))
	}
	if !c.Database.Enabled() && c.Catalog.Path == "" {
		result = multierror.Append(result,
			fmt.Errorf("either a database or a catalog file must be configured"))
	}
	if c.Bot.DebounceWindow <= 0 {
		result = multierror.Append(result, fmt.Errorf("debounce window must be positive"))
	}
	if c.Bot.CacheTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("cache ttl must be positive"))
	}
	if c.Bot.CacheCapacity <= 0 {
		result = multierror.Append(result, fmt.Errorf("cache capacity must be positive"))
	}
	if c.Bot.RateLimit <= 0 {
		result = multierror.Append(result, fmt.Errorf("rate limit must be positive"))
	}

	return result
}

// LoggerConfig translates the logging section for pkg/logger.
func (c *AppConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:   logger.ParseLevel(c.Logging.Level),
		Format:  c.Logging.Format,
		Service: c.ServiceName,
	}
}
