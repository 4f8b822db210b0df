package config

// DatabaseConfig holds the optional Postgres connection used for
// vector search. When URL is empty, retrieval is lexical only.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" yaml:"url"`
}

// Enabled reports whether Postgres is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}
