package config

// CatalogConfig points at the JSON business directory used by the
// lexical strategy and, when no database is configured, as the only
// data source.
type CatalogConfig struct {
	Path string `env:"CATALOG_PATH" yaml:"path" default:"comercios.json"`
}
