package config

// MonitoringConfig holds the metrics and health endpoints.
type MonitoringConfig struct {
	Enabled     bool `env:"MONITORING_ENABLED" yaml:"enabled" default:"true"`
	MetricsPort int  `env:"METRICS_PORT" yaml:"metrics_port" default:"9090"`
}
