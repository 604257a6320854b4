// Package config holds the taskdeck configuration and its loader.
package config

// Config is the root configuration for taskdeck.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	Events  EventsConfig  `yaml:"events"`
	Export  ExportConfig  `yaml:"export"`
}

// GatewayConfig holds the HTTP server settings.
type GatewayConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Cookie string `yaml:"cookie"` // session cookie name
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	DefaultFormat string `yaml:"default_format"` // csv | json | pdf
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = "127.0.0.1"
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 8374
	}
	if cfg.Gateway.Cookie == "" {
		cfg.Gateway.Cookie = "taskdeck_session"
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 256
	}
	if cfg.Export.DefaultFormat == "" {
		cfg.Export.DefaultFormat = "csv"
	}
}
