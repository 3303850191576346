package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HubCfg           *HubConfig
	MqttCfg          *MqttConfig
	ServerCfg        *ServerConfig
	DatabaseURL      string `env:"DATABASE_URL"`
	MigrationsFolder string `env:"MIGRATIONS_FOLDER"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"INFO"`
}

type HubConfig struct {
	URL            string        `env:"HUB_URL"`
	Username       string        `env:"HUB_USERNAME"`
	Password       string        `env:"HUB_PASSWORD"`
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	RequestTimeout time.Duration `env:"HUB_REQUEST_TIMEOUT" envDefault:"10s"`
}

type MqttConfig struct {
	Host     string `env:"MQTT_HOST"`
	Username string `env:"MQTT_USER"`
	Password string `env:"MQTT_PASS"`
}

type ServerConfig struct {
	Address string `env:"PANEL_LISTEN_ADDRESS" envDefault:"0.0.0.0:8000"`
}

// FromEnv builds a Config from the environment. CLI flags are applied on
// top by the command layer, so this is the source of defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HubCfg:    &HubConfig{},
		MqttCfg:   &MqttConfig{},
		ServerCfg: &ServerConfig{},
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg.HubCfg); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg.MqttCfg); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg.ServerCfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields nothing can run without.
func (c *Config) Validate() error {
	if c.HubCfg == nil || c.HubCfg.URL == "" {
		return errors.New("hub url is required")
	}
	if c.HubCfg.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

// MqttEnabled reports whether an announcer should be started.
func (c *Config) MqttEnabled() bool {
	return c.MqttCfg != nil && c.MqttCfg.Host != ""
}

// JournalEnabled reports whether the event journal should be started.
func (c *Config) JournalEnabled() bool {
	return c.DatabaseURL != ""
}
