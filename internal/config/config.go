package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all process-wide settings. It is read once at startup and
// never mutated afterwards.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Hub       HubConfig       `mapstructure:"hub"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	Env           string        `mapstructure:"env"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// HubConfig configures the upstream catalog client. TokenEnv names the
// environment variable holding the access token; the token value itself is
// deliberately not part of this struct so a config dump can never leak it.
type HubConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	TokenEnv string        `mapstructure:"token_env"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from an optional config file and environment
// variables (HUB_BASE_URL, SERVER_PORT, ...).
func Load() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.shutdown_grace", "10s")
	v.SetDefault("hub.base_url", "https://huggingface.co/api")
	v.SetDefault("hub.timeout", "30s")
	v.SetDefault("hub.token_env", "HF_TOKEN")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.enabled", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.Hub.Timeout <= 0 {
		return nil, fmt.Errorf("hub.timeout must be positive, got %s", cfg.Hub.Timeout)
	}

	return &cfg, nil
}
