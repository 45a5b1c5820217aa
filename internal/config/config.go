package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the host process's runtime configuration, read from the
// environment (and an optional .env file). It is distinct from the domain
// configuration tree loaded by internal/simconfig: this is "how the process
// runs", that is "what the simulated radio system looks like".
type Config struct {
	ConfigPath  string `env:"CONFIG_PATH" envDefault:"config.yaml"`
	WatchConfig bool   `env:"WATCH_CONFIG" envDefault:"false"`

	TickIntervalMs int `env:"TICK_INTERVAL_MS" envDefault:"100"`

	APIAddr      string        `env:"API_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"API_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"API_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"API_IDLE_TIMEOUT" envDefault:"120s"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	MQTTBrokerURL string `env:"MQTT_BROKER_URL"`
	MQTTClientID  string `env:"MQTT_CLIENT_ID" envDefault:"radiosim"`
	MQTTTopicRoot string `env:"MQTT_TOPIC_ROOT" envDefault:"radiosim"`
	MQTTUsername  string `env:"MQTT_USERNAME"`
	MQTTPassword  string `env:"MQTT_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	RandomSeed int64 `env:"RANDOM_SEED" envDefault:"0"`
}

// Validate checks invariants Load cannot express through struct tags alone.
func (c *Config) Validate() error {
	if c.ConfigPath == "" {
		return fmt.Errorf("CONFIG_PATH must not be empty")
	}
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("TICK_INTERVAL_MS must be positive, got %d", c.TickIntervalMs)
	}
	return nil
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile     string
	ConfigPath  string
	APIAddr     string
	LogLevel    string
	MQTTBrokerURL string
	RandomSeed  *int64
}

// Load reads configuration from a .env file, environment variables, and CLI
// overrides. Priority: CLI flags > environment variables > .env file >
// struct defaults.
func Load(overrides Overrides) (*Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if overrides.ConfigPath != "" {
		cfg.ConfigPath = overrides.ConfigPath
	}
	if overrides.APIAddr != "" {
		cfg.APIAddr = overrides.APIAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.MQTTBrokerURL != "" {
		cfg.MQTTBrokerURL = overrides.MQTTBrokerURL
	}
	if overrides.RandomSeed != nil {
		cfg.RandomSeed = *overrides.RandomSeed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
