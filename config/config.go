package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string `yaml:"environment" env:"GO_ENV" env-default:"development"`
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL" env-default:"warn"`
	APIBaseURL     string `yaml:"api_base_url" env:"VENUE_API_BASE_URL" env-default:"http://localhost:5000"`
	RequestTimeout int    `yaml:"request_timeout_seconds" env:"VENUE_REQUEST_TIMEOUT_SECONDS" env-default:"15"`
	DataDir        string `yaml:"data_dir" env:"VENUE_DATA_DIR"`
	Web            Web    `yaml:"web"`
}

type Web struct {
	Addr         string `yaml:"addr" env:"VENUE_WEB_ADDR" env-default:":3000"`
	SecureCookie bool   `yaml:"secure_cookie" env:"VENUE_WEB_SECURE_COOKIE" env-default:"false"`
}

func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Load reads configuration from configPath when it exists, otherwise from the
// environment. Outside production a .env file in the working directory is
// loaded first; a missing one is not an error.
func Load(configPath string) (*Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			return cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}
	return cfg, nil
}
