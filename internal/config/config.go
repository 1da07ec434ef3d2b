package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	BaseURL            string        `env:"BASE_URL" envDefault:"http://localhost:8080"` // OAuth callback is BASE_URL/callback
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	SessionSecret      string        `env:"SESSION_SECRET"`
	SessionLifetime    time.Duration `env:"SESSION_LIFETIME" envDefault:"5m"`
	DBPath             string        `env:"DB_PATH" envDefault:"points.db"`
	DevMode            bool          `env:"DEV_MODE" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
