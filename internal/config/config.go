package config

import (
	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int    `env:"PORT" envDefault:"8080"`
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"./blog.db"`
	JWTSecret     string `env:"JWT_SECRET" envDefault:"development-secret"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`
	CORSOrigin    string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	AppEnv        string `env:"APP_ENV" envDefault:"development"`
}

// Load parses configuration from environment variables, falling back to
// the struct tag defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
