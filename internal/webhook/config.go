package webhook

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the HTTP server settings, read from the environment.
type Config struct {
	Host            string        `env:"CARSON_HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `env:"CARSON_HTTP_PORT" env-default:"8080"`
	Timeout         time.Duration `env:"CARSON_HTTP_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `env:"CARSON_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	Secret          string        `env:"GITHUB_WEBHOOK_SECRET"`
	GitHubToken     string        `env:"GITHUB_TOKEN" env-required:"true"`
	GitHubAPIURL    string        `env:"GITHUB_API_URL"`
}

// LoadConfig reads the server config from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
