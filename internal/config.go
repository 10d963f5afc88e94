package internal

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries the tunable knobs of the session controller. Values come
// from FARADAY_* environment variables, optionally seeded from a .env file.
type Config struct {
	// APIURL is the base URL of the remote Faraday API.
	APIURL string `envconfig:"API_URL" default:"https://api.faraday.ai"`

	// HTTPTimeout bounds each remote call end to end.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// ContextMessages is how many recent transcript entries accompany each
	// chat request. The two shipped dashboard revisions disagreed (1 vs 5);
	// this defaults to 5 and stays tunable.
	ContextMessages int `envconfig:"CONTEXT_MESSAGES" default:"5"`

	// ContextCharLimit truncates each context entry to this many runes.
	ContextCharLimit int `envconfig:"CONTEXT_CHAR_LIMIT" default:"500"`

	// SyncQueueSize bounds the best-effort remote sync queue.
	SyncQueueSize int `envconfig:"SYNC_QUEUE_SIZE" default:"128"`

	// SyncMaxAttempts caps retries per sync job.
	SyncMaxAttempts int `envconfig:"SYNC_MAX_ATTEMPTS" default:"4"`

	// MinCaptureDuration rejects voice captures shorter than this.
	MinCaptureDuration time.Duration `envconfig:"MIN_CAPTURE_DURATION" default:"500ms"`
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; absence is not an error.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		LogDebug("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("faraday", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the controller cannot run with
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be > 0")
	}
	if c.ContextMessages < 0 {
		return fmt.Errorf("context message count must be >= 0")
	}
	if c.ContextCharLimit <= 0 {
		return fmt.Errorf("context char limit must be > 0")
	}
	return nil
}
