package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  int    `env:"SS_PORT" envDefault:"8080"`
	LogLevel string `env:"SS_LOG_LEVEL" envDefault:"info"`

	OPDSRootURL      string        `env:"SS_OPDS_ROOT_URL"`
	HTTPTimeout      time.Duration `env:"SS_HTTP_TIMEOUT" envDefault:"30s"`
	UserAgent        string        `env:"SS_USER_AGENT" envDefault:"storyshelf/1.0"`
	FetchConcurrency int           `env:"SS_FETCH_CONCURRENCY" envDefault:"1"`
	MaxSectionPages  int           `env:"SS_MAX_SECTION_PAGES" envDefault:"10"`
	EntryNavigation  bool          `env:"SS_ENTRY_NAVIGATION" envDefault:"false"`

	CacheTTL time.Duration `env:"SS_CACHE_TTL" envDefault:"1h"`

	SearchMaxResults     int           `env:"SS_SEARCH_MAX_RESULTS" envDefault:"1000"`
	SearchMinQueryLength int           `env:"SS_SEARCH_MIN_QUERY_LEN" envDefault:"2"`
	SearchDebounce       time.Duration `env:"SS_SEARCH_DEBOUNCE" envDefault:"300ms"`
}

func (c *Config) Validate() error {
	if c.OPDSRootURL == "" {
		return fmt.Errorf("SS_OPDS_ROOT_URL is required")
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("SS_PORT must be between 1 and 65535")
	}

	if c.FetchConcurrency < 1 {
		return fmt.Errorf("SS_FETCH_CONCURRENCY must be at least 1")
	}

	if c.MaxSectionPages < 1 {
		return fmt.Errorf("SS_MAX_SECTION_PAGES must be at least 1")
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("SS_CACHE_TTL cannot be negative")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("SS_HTTP_TIMEOUT must be positive")
	}

	if c.SearchMaxResults < 1 {
		return fmt.Errorf("SS_SEARCH_MAX_RESULTS must be at least 1")
	}

	if c.SearchMinQueryLength < 1 {
		return fmt.Errorf("SS_SEARCH_MIN_QUERY_LEN must be at least 1")
	}

	if c.SearchDebounce < 0 {
		return fmt.Errorf("SS_SEARCH_DEBOUNCE cannot be negative")
	}

	return nil
}

// Load reads .env (if present) and the environment without validating.
func Load() (*Config, error) {
	_ = godotenv.Load()
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, nil
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		var err error
		cfg, err = Load()
		if err != nil {
			log.Fatalf("failed to parse config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config validation failed: %v", err)
		}
	})
	return cfg
}
