// Package sources manages per-source crawl configuration. Each configured
// source carries its own seed URLs, rate limit, article cap, and timeout;
// the registry is loaded once at startup and never mutated by a crawl.
package sources

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSources indicates no sources were found in the configuration.
	ErrNoSources = errors.New("no sources found in configuration")
	// ErrSourceNotFound indicates the requested source is not configured.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceDisabled indicates the requested source is disabled.
	ErrSourceDisabled = errors.New("source is disabled")
)

// Config holds the crawl configuration for one source.
type Config struct {
	// Name is the unique identifier for the source; it is also the value
	// stored in the articles' source column.
	Name string `mapstructure:"name"`
	// BaseURL is the base URL relative item links are resolved against.
	BaseURL string `mapstructure:"base_url"`
	// StartURLs are the seed listing pages.
	StartURLs []string `mapstructure:"start_urls"`
	// RateLimit is the minimum spacing between requests, in seconds.
	// It applies to list and detail fetches alike.
	RateLimit float64 `mapstructure:"rate_limit"`
	// MaxArticles caps the number of articles collected per run.
	MaxArticles int `mapstructure:"max_articles"`
	// Timeout is the per-request deadline, in seconds.
	Timeout int `mapstructure:"timeout"`
	// Enabled sources are crawled; disabled sources are skipped entirely.
	Enabled bool `mapstructure:"enabled"`
	// DetailConcurrency bounds parallel detail fetches within one page.
	// Zero means sequential.
	DetailConcurrency int `mapstructure:"detail_concurrency"`
}

// Validate validates the source configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if len(c.StartURLs) == 0 {
		return errors.New("at least one start_url is required")
	}
	if c.RateLimit <= 0 {
		return errors.New("rate_limit must be positive")
	}
	if c.MaxArticles < 1 {
		return errors.New("max_articles must be at least 1")
	}
	if c.Timeout < 1 {
		return errors.New("timeout must be at least 1 second")
	}
	if c.DetailConcurrency < 0 {
		return errors.New("detail_concurrency must be non-negative")
	}
	return nil
}

// RateLimitDuration returns the rate limit as a duration.
func (c *Config) RateLimitDuration() time.Duration {
	return time.Duration(c.RateLimit * float64(time.Second))
}

// TimeoutDuration returns the request timeout as a duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Registry holds all configured sources, keyed by name.
type Registry struct {
	byName map[string]*Config
	order  []string
}

// NewRegistry builds a registry from source configs, validating each one.
// Duplicate names are a configuration error.
func NewRegistry(configs []*Config) (*Registry, error) {
	if len(configs) == 0 {
		return nil, ErrNoSources
	}

	r := &Registry{byName: make(map[string]*Config, len(configs))}
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid source %q: %w", cfg.Name, err)
		}
		if _, exists := r.byName[cfg.Name]; exists {
			return nil, fmt.Errorf("duplicate source name: %s", cfg.Name)
		}
		r.byName[cfg.Name] = cfg
		r.order = append(r.order, cfg.Name)
	}

	return r, nil
}

// FindByName returns the source with the given name.
func (r *Registry) FindByName(name string) (*Config, error) {
	cfg, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
	}
	return cfg, nil
}

// All returns all sources in configuration order.
func (r *Registry) All() []*Config {
	out := make([]*Config, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Enabled returns the enabled sources in configuration order.
func (r *Registry) Enabled() []*Config {
	out := make([]*Config, 0, len(r.order))
	for _, name := range r.order {
		if cfg := r.byName[name]; cfg.Enabled {
			out = append(out, cfg)
		}
	}
	return out
}

// Resolve maps requested source names to configs. With no names it returns
// all enabled sources. Referencing an unknown or disabled source is an
// error; the caller treats it as fatal at startup.
func (r *Registry) Resolve(names []string) ([]*Config, error) {
	if len(names) == 0 {
		enabled := r.Enabled()
		if len(enabled) == 0 {
			return nil, ErrNoSources
		}
		return enabled, nil
	}

	out := make([]*Config, 0, len(names))
	for _, name := range names {
		cfg, err := r.FindByName(name)
		if err != nil {
			return nil, err
		}
		if !cfg.Enabled {
			return nil, fmt.Errorf("%w: %s", ErrSourceDisabled, name)
		}
		out = append(out, cfg)
	}
	return out, nil
}
