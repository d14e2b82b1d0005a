// Package config loads GoKino settings from an optional TOML file and the environment.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/auth"
	"github.com/alvarorichard/gokino/internal/fetcher"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/urlstate"
	"github.com/alvarorichard/gokino/internal/util"
)

// PathEnv names the environment variable holding the config file path
const PathEnv = "GOKINO_CONFIG"

// Config is the full application configuration
type Config struct {
	API struct {
		BaseURL           string  `toml:"base_url"`            // API root, version prefixes are appended
		APIKey            string  `toml:"api_key"`             // KINOPOISK_API_KEY takes precedence
		TimeoutSeconds    int     `toml:"timeout_seconds"`     // per request
		RequestsPerSecond float64 `toml:"requests_per_second"` // 0 disables the limiter
		Burst             int     `toml:"burst"`
	} `toml:"api"`
	UI struct {
		DebounceMs     int   `toml:"debounce_ms"`
		LoadingDelayMs int   `toml:"loading_delay_ms"`
		PageSizes      []int `toml:"page_sizes"`
		ClearOnError   bool  `toml:"clear_on_error"`
	} `toml:"ui"`
	Auth struct {
		Username string `toml:"username"`
		Password string `toml:"password"`
	} `toml:"auth"`
}

// Default returns the built-in settings
func Default() *Config {
	c := &Config{}
	c.API.BaseURL = api.DefaultBaseURL
	c.API.TimeoutSeconds = int(util.DefaultTimeout / time.Second)
	c.API.RequestsPerSecond = 5
	c.API.Burst = 5
	c.UI.DebounceMs = int(urlstate.DefaultDebounce / time.Millisecond)
	c.UI.LoadingDelayMs = int(fetcher.DefaultLoadingDelay / time.Millisecond)
	c.UI.PageSizes = append([]int(nil), query.PageSizeOptions...)
	c.Auth.Username = auth.DefaultUsername
	c.Auth.Password = auth.DefaultPassword
	return c
}

// Load reads path over the defaults, then applies the environment. An empty path falls back to
// $GOKINO_CONFIG; no file at all is fine.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
		util.Debug("config loaded", "path", path)
	}

	if key := os.Getenv(api.APIKeyEnv); key != "" {
		cfg.API.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	if c.API.TimeoutSeconds <= 0 {
		return errors.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	if c.API.RequestsPerSecond < 0 {
		return errors.Errorf("api.requests_per_second must not be negative, got %v", c.API.RequestsPerSecond)
	}
	if c.UI.DebounceMs <= 0 {
		return errors.Errorf("ui.debounce_ms must be positive, got %d", c.UI.DebounceMs)
	}
	if c.UI.LoadingDelayMs < 0 {
		return errors.Errorf("ui.loading_delay_ms must not be negative, got %d", c.UI.LoadingDelayMs)
	}
	if len(c.UI.PageSizes) == 0 {
		return errors.New("ui.page_sizes must not be empty")
	}
	prev := 0
	for _, size := range c.UI.PageSizes {
		if size <= prev || size > query.MaxLimit {
			return errors.Errorf("ui.page_sizes must be ascending and at most %d, got %v", query.MaxLimit, c.UI.PageSizes)
		}
		prev = size
	}
	return nil
}

// Apply installs the page size options process wide
func (c *Config) Apply() {
	query.PageSizeOptions = append([]int(nil), c.UI.PageSizes...)
}

// ClientOptions builds the API client options
func (c *Config) ClientOptions() api.Options {
	return api.Options{
		APIKey:            c.API.APIKey,
		BaseURL:           c.API.BaseURL,
		HTTPClient:        util.NewHTTPClient(time.Duration(c.API.TimeoutSeconds) * time.Second),
		RequestsPerSecond: c.API.RequestsPerSecond,
		Burst:             c.API.Burst,
	}
}

// Debounce is the quiet period of the text input
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMs) * time.Millisecond
}

// LoadingDelay is how long a request runs before the loading indicator shows.
// Zero shows it immediately.
func (c *Config) LoadingDelay() time.Duration {
	if c.UI.LoadingDelayMs == 0 {
		return -1
	}
	return time.Duration(c.UI.LoadingDelayMs) * time.Millisecond
}
