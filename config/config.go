package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/imobly/go-core/utils"
)

// Config carries everything the core needs to reach the backend and to find
// its local state. Unlike a service config, nothing here is fatal when
// missing: both apps ship usable defaults and override via environment.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	StateDir    string
}

const (
	defaultAPIBaseURL  = "http://localhost:8000"
	defaultHTTPTimeout = 30 * time.Second
)

// Load reads the environment and returns a Config with defaults applied.
func Load() *Config {
	cfg := &Config{
		APIBaseURL:  defaultAPIBaseURL,
		HTTPTimeout: defaultHTTPTimeout,
	}

	if v := os.Getenv("IMOBLY_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("IMOBLY_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			utils.Logger.Warnf("Invalid IMOBLY_HTTP_TIMEOUT '%s', using default", v)
		} else {
			cfg.HTTPTimeout = d
		}
	}

	if v := os.Getenv("IMOBLY_STATE_DIR"); v != "" {
		cfg.StateDir = v
	} else {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		cfg.StateDir = filepath.Join(base, "imobly")
	}

	utils.Logger.Debugf("Config loaded: api=%s state=%s", cfg.APIBaseURL, cfg.StateDir)
	return cfg
}
