// Package config loads runtime settings for the field-report agent.
// Precedence: defaults, then the JSON config file, then command-line flags.
package config

import (
	"time"

	"github.com/pvaillant/fieldreport/internal/remote"
)

// Config holds the static runtime settings of the agent. User-tunable sync
// settings (interval, enable flag) live in the local store instead, so the
// UI can change them at runtime.
type Config struct {
	// BaseURL is the backend root, e.g. "https://abc.supabase.co".
	BaseURL string
	// APIKey is the anon API key sent with every request.
	APIKey string
	// AccessTokenFile is the path the auth flow persists the session
	// access token to.
	AccessTokenFile string
	// DatabasePath is the local SQLite file.
	DatabasePath string
	// OnlineCheckInterval is how often connectivity is probed.
	OnlineCheckInterval time.Duration

	// S3 is the photo object storage.
	S3 remote.S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "fieldreport.db"
	c.OnlineCheckInterval = 30 * time.Second
	c.S3.Region = "us-east-1"
	c.S3.Bucket = "intervention-photos"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file is given) and command-line flags. Later
// sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
