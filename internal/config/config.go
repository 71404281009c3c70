// Package config loads daemon configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the daemon's environment-derived configuration. Command line
// flags in main may override individual fields.
type Config struct {
	// APIKey authenticates against the upstream catalog. Required for
	// the daemon to do anything useful.
	APIKey string `env:"YOUTUBE_API_KEY"`

	// ListenAddr is the HTTP/WebSocket bind address.
	ListenAddr string `env:"VIDLENS_LISTEN_ADDR" envDefault:":8080"`

	// PollInterval is the fixed delay between catalog polls per query.
	PollInterval time.Duration `env:"VIDLENS_POLL_INTERVAL" envDefault:"2m"`

	// CacheTTL is how long catalog responses stay cached.
	CacheTTL time.Duration `env:"VIDLENS_CACHE_TTL" envDefault:"3m"`

	// LexiconPath locates the SentiWordNet dump for sentiment scoring.
	LexiconPath string `env:"VIDLENS_LEXICON_PATH" envDefault:"data/sentiwordnet.txt"`

	// LogLevel sets the global log verbosity.
	LogLevel string `env:"VIDLENS_LOG_LEVEL" envDefault:"info"`

	// LogDir, when set, enables rotating file logs in that directory.
	LogDir string `env:"VIDLENS_LOG_DIR"`
}

// Load parses the configuration from process environment variables.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
