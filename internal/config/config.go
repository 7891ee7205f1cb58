// Package config loads the CLI driver's ambient configuration: render
// width, the cache database path, and default verbosity. It is the one
// SPEC_FULL.md component with an "ambient configuration" concern,
// grounded on the teacher's internal/config/config.go.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds noctua's runtime configuration.
type Config struct {
	RenderWidth int
	CacheDBPath string
	Verbose     bool
	JSONOutput  bool
}

// LoadConfig loads an optional .env file (grounded on the teacher's
// godotenv dependency, unused by name in its own config.go) and then
// environment variables, with defaults matching the teacher's
// default-then-override shape.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		RenderWidth: 80,
		CacheDBPath: "noctua.db",
		Verbose:     false,
		JSONOutput:  false,
	}

	if widthStr := os.Getenv("NOCTUA_RENDER_WIDTH"); widthStr != "" {
		if width, err := strconv.Atoi(widthStr); err == nil && width > 0 {
			cfg.RenderWidth = width
		}
	}

	if path := os.Getenv("NOCTUA_CACHE_DB"); path != "" {
		cfg.CacheDBPath = path
	}

	if verboseStr := os.Getenv("NOCTUA_VERBOSE"); verboseStr != "" {
		if verbose, err := strconv.ParseBool(verboseStr); err == nil {
			cfg.Verbose = verbose
		}
	}

	if jsonStr := os.Getenv("NOCTUA_JSON"); jsonStr != "" {
		if jsonOut, err := strconv.ParseBool(jsonStr); err == nil {
			cfg.JSONOutput = jsonOut
		}
	}

	return cfg
}
