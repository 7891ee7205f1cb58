package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"NOCTUA_RENDER_WIDTH",
		"NOCTUA_CACHE_DB",
		"NOCTUA_VERBOSE",
		"NOCTUA_JSON",
	} {
		os.Unsetenv(envVar)
	}
}

func TestLoadConfigDefaultValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	cfg := LoadConfig()

	assert.Equal(t, 80, cfg.RenderWidth)
	assert.Equal(t, "noctua.db", cfg.CacheDBPath)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.JSONOutput)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("NOCTUA_RENDER_WIDTH", "100")
	os.Setenv("NOCTUA_CACHE_DB", "/tmp/custom.db")
	os.Setenv("NOCTUA_VERBOSE", "true")
	os.Setenv("NOCTUA_JSON", "1")

	cfg := LoadConfig()

	assert.Equal(t, 100, cfg.RenderWidth)
	assert.Equal(t, "/tmp/custom.db", cfg.CacheDBPath)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.JSONOutput)
}

func TestLoadConfigInvalidValuesFallBackToDefaults(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("NOCTUA_RENDER_WIDTH", "not-a-number")
	os.Setenv("NOCTUA_VERBOSE", "not-a-bool")

	cfg := LoadConfig()

	assert.Equal(t, 80, cfg.RenderWidth)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigNonPositiveWidthFallsBackToDefault(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("NOCTUA_RENDER_WIDTH", "-5")

	cfg := LoadConfig()

	assert.Equal(t, 80, cfg.RenderWidth)
}
