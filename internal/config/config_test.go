package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "development", c.Env)
	assert.Equal(t, ":8088", c.HTTPAddr)
	assert.Equal(t, "file", c.DBType)
	assert.Equal(t, "https://api.intra.42.fr", c.IntraBaseURL)
	assert.Equal(t, 2.0, c.IntraRateLimit)
	assert.Equal(t, 10*time.Minute, c.StatusCacheTTL)
	assert.False(t, c.IntraEnabled())
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STATUS_CACHE_TTL", "90s")
	t.Setenv("FT_CLIENT_ID", "id")
	t.Setenv("FT_CLIENT_SECRET", "secret")

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "production", c.Env)
	assert.Equal(t, 90*time.Second, c.StatusCacheTTL)
	assert.True(t, c.IntraEnabled())
}

func TestNew_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# local overrides\nHTTP_ADDR=:9090\nREDIS_URL=redis://localhost:6379/0\n"), 0o644))

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisURL)
}

func TestNew_MissingDotEnvIsIgnored(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Env:             "staging",
			DBType:          "file",
			FileSchedules:   "a.json",
			FileSuggestions: "b.json",
			IntraRateLimit:  2,
			StatusCacheTTL:  time.Minute,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		err    string
	}{
		{"valid", func(*Config) {}, ""},
		{"postgres without dsn", func(c *Config) { c.DBType = "postgres" }, "POSTGRES_DSN"},
		{"postgres with dsn", func(c *Config) { c.DBType = "postgres"; c.DBDSN = "postgres://x" }, ""},
		{"unknown backend", func(c *Config) { c.DBType = "sqlite" }, "STORAGE_BACKEND"},
		{"missing file", func(c *Config) { c.FileSuggestions = "" }, "SUGGESTIONS_FILE"},
		{"bad env", func(c *Config) { c.Env = "qa" }, "APP_ENV"},
		{"zero rate", func(c *Config) { c.IntraRateLimit = 0 }, "INTRA_RATE_LIMIT"},
		{"zero ttl", func(c *Config) { c.StatusCacheTTL = 0 }, "STATUS_CACHE_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.err == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.err)
			}
		})
	}
}
