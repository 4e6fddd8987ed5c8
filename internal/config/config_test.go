package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	_, v := NormalizeAndValidate(Default())
	assert.True(t, v.OK(), "errors: %v", v.Errors)
}

func TestWebsiteCacheIsOptIn(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 720*time.Hour, cfg.CacheTTL())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("enrich:\n  workers: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Enrich.Workers)
	assert.Equal(t, 10, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Len(t, cfg.Enrich.ContactPaths, 15)
}

func TestLoadShippedDefaultFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		wantWarn bool
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.App.Port = 0 },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Enrich.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "unknown tie break",
			mutate:  func(c *Config) { c.Enrich.TieBreak = "random" },
			wantErr: true,
		},
		{
			name:    "relative search url",
			mutate:  func(c *Config) { c.Search.PrimaryURL = "/lite" },
			wantErr: true,
		},
		{
			name:   "empty fallback url disables fallback",
			mutate: func(c *Config) { c.Search.FallbackURL = "" },
		},
		{
			name:     "aggressive query delay warns",
			mutate:   func(c *Config) { c.Pacing.QueryDelayMS = 100 },
			wantWarn: true,
		},
		{
			name:     "empty contact paths warns",
			mutate:   func(c *Config) { c.Enrich.ContactPaths = nil },
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			_, v := NormalizeAndValidate(cfg)
			assert.Equal(t, tt.wantErr, !v.OK(), "errors: %v", v.Errors)
			if tt.wantWarn {
				assert.NotEmpty(t, v.Warnings)
			}
		})
	}
}

func TestNormalizeLists(t *testing.T) {
	cfg := Default()
	cfg.Search.ExcludedDomains = []string{" Facebook.com", "facebook.com", ""}
	cfg.Enrich.ContactPaths = []string{"contact", "/about", " /about "}
	cfg.Enrich.TieBreak = " Lexical "

	out, v := NormalizeAndValidate(cfg)
	require.True(t, v.OK())
	assert.Equal(t, []string{"facebook.com"}, out.Search.ExcludedDomains)
	assert.Equal(t, []string{"/contact", "/about"}, out.Enrich.ContactPaths)
	assert.Equal(t, "lexical", out.Enrich.TieBreak)
}

func TestSaveAtomicKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, SaveAtomic(path, Default()))

	cfg := Default()
	cfg.Enrich.Workers = 7
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Enrich.Workers)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, 4, bak.Enrich.Workers)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := Default()
	cfg.Enrich.Workers = -1
	assert.Error(t, SaveAtomic(path, cfg))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("copies default file", func(t *testing.T) {
		def := filepath.Join(dir, "default.yml")
		require.NoError(t, os.WriteFile(def, []byte("enrich:\n  workers: 3\n"), 0o644))

		dataDir := filepath.Join(dir, "a")
		require.NoError(t, os.MkdirAll(dataDir, 0o755))

		p, err := EnsureUserConfig(dataDir, def)
		require.NoError(t, err)
		cfg, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Enrich.Workers)
	})

	t.Run("writes built-in defaults when default file is missing", func(t *testing.T) {
		dataDir := filepath.Join(dir, "b")
		require.NoError(t, os.MkdirAll(dataDir, 0o755))

		p, err := EnsureUserConfig(dataDir, filepath.Join(dir, "nope.yml"))
		require.NoError(t, err)
		cfg, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("leaves existing user config alone", func(t *testing.T) {
		dataDir := filepath.Join(dir, "c")
		require.NoError(t, os.MkdirAll(dataDir, 0o755))
		existing := filepath.Join(dataDir, "config.yml")
		require.NoError(t, os.WriteFile(existing, []byte("app:\n  port: 9999\n"), 0o644))

		p, err := EnsureUserConfig(dataDir, filepath.Join(dir, "default.yml"))
		require.NoError(t, err)
		cfg, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, 9999, cfg.App.Port)
	})
}

func TestOverlayEnv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("ENRICH_WORKERS=6\nENRICH_MAX_COMPANIES=5\n"), 0o644))

	t.Setenv("ENRICH_PORT", "40000")
	t.Setenv("ENRICH_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("ENRICH_WORKERS", "")
	t.Setenv("ENRICH_MAX_COMPANIES", "")

	cfg := Default()
	require.NoError(t, OverlayEnv(&cfg, dotenv))

	assert.Equal(t, 40000, cfg.App.Port)
	assert.Equal(t, 10, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 6, cfg.Enrich.Workers)
	assert.Equal(t, 5, cfg.Enrich.MaxCompanies)
}

func TestOverlayEnvMissingDotenv(t *testing.T) {
	cfg := Default()
	assert.NoError(t, OverlayEnv(&cfg, filepath.Join(t.TempDir(), "missing.env")))
}
