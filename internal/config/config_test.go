package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ACM_DB_PATH", "LISTEN_ADDR", "TLS_CERT_FILE", "TLS_KEY_FILE",
		"ALLOW_INSECURE_HTTP", "LOG_LEVEL", "ENV", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS", "ACM_USER",
		"ACM_PASSWORD", "JWT_SECRET",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "acm.sqlite", cfg.DBPath)
	assert.Equal(t, ":9022", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "acm", cfg.Auth.User)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.Warnings) // default password warning
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACM_DB_PATH", "/tmp/acm-test.sqlite")
	t.Setenv("LISTEN_ADDR", ":7100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ACM_USER", "svc")
	t.Setenv("ACM_PASSWORD", "hunter2")
	t.Setenv("RATE_LIMIT_RPS", "10")
	t.Setenv("RATE_LIMIT_BURST", "20")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/acm-test.sqlite", cfg.DBPath)
	assert.Equal(t, ":7100", cfg.ListenAddr)
	assert.Equal(t, "svc", cfg.Auth.User)
	assert.Equal(t, "hunter2", cfg.Auth.Password)
	assert.Equal(t, float64(10), cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_TLSPairRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("TLS_CERT_FILE", "/tmp/cert.pem")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnv_ProductionRejectsInsecureDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("ALLOW_INSECURE_HTTP", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://console.example.com")

	// Default password is fatal in production.
	_, err := LoadFromEnv()
	require.Error(t, err)

	t.Setenv("ACM_PASSWORD", "strong-password")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFromEnv_ProductionRejectsCORSWildcard(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("ACM_PASSWORD", "strong-password")
	t.Setenv("ALLOW_INSECURE_HTTP", "true")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warning"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: ""}).SlogLevel())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# comment\nACM_DB_PATH=\"/tmp/dotenv.sqlite\"\nLISTEN_ADDR=:7200\n\nnot-a-pair\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "/tmp/dotenv.sqlite", os.Getenv("ACM_DB_PATH"))
	assert.Equal(t, ":7200", os.Getenv("LISTEN_ADDR"))

	t.Cleanup(func() {
		os.Unsetenv("ACM_DB_PATH")
		os.Unsetenv("LISTEN_ADDR")
	})
}

func TestLoadDotEnv_Missing(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
