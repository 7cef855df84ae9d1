package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every configuration variable so a test starts from the
// documented defaults regardless of the environment it runs in. Empty
// values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT", "APP_POOL", "RELEASE_ID",
		"LOG_LEVEL", "CHAOS_MAX_HANG", "SHUTDOWN_GRACE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "unknown", cfg.Pool)
	assert.Equal(t, "unknown", cfg.ReleaseID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.ChaosMaxHang)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGrace)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8081")
	t.Setenv("APP_POOL", "blue")
	t.Setenv("RELEASE_ID", "rel-2026-08-01-a1b2c3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CHAOS_MAX_HANG", "45s")
	t.Setenv("SHUTDOWN_GRACE", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "blue", cfg.Pool)
	assert.Equal(t, "rel-2026-08-01-a1b2c3", cfg.ReleaseID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.ChaosMaxHang)
	assert.Equal(t, 3*time.Second, cfg.ShutdownGrace)
	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "not-a-port"},
		{"port zero", "PORT", "0"},
		{"port out of range", "PORT", "70000"},
		{"negative port", "PORT", "-1"},
		{"malformed hang duration", "CHAOS_MAX_HANG", "banana"},
		{"negative hang duration", "CHAOS_MAX_HANG", "-5s"},
		{"zero shutdown grace", "SHUTDOWN_GRACE", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 3000, ":3000"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"::1", 3000, "[::1]:3000"},
	}

	for _, tt := range tests {
		cfg := &Config{Host: tt.host, Port: tt.port}
		assert.Equal(t, tt.want, cfg.Addr())
	}
}
