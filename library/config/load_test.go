package config

import (
	"testing"
	"time"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/stretchr/testify/require"
)

func resetBackendSettings(t *testing.T) {
	t.Helper()
	reset := func() {
		gconfig.Shared.Set("backend", "")
		gconfig.Shared.Set(KeyBackendURL, "")
		gconfig.Shared.Set(KeyBackendTimeout, "")
	}
	reset()
	t.Cleanup(reset)
}

func TestLoadBackendDefaults(t *testing.T) {
	resetBackendSettings(t)
	gconfig.Shared.Set(KeyBackendURL, "http://localhost:3000/")

	cfg := LoadBackend()
	require.Equal(t, "http://localhost:3000", cfg.URL)
	require.Equal(t, DefaultBackendTimeout, cfg.Timeout)
}

func TestLoadBackendFlagWins(t *testing.T) {
	resetBackendSettings(t)
	gconfig.Shared.Set(KeyBackendURL, "http://from-file")
	gconfig.Shared.Set("backend", " http://from-flag// ")
	gconfig.Shared.Set(KeyBackendTimeout, "3s")

	cfg := LoadBackend()
	require.Equal(t, "http://from-flag", cfg.URL)
	require.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoadBackendIgnoresInvalidTimeout(t *testing.T) {
	resetBackendSettings(t)
	gconfig.Shared.Set(KeyBackendTimeout, "soon")
	require.Equal(t, DefaultBackendTimeout, LoadBackend().Timeout)

	gconfig.Shared.Set(KeyBackendTimeout, "-2s")
	require.Equal(t, DefaultBackendTimeout, LoadBackend().Timeout)
}

func TestLoadBackendZeroTimeoutDisablesIt(t *testing.T) {
	resetBackendSettings(t)
	gconfig.Shared.Set(KeyBackendTimeout, "0")
	require.Zero(t, LoadBackend().Timeout)
}

func TestLoadFromFileEmptyPath(t *testing.T) {
	require.NotPanics(t, func() { LoadFromFile("") })
}
