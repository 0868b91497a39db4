// Package config loads settings shared by every command.
package config

import (
	"path/filepath"
	"strings"
	"time"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/image-search-client/library/log"
)

const (
	// KeyBackendURL is the base URL of the image search backend.
	KeyBackendURL = "settings.backend.url"
	// KeyBackendTimeout bounds every single backend request, like `5s`.
	// `0` disables the bound.
	KeyBackendTimeout = "settings.backend.timeout"

	// DefaultBackendTimeout applies when no timeout is configured.
	DefaultBackendTimeout = 10 * time.Second
)

// Backend is the backend section of the configuration.
type Backend struct {
	URL     string
	Timeout time.Duration
}

// LoadFromFile merges the yaml file at cfgPath into the shared settings.
// An empty path is allowed, flags alone can configure the client.
func LoadFromFile(cfgPath string) {
	if cfgPath == "" {
		return
	}

	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}

// LoadBackend reads the backend section from the shared settings.
//
// The `backend` flag, when set, wins over the file value.
func LoadBackend() Backend {
	url := strings.TrimSpace(gconfig.Shared.GetString("backend"))
	if url == "" {
		url = strings.TrimSpace(gconfig.Shared.GetString(KeyBackendURL))
	}

	timeout := DefaultBackendTimeout
	if raw := strings.TrimSpace(gconfig.Shared.GetString(KeyBackendTimeout)); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < 0 {
			log.Logger.Warn("ignore invalid backend timeout",
				zap.String("timeout", raw), zap.Error(err))
		} else {
			timeout = parsed
		}
	}

	return Backend{
		URL:     strings.TrimRight(url, "/"),
		Timeout: timeout,
	}
}
