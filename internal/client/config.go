package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"stepsync/internal/lockstep"
)

// AppConfig is the resolved client configuration.
type AppConfig struct {
	ServerURL       string
	AutoConnect     bool
	DelayInputCount int
	SyncMode        string
	Codec           string
	TickHz          float64
	FrameHz         float64
	DriftThreshold  int64
	LogPath         string
	Passive         bool
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		ServerURL:      "ws://127.0.0.1:8080/ws",
		AutoConnect:    true,
		Codec:          "json",
		TickHz:         lockstep.DefaultTickHz,
		FrameHz:        lockstep.DefaultFrameHz,
		DriftThreshold: lockstep.DefaultDriftThreshold,
		LogPath:        "client.log",
	}
}

type syncOptionsConfig struct {
	Sync *string `json:"sync"`
}

type fileConfig struct {
	AutoConnect     *bool              `json:"autoConnect"`
	ServerURL       *string            `json:"serverURL"`
	DelayInputCount *int               `json:"delayInputCount"`
	Codec           *string            `json:"codec"`
	TickHz          *float64           `json:"tickHz"`
	FrameHz         *float64           `json:"frameHz"`
	DriftThreshold  *int64             `json:"driftThreshold"`
	SyncOptions     *syncOptionsConfig `json:"syncOptions"`
}

func mergeFileConfig(base AppConfig, cfg fileConfig) AppConfig {
	if cfg.AutoConnect != nil {
		base.AutoConnect = *cfg.AutoConnect
	}
	if cfg.ServerURL != nil {
		base.ServerURL = *cfg.ServerURL
	}
	if cfg.DelayInputCount != nil {
		base.DelayInputCount = *cfg.DelayInputCount
	}
	if cfg.Codec != nil {
		base.Codec = *cfg.Codec
	}
	if cfg.TickHz != nil {
		base.TickHz = *cfg.TickHz
	}
	if cfg.FrameHz != nil {
		base.FrameHz = *cfg.FrameHz
	}
	if cfg.DriftThreshold != nil {
		base.DriftThreshold = *cfg.DriftThreshold
	}
	if cfg.SyncOptions != nil && cfg.SyncOptions.Sync != nil {
		base.SyncMode = *cfg.SyncOptions.Sync
	}
	return SanitizeAppConfig(base)
}

// LoadAppConfig merges a JSON config file over base. A missing file is not an
// error; a malformed one is.
func LoadAppConfig(path string, base AppConfig) (AppConfig, error) {
	if path == "" {
		return SanitizeAppConfig(base), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return SanitizeAppConfig(base), nil
		}
		return SanitizeAppConfig(base), fmt.Errorf("read config %q: %w", cleanPath, err)
	}
	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SanitizeAppConfig(base), fmt.Errorf("parse config %q: %w", cleanPath, err)
	}
	return mergeFileConfig(base, cfg), nil
}

// SanitizeAppConfig clamps nonsense values to safe defaults.
func SanitizeAppConfig(cfg AppConfig) AppConfig {
	if cfg.DelayInputCount < 0 {
		cfg.DelayInputCount = 0
	}
	if cfg.TickHz <= 0 {
		cfg.TickHz = lockstep.DefaultTickHz
	}
	if cfg.FrameHz <= 0 {
		cfg.FrameHz = lockstep.DefaultFrameHz
	}
	if cfg.DriftThreshold < 1 {
		cfg.DriftThreshold = lockstep.DefaultDriftThreshold
	}
	if cfg.Codec == "" {
		cfg.Codec = "json"
	}
	return cfg
}
