package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

//go:embed defaults/scene.yaml
var defaultSceneYAML []byte

// DefaultEngineConfig returns the hardcoded engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Engine: EngineSection{
			TickRate: 60,
			Width:    80,
			Height:   24,
			LogLevel: "info",
		},
		Storage: StorageSection{
			DBPath: "~/.zengine/sessions.db",
		},
		Server: ServerSection{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKeyPath: ".ssh/zengine_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
	}
}

// DefaultEngineYAML returns the embedded engine.yaml.
func DefaultEngineYAML() []byte { return defaultEngineYAML }

// DefaultSceneYAML returns the embedded scene used when no scene file is found.
func DefaultSceneYAML() []byte { return defaultSceneYAML }
