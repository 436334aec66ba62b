// Package config provides YAML-based engine configuration loading.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/vovakirdan/zengine/internal/core"
)

// EngineConfig contains all configuration for one engine process.
type EngineConfig struct {
	Engine  EngineSection  `yaml:"engine"`
	Storage StorageSection `yaml:"storage"`
	Server  ServerSection  `yaml:"server"`
}

// EngineSection defines the frame loop and diagnostics.
type EngineSection struct {
	TickRate   int    `yaml:"tick_rate"`
	Seed       int64  `yaml:"seed"` // 0 = time based
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	DebugTraps bool   `yaml:"debug_traps"`
	LogLevel   string `yaml:"log_level"`
	Scene      string `yaml:"scene"` // optional scene file; empty = search order
}

// StorageSection defines where session reports are kept.
type StorageSection struct {
	DBPath string `yaml:"db_path"`
}

// ServerSection defines the SSH inspector server.
type ServerSection struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Address returns host:port.
func (s ServerSection) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Validate fills zero values with defaults and rejects nonsense.
func (c *EngineConfig) Validate() error {
	def := DefaultEngineConfig()

	if c.Engine.TickRate <= 0 {
		c.Engine.TickRate = def.Engine.TickRate
	}
	if c.Engine.TickRate > 1000 {
		return fmt.Errorf("config: tick_rate %d out of range", c.Engine.TickRate)
	}
	if c.Engine.Width <= 0 {
		c.Engine.Width = def.Engine.Width
	}
	if c.Engine.Height <= 0 {
		c.Engine.Height = def.Engine.Height
	}
	if c.Engine.LogLevel == "" {
		c.Engine.LogLevel = def.Engine.LogLevel
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = def.Storage.DBPath
	}
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Server.Port)
	}
	if c.Server.HostKeyPath == "" {
		c.Server.HostKeyPath = def.Server.HostKeyPath
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = def.Server.IdleTimeout
	}
	return nil
}

// Runtime converts the engine section to the frame loop config.
func (c EngineConfig) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  c.Engine.Width,
		ScreenH:  c.Engine.Height,
		TickRate: c.Engine.TickRate,
		Seed:     c.Engine.Seed,
	}
}
