// Package config provides configuration management for flowcanvas.
//
// Config file locations (priority order):
//  1. $FLOWCANVAS_CONFIG
//  2. ./flowcanvas.yaml or ./flowcanvas.toml
//  3. $XDG_CONFIG_HOME/flowcanvas/config.yaml
//  4. ~/.config/flowcanvas/config.yaml
//  5. /etc/flowcanvas/config.yaml
//
// Values from the file are overridden by FLOWCANVAS_ prefixed environment
// variables, for example FLOWCANVAS_SERVER_ADDRESS or
// FLOWCANVAS_BEHAVIORS_ZOOM_STEP.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FLOWCANVAS_"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides apply either way.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. The format follows the
// extension: .toml is TOML, anything else YAML.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Log:     LogConfig{Level: "info", Format: "text"},
		Diagram: DiagramConfig{MinZoom: 0.1, MaxZoom: 4, Zoom: 1},
		Behaviors: BehaviorsConfig{
			Events: EventsConfig{
				Enabled:           true,
				Tolerance:         3,
				DoubleClickWindow: Duration(500 * time.Millisecond),
			},
			Selection:     SelectionConfig{Enabled: true, Multiselect: true},
			Move:          ToggleConfig{Enabled: true},
			Pan:           ToggleConfig{Enabled: true},
			Zoom:          ZoomConfig{Enabled: true, Step: 1.05},
			DrawLink:      ToggleConfig{Enabled: true},
			ZIndex:        ZIndexConfig{Enabled: true, Multiplier: 10, GroupOffset: 1, NodeOffset: 2, PortOffset: 3, LayerBand: 10000},
			GroupMove:     ToggleConfig{Enabled: true},
			DeleteCascade: ToggleConfig{Enabled: true},
			KeyboardDelete: KeyboardDeleteConfig{
				Enabled: true,
				Code:    "Delete",
			},
		},
		Server:   ServerConfig{Address: ":8080", KeepAlive: Duration(30 * time.Second)},
		Database: DatabaseConfig{Path: "./flowcanvas.db"},
		Watch:    WatchConfig{Debounce: Duration(200 * time.Millisecond)},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Diagram.MinZoom == 0 {
		c.Diagram.MinZoom = def.Diagram.MinZoom
	}
	if c.Diagram.MaxZoom == 0 {
		c.Diagram.MaxZoom = def.Diagram.MaxZoom
	}
	if c.Diagram.Zoom == 0 {
		c.Diagram.Zoom = def.Diagram.Zoom
	}
	if c.Behaviors.KeyboardDelete.Code == "" {
		c.Behaviors.KeyboardDelete.Code = def.Behaviors.KeyboardDelete.Code
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.KeepAlive == 0 {
		c.Server.KeepAlive = def.Server.KeepAlive
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
}

// applyEnv overrides fields from FLOWCANVAS_ prefixed variables
func (c *Config) applyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot work
func (c *Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q is not text or json", ErrInvalid, c.Log.Format)
	}

	d := c.Diagram
	if d.MinZoom <= 0 || d.MaxZoom < d.MinZoom {
		return fmt.Errorf("%w: diagram zoom bounds [%g, %g]", ErrInvalid, d.MinZoom, d.MaxZoom)
	}
	if d.Zoom < d.MinZoom || d.Zoom > d.MaxZoom {
		return fmt.Errorf("%w: diagram.zoom %g outside [%g, %g]", ErrInvalid, d.Zoom, d.MinZoom, d.MaxZoom)
	}
	if d.CanvasWidth < 0 || d.CanvasHeight < 0 {
		return fmt.Errorf("%w: negative canvas size", ErrInvalid)
	}

	b := c.Behaviors
	if b.Zoom.Step != 0 && b.Zoom.Step <= 1 {
		return fmt.Errorf("%w: behaviors.zoom.step %g must be above 1", ErrInvalid, b.Zoom.Step)
	}
	if b.Events.Tolerance < 0 || b.Events.DoubleClickWindow < 0 {
		return fmt.Errorf("%w: negative click tolerance or window", ErrInvalid)
	}
	if b.ZIndex.Multiplier <= 0 {
		return fmt.Errorf("%w: behaviors.z_index.multiplier must be positive", ErrInvalid)
	}

	if c.Server.KeepAlive < 0 {
		return fmt.Errorf("%w: server.keep_alive is negative", ErrInvalid)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce is negative", ErrInvalid)
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	enabled := c.Behaviors.Enabled()
	names := make([]string, len(enabled))
	for i, info := range enabled {
		names[i] = info.Name
	}

	summary := fmt.Sprintf("Server: %s, Database: %s\n", c.Server.Address, c.Database.Path)
	summary += fmt.Sprintf("Zoom: %g in [%g, %g]\n", c.Diagram.Zoom, c.Diagram.MinZoom, c.Diagram.MaxZoom)
	if c.Watch.File != "" {
		summary += fmt.Sprintf("Watching: %s (debounce %s)\n", c.Watch.File, c.Watch.Debounce.Duration())
	}
	summary += fmt.Sprintf("Enabled behaviors (%d): %s", len(enabled), strings.Join(names, " "))

	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
