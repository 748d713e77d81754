package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version" toml:"version"`
	Log       LogConfig       `yaml:"log" toml:"log" envPrefix:"LOG_"`
	Diagram   DiagramConfig   `yaml:"diagram" toml:"diagram" envPrefix:"DIAGRAM_"`
	Behaviors BehaviorsConfig `yaml:"behaviors" toml:"behaviors" envPrefix:"BEHAVIORS_"`
	Server    ServerConfig    `yaml:"server" toml:"server" envPrefix:"SERVER_"`
	Database  DatabaseConfig  `yaml:"database" toml:"database" envPrefix:"DATABASE_"`
	Watch     WatchConfig     `yaml:"watch" toml:"watch" envPrefix:"WATCH_"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" env:"LEVEL"`    // debug, info, warn, error
	Format string `yaml:"format" toml:"format" env:"FORMAT"` // text, json
}

// DiagramConfig holds the viewport of a new diagram
type DiagramConfig struct {
	MinZoom      float64 `yaml:"min_zoom" toml:"min_zoom" env:"MIN_ZOOM"`
	MaxZoom      float64 `yaml:"max_zoom" toml:"max_zoom" env:"MAX_ZOOM"`
	Zoom         float64 `yaml:"zoom" toml:"zoom" env:"ZOOM"`
	CanvasWidth  float64 `yaml:"canvas_width" toml:"canvas_width" env:"CANVAS_WIDTH"`
	CanvasHeight float64 `yaml:"canvas_height" toml:"canvas_height" env:"CANVAS_HEIGHT"`
}

// ToggleConfig is the block of a behaviour with no settings of its own
type ToggleConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" env:"ENABLED"`
}

// EventsConfig configures click synthesis
type EventsConfig struct {
	Enabled           bool     `yaml:"enabled" toml:"enabled" env:"ENABLED"`
	Tolerance         float64  `yaml:"tolerance" toml:"tolerance" env:"TOLERANCE"`
	DoubleClickWindow Duration `yaml:"double_click_window" toml:"double_click_window" env:"DOUBLE_CLICK_WINDOW"`
}

// SelectionConfig configures selection
type SelectionConfig struct {
	Enabled     bool `yaml:"enabled" toml:"enabled" env:"ENABLED"`
	Multiselect bool `yaml:"multiselect" toml:"multiselect" env:"MULTISELECT"`
}

// ZoomConfig configures wheel zoom
type ZoomConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled" env:"ENABLED"`
	Step      float64 `yaml:"step" toml:"step" env:"STEP"`
	ToPointer bool    `yaml:"to_pointer" toml:"to_pointer" env:"TO_POINTER"`
}

// ZIndexConfig configures stacking order
type ZIndexConfig struct {
	Enabled     bool `yaml:"enabled" toml:"enabled" env:"ENABLED"`
	Multiplier  int  `yaml:"multiplier" toml:"multiplier" env:"MULTIPLIER"`
	GroupOffset int  `yaml:"group_offset" toml:"group_offset" env:"GROUP_OFFSET"`
	NodeOffset  int  `yaml:"node_offset" toml:"node_offset" env:"NODE_OFFSET"`
	PortOffset  int  `yaml:"port_offset" toml:"port_offset" env:"PORT_OFFSET"`
	LayerBand   int  `yaml:"layer_band" toml:"layer_band" env:"LAYER_BAND"`
}

// KeyboardDeleteConfig configures deleting the selection from the keyboard
type KeyboardDeleteConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled" env:"ENABLED"`
	Code    string `yaml:"code" toml:"code" env:"CODE"`
}

// BehaviorsConfig holds one block per built-in behaviour
type BehaviorsConfig struct {
	Events         EventsConfig         `yaml:"events" toml:"events" envPrefix:"EVENTS_"`
	Selection      SelectionConfig      `yaml:"selection" toml:"selection" envPrefix:"SELECTION_"`
	Move           ToggleConfig         `yaml:"move" toml:"move" envPrefix:"MOVE_"`
	Pan            ToggleConfig         `yaml:"pan" toml:"pan" envPrefix:"PAN_"`
	Zoom           ZoomConfig           `yaml:"zoom" toml:"zoom" envPrefix:"ZOOM_"`
	DrawLink       ToggleConfig         `yaml:"draw_link" toml:"draw_link" envPrefix:"DRAW_LINK_"`
	ZIndex         ZIndexConfig         `yaml:"z_index" toml:"z_index" envPrefix:"Z_INDEX_"`
	GroupMove      ToggleConfig         `yaml:"group_move" toml:"group_move" envPrefix:"GROUP_MOVE_"`
	DeleteCascade  ToggleConfig         `yaml:"delete_cascade" toml:"delete_cascade" envPrefix:"DELETE_CASCADE_"`
	KeyboardDelete KeyboardDeleteConfig `yaml:"keyboard_delete" toml:"keyboard_delete" envPrefix:"KEYBOARD_DELETE_"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address   string   `yaml:"address" toml:"address" env:"ADDRESS"`
	KeepAlive Duration `yaml:"keep_alive" toml:"keep_alive" env:"KEEP_ALIVE"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path" env:"PATH"`
}

// WatchConfig names a diagram file to load and reload on change
type WatchConfig struct {
	File     string   `yaml:"file,omitempty" toml:"file,omitempty" env:"FILE"`
	Debounce Duration `yaml:"debounce" toml:"debounce" env:"DEBOUNCE"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by TOML and the
// environment.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
