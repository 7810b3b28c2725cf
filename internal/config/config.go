// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultListSeparator       = "|"
	DefaultEventFieldSeparator = "@"
	DefaultEventSeparator      = "$"
	DefaultZClassMultiplier    = 200000
	DefaultZCountMultiplier    = 1000
	DefaultDockingRadiusPx     = 10
	DefaultScreenWidth         = 1920
	DefaultScreenHeight        = 1080
	DefaultSnapshotEvery       = 60
)

// Config represents the uisync configuration.
type Config struct {
	Engine  EngineConfig   `toml:"engine"`
	Window  WindowConfig   `toml:"window"`
	Host    HostConfig     `toml:"host"`
	TUI     TUIConfig      `toml:"tui"`
	Screens []ScreenConfig `toml:"screens"`
}

// EngineConfig holds the wire separators.
type EngineConfig struct {
	ListSeparator       string `toml:"list_separator"`
	EventFieldSeparator string `toml:"event_field_separator"`
	EventSeparator      string `toml:"event_separator"`
}

// WindowConfig holds the z-ordering and docking constants.
type WindowConfig struct {
	ZClassMultiplier int     `toml:"zclass_multiplier"`
	ZCountMultiplier int     `toml:"zcount_multiplier"`
	DockingRadiusPx  float64 `toml:"docking_radius_px"`
	ScreenWidth      int     `toml:"screen_width"`
	ScreenHeight     int     `toml:"screen_height"`
}

// HostConfig holds the host transport and persistence settings.
type HostConfig struct {
	FrameInterval Duration `toml:"frame_interval"` // 0 = only flush on request_news
	JournalPath   string   `toml:"journal_path"`   // empty = no journal
	SnapshotPath  string   `toml:"snapshot_path"`  // empty = DataPath()/snapshot.json
	SnapshotEvery int      `toml:"snapshot_every"` // frames between snapshots, 0 = only on stop
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp         bool   `toml:"show_help"`
	ClipboardCommand string `toml:"clipboard_command"` // empty = platform clipboard
}

// ScreenConfig declares a window bound at startup.
type ScreenConfig struct {
	Item       string  `toml:"item"`
	Title      string  `toml:"title"`
	VisibleKey string  `toml:"visible_key"`
	X          float64 `toml:"x"`
	Y          float64 `toml:"y"`
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Sizable    bool    `toml:"sizable"`
	Draggable  bool    `toml:"draggable"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			ListSeparator:       DefaultListSeparator,
			EventFieldSeparator: DefaultEventFieldSeparator,
			EventSeparator:      DefaultEventSeparator,
		},
		Window: WindowConfig{
			ZClassMultiplier: DefaultZClassMultiplier,
			ZCountMultiplier: DefaultZCountMultiplier,
			DockingRadiusPx:  DefaultDockingRadiusPx,
			ScreenWidth:      DefaultScreenWidth,
			ScreenHeight:     DefaultScreenHeight,
		},
		Host: HostConfig{
			FrameInterval: Duration(0),
			SnapshotEvery: DefaultSnapshotEvery,
		},
		TUI: TUIConfig{
			ShowHelp: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "uisync", "uisync.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "uisync")
}

// SnapshotPath returns the configured snapshot path or the default one.
func (c *Config) SnapshotPath() string {
	if c.Host.SnapshotPath != "" {
		return c.Host.SnapshotPath
	}
	return filepath.Join(DataPath(), "snapshot.json")
}

// FrameInterval returns the automatic flush interval.
func (c *Config) FrameInterval() time.Duration {
	return c.Host.FrameInterval.Duration()
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	e := c.Engine
	if e.ListSeparator == "" || e.EventFieldSeparator == "" || e.EventSeparator == "" {
		return errors.New("separators must not be empty")
	}
	if e.EventFieldSeparator == e.EventSeparator {
		return fmt.Errorf("event field and event separators must differ, both are %q", e.EventSeparator)
	}

	w := c.Window
	if w.ZClassMultiplier <= 0 || w.ZCountMultiplier <= 0 {
		return fmt.Errorf("z multipliers must be positive, got %d and %d", w.ZClassMultiplier, w.ZCountMultiplier)
	}
	if w.ZCountMultiplier >= w.ZClassMultiplier {
		return fmt.Errorf("zcount_multiplier %d must be below zclass_multiplier %d", w.ZCountMultiplier, w.ZClassMultiplier)
	}
	if w.DockingRadiusPx < 0 {
		return fmt.Errorf("docking_radius_px must not be negative, got %g", w.DockingRadiusPx)
	}
	if w.ScreenWidth <= 0 || w.ScreenHeight <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", w.ScreenWidth, w.ScreenHeight)
	}

	if c.Host.SnapshotEvery < 0 {
		return fmt.Errorf("snapshot_every must not be negative, got %d", c.Host.SnapshotEvery)
	}
	if c.Host.FrameInterval < 0 {
		return fmt.Errorf("frame_interval must not be negative, got %s", c.Host.FrameInterval.Duration())
	}

	seen := make(map[string]bool, len(c.Screens))
	for i, s := range c.Screens {
		if s.Item == "" {
			return fmt.Errorf("screens[%d]: item is required", i)
		}
		if seen[s.Item] {
			return fmt.Errorf("screens[%d]: duplicate item %q", i, s.Item)
		}
		seen[s.Item] = true
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("screens[%d] %q: width and height must be positive", i, s.Item)
		}
	}

	return nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}
