package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "|", cfg.Engine.ListSeparator)
	assert.Equal(t, "@", cfg.Engine.EventFieldSeparator)
	assert.Equal(t, "$", cfg.Engine.EventSeparator)
	assert.Equal(t, 200000, cfg.Window.ZClassMultiplier)
	assert.Equal(t, 1000, cfg.Window.ZCountMultiplier)
	assert.Equal(t, 10.0, cfg.Window.DockingRadiusPx)
	assert.Equal(t, 1920, cfg.Window.ScreenWidth)
	assert.Equal(t, 1080, cfg.Window.ScreenHeight)
	assert.Equal(t, time.Duration(0), cfg.FrameInterval())
	assert.Equal(t, 60, cfg.Host.SnapshotEvery)
	assert.True(t, cfg.TUI.ShowHelp)
	assert.Empty(t, cfg.Screens)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/uisync.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Window, cfg.Window)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uisync.toml")

	content := `
[engine]
list_separator = ","

[window]
docking_radius_px = 12.5
screen_width = 1280
screen_height = 720

[host]
frame_interval = "16ms"
journal_path = "/tmp/uisync.jsonl"
snapshot_every = 0

[tui]
show_help = false
clipboard_command = "wl-copy -n"

[[screens]]
item = "InventoryWindow"
title = "Inventory"
width = 300.0
height = 400.0
sizable = true
draggable = true

[[screens]]
item = "TradeWindow"
visible_key = "Trade.Open"
x = 10.0
y = 20.0
width = 200.0
height = 150.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ",", cfg.Engine.ListSeparator)
	assert.Equal(t, "@", cfg.Engine.EventFieldSeparator)
	assert.Equal(t, 12.5, cfg.Window.DockingRadiusPx)
	assert.Equal(t, 1280, cfg.Window.ScreenWidth)
	assert.Equal(t, 200000, cfg.Window.ZClassMultiplier)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval())
	assert.Equal(t, "/tmp/uisync.jsonl", cfg.Host.JournalPath)
	assert.Equal(t, 0, cfg.Host.SnapshotEvery)
	assert.False(t, cfg.TUI.ShowHelp)
	assert.Equal(t, "wl-copy -n", cfg.TUI.ClipboardCommand)

	require.Len(t, cfg.Screens, 2)
	assert.Equal(t, ScreenConfig{
		Item: "InventoryWindow", Title: "Inventory",
		Width: 300, Height: 400, Sizable: true, Draggable: true,
	}, cfg.Screens[0])
	assert.Equal(t, "Trade.Open", cfg.Screens[1].VisibleKey)
	assert.Equal(t, 10.0, cfg.Screens[1].X)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uisync.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uisync.toml")
	require.NoError(t, os.WriteFile(path, []byte("[host]\nframe_interval = \"soon\"\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty separator", func(c *Config) { c.Engine.ListSeparator = "" }, "separators"},
		{"same event separators", func(c *Config) { c.Engine.EventSeparator = "@" }, "must differ"},
		{"zero multiplier", func(c *Config) { c.Window.ZCountMultiplier = 0 }, "positive"},
		{"count above class", func(c *Config) { c.Window.ZCountMultiplier = 300000 }, "below"},
		{"negative radius", func(c *Config) { c.Window.DockingRadiusPx = -1 }, "docking_radius_px"},
		{"zero screen", func(c *Config) { c.Window.ScreenHeight = 0 }, "screen size"},
		{"negative snapshot", func(c *Config) { c.Host.SnapshotEvery = -1 }, "snapshot_every"},
		{"screen without item", func(c *Config) {
			c.Screens = []ScreenConfig{{Width: 1, Height: 1}}
		}, "item is required"},
		{"duplicate screen", func(c *Config) {
			c.Screens = []ScreenConfig{
				{Item: "A", Width: 1, Height: 1},
				{Item: "A", Width: 1, Height: 1},
			}
		}, "duplicate"},
		{"screen without size", func(c *Config) {
			c.Screens = []ScreenConfig{{Item: "A"}}
		}, "width and height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "uisync.toml")

	cfg := DefaultConfig()
	cfg.Window.ScreenWidth = 800
	cfg.Host.FrameInterval = Duration(50 * time.Millisecond)
	cfg.Screens = []ScreenConfig{{Item: "Chat", Width: 400, Height: 200}}

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 800, loaded.Window.ScreenWidth)
	assert.Equal(t, 50*time.Millisecond, loaded.FrameInterval())
	require.Len(t, loaded.Screens, 1)
	assert.Equal(t, "Chat", loaded.Screens[0].Item)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/uisync/uisync.toml", ConfigPath())
}

func TestDataPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	assert.Equal(t, "/custom/data/uisync", DataPath())
}

func TestSnapshotPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	cfg := DefaultConfig()
	assert.Equal(t, "/custom/data/uisync/snapshot.json", cfg.SnapshotPath())

	cfg.Host.SnapshotPath = "/elsewhere/s.json"
	assert.Equal(t, "/elsewhere/s.json", cfg.SnapshotPath())
}

func TestEnsureDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	require.NoError(t, EnsureDataDir())

	info, err := os.Stat(filepath.Join(dir, "uisync"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
