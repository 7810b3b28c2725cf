package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/uisync/internal/config"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/store"
	"github.com/jmylchreest/uisync/internal/wm"
)

func testRuntimeConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Screens = []config.ScreenConfig{
		{Item: "Inv", Title: "Inventory", X: 10, Y: 10, Width: 200, Height: 100, Draggable: true},
		{Item: "Chat", Width: 300, Height: 120, VisibleKey: "Chat.Shown"},
	}
	return cfg
}

func TestNewRuntime_BindsScreens(t *testing.T) {
	r, err := NewRuntime(testRuntimeConfig(), discardLogger())
	require.NoError(t, err)

	inv, ok := r.Screen("Inv")
	require.True(t, ok)
	assert.Equal(t, "Inventory", inv.Title())
	assert.True(t, inv.Visible())

	_, ok = r.Screen("Missing")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"Inv", "Chat"}, r.Manager.VisibleWindows())
	assert.True(t, r.Engine.Has("Chat.Shown"))
	assert.Equal(t, "1", r.Engine.Get(model.KeySystemUIVisible))
}

func TestNewRuntime_ScreenWithoutItem(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Screens = []config.ScreenConfig{{Width: 10, Height: 10}}

	_, err := NewRuntime(cfg, discardLogger())
	assert.ErrorIs(t, err, wm.ErrNoItem)
}

func TestRuntime_Restore(t *testing.T) {
	r, err := NewRuntime(testRuntimeConfig(), discardLogger())
	require.NoError(t, err)

	snap := &store.Snapshot{}
	snap.Set("Chat.Shown", "0")
	snap.Set("Inv.Title", "Bags")
	require.NoError(t, r.Restore(snap))

	chat, _ := r.Screen("Chat")
	assert.False(t, chat.Visible())
	inv, _ := r.Screen("Inv")
	assert.Equal(t, "Bags", inv.Title())
	assert.Equal(t, []string{"Inv"}, r.Manager.VisibleWindows())

	assert.NoError(t, r.Restore(nil))
}

func TestRuntime_Reconfigure(t *testing.T) {
	cfg := testRuntimeConfig()
	r, err := NewRuntime(cfg, discardLogger())
	require.NoError(t, err)

	cfg.Window.ScreenWidth = 2560
	cfg.Window.ScreenHeight = 1440
	r.Reconfigure(cfg)

	assert.Equal(t, model.Size{W: 2560, H: 1440}, r.Manager.ScreenSize())
}

func TestRuntime_RoutesHostEvents(t *testing.T) {
	r, err := NewRuntime(nil, discardLogger())
	require.NoError(t, err)

	err = r.Engine.DispatchInboundEvents([]string{
		"Inv", "Slot1", model.HostEventPopupContextMenu, "",
		"Inv", "Slot1", model.EventMouseOver, "",
	})
	assert.NoError(t, err)
}
