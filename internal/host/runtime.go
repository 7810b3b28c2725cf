package host

import (
	"fmt"
	"log/slog"

	"github.com/jmylchreest/uisync/internal/config"
	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/store"
	"github.com/jmylchreest/uisync/internal/wm"
)

// Runtime is the UI side of a session: the engine, the window manager, the
// configured windows and the inbound event router.
type Runtime struct {
	Engine  *engine.Engine
	Manager *wm.Manager
	Router  *engine.EventRouter

	screens map[string]*wm.Screen
	logger  *slog.Logger
}

// EngineConfig maps the [engine] section.
func EngineConfig(c *config.Config) engine.Config {
	return engine.Config{
		ListSeparator:       c.Engine.ListSeparator,
		EventFieldSeparator: c.Engine.EventFieldSeparator,
		EventSeparator:      c.Engine.EventSeparator,
	}
}

// WindowConfig maps the [window] section.
func WindowConfig(c *config.Config) wm.Config {
	return wm.Config{
		ZClassMultiplier: c.Window.ZClassMultiplier,
		ZCountMultiplier: c.Window.ZCountMultiplier,
		DockingRadiusPx:  c.Window.DockingRadiusPx,
		Screen:           model.Size{W: c.Window.ScreenWidth, H: c.Window.ScreenHeight},
	}
}

// NewRuntime builds the engine and window manager from cfg and binds every
// configured window.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	eng := engine.New(EngineConfig(cfg), logger)
	eng.Startup()

	mgr := wm.NewManager(eng, WindowConfig(cfg), logger)
	mgr.Setup()

	router := engine.NewEventRouter(logger)
	router.Handle(model.HostEventPopupContextMenu, func(e model.Event) {
		logger.Info("context menu requested", "dispatch", e.Dispatch, "sender", e.Sender, "params", e.Params)
	})
	router.HandleDefault(func(e model.Event) {
		if e.IsNoisy() {
			return
		}
		logger.Info("host event", "dispatch", e.Dispatch, "sender", e.Sender, "message", e.Message)
	})
	eng.SetEventHandler(router.Dispatch)

	r := &Runtime{
		Engine:  eng,
		Manager: mgr,
		Router:  router,
		screens: make(map[string]*wm.Screen, len(cfg.Screens)),
		logger:  logger,
	}

	for _, sc := range cfg.Screens {
		s, err := wm.NewScreen(eng, mgr, wm.ScreenOptions{
			Item:       sc.Item,
			Title:      sc.Title,
			VisibleKey: sc.VisibleKey,
			X:          sc.X,
			Y:          sc.Y,
			Width:      sc.Width,
			Height:     sc.Height,
			Sizable:    sc.Sizable,
			Draggable:  sc.Draggable,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", sc.Item, err)
		}
		s.Bind()
		r.screens[sc.Item] = s
	}
	eng.DrainNotifications()

	return r, nil
}

// Screen returns the window bound for item.
func (r *Runtime) Screen(item string) (*wm.Screen, bool) {
	s, ok := r.screens[item]
	return s, ok
}

// Restore loads snap into the engine as if the host had sent it.
func (r *Runtime) Restore(snap *store.Snapshot) error {
	if snap == nil || len(snap.Values) == 0 {
		return nil
	}
	if err := snap.Restore(r.Engine); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	n := r.Engine.DrainNotifications()
	r.logger.Debug("snapshot restored", "values", len(snap.Values), "notified", n)
	return nil
}

// Reconfigure applies a reloaded [window] section.
func (r *Runtime) Reconfigure(cfg *config.Config) {
	r.Manager.Reconfigure(WindowConfig(cfg))
	r.logger.Info("window settings reloaded",
		"screen", fmt.Sprintf("%dx%d", cfg.Window.ScreenWidth, cfg.Window.ScreenHeight))
}
