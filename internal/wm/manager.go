// Package wm implements window z-ordering and edge docking on top of the
// engine's bind/update/notify contract.
package wm

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/orderedset"
)

// Window is a window registered with the Manager. Implementations must be
// comparable (typically a pointer).
type Window interface {
	Identity() string
	ZClass() int
	Rect() model.Rect // unscaled position and size
	SetZIndex(z int)
}

// Config holds the z-index and docking constants and the viewport size.
type Config struct {
	ZClassMultiplier int
	ZCountMultiplier int
	DockingRadiusPx  float64
	Screen           model.Size
}

// DefaultConfig returns the standard constants for a 1920x1080 viewport.
func DefaultConfig() Config {
	return Config{
		ZClassMultiplier: 200000,
		ZCountMultiplier: 1000,
		DockingRadiusPx:  10,
		Screen:           model.Size{W: 1920, H: 1080},
	}
}

// Manager owns the visible-window registry, the per-layer ordered window
// sets and the docking candidates of the current drag.
type Manager struct {
	cfg    Config
	eng    *engine.Engine
	logger *slog.Logger

	visible      map[string]Window
	visibleOrder *orderedset.Set[string]
	layers       map[int]*layer

	stickX []stickLine // vertical lines: candidate x, active over a y span
	stickY []stickLine // horizontal lines: candidate y, active over an x span

	scaleUI   float64
	uiVisible bool
}

// NewManager creates a Manager bound to eng.
func NewManager(eng *engine.Engine, cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:          cfg,
		eng:          eng,
		logger:       logger,
		visible:      make(map[string]Window),
		visibleOrder: orderedset.New[string](),
		layers:       make(map[int]*layer),
		scaleUI:      1,
		uiVisible:    true,
	}
}

// Setup binds the UI visibility and scale keys.
func (m *Manager) Setup() {
	m.eng.Bind(model.KeySystemUIVisible, "1", m, engine.BindOptions{})
	m.eng.Bind(model.KeySystemUIScale, "1", m, engine.BindOptions{})
	m.Updated()
}

// Updated applies System.UIVisible and System.UIScale.
func (m *Manager) Updated() {
	m.uiVisible = m.eng.Get(model.KeySystemUIVisible) != "0"

	s := m.eng.Get(model.KeySystemUIScale)
	if s == "" {
		return
	}
	scale, err := strconv.ParseFloat(s, 64)
	if err != nil || scale <= 0 {
		m.logger.Warn("invalid ui scale", "value", s)
		return
	}
	if scale != m.scaleUI {
		m.logger.Info("ui scale changed", "scale", scale)
		m.scaleUI = scale
	}
}

// Item identifies the manager as a listener.
func (m *Manager) Item() string {
	return "WindowManager"
}

// Reconfigure replaces the constants. Existing z-indices are kept until
// the next activation.
func (m *Manager) Reconfigure(cfg Config) {
	m.cfg = cfg
}

// ScaleUI returns the current UI scale factor.
func (m *Manager) ScaleUI() float64 {
	return m.scaleUI
}

// UIVisible reports whether the host shows the UI.
func (m *Manager) UIVisible() bool {
	return m.uiVisible
}

// ScreenSize returns the viewport extent.
func (m *Manager) ScreenSize() model.Size {
	return m.cfg.Screen
}

// SetScreenSize updates the viewport extent.
func (m *Manager) SetScreenSize(size model.Size) {
	m.cfg.Screen = size
}

// WindowShown registers w as visible and makes it the topmost member of
// its layer.
func (m *Manager) WindowShown(w Window) {
	id := w.Identity()
	m.visible[id] = w
	m.visibleOrder.Add(id)
	l := m.layer(w.ZClass())
	l.members.Add(w)
	w.SetZIndex(m.zIndex(w.ZClass(), l.members.Len()))
}

// WindowHidden unregisters the window.
func (m *Manager) WindowHidden(identity string) {
	w, ok := m.visible[identity]
	if !ok {
		return
	}
	if l, ok := m.layers[w.ZClass()]; ok {
		l.members.Remove(w)
	}
	delete(m.visible, identity)
	m.visibleOrder.Remove(identity)
}

// MakeActive moves the window to the top of its layer and renumbers the layer.
func (m *Manager) MakeActive(identity string) {
	w, ok := m.visible[identity]
	if !ok {
		m.logger.Debug("activate of hidden window", "window", identity)
		return
	}
	l := m.layer(w.ZClass())
	l.members.MoveToBack(w)
	m.renumber(l)
}

// ZClassWasUpdated moves w from the layer prev to the top of its current
// layer and gives it that layer's z-index. Windows that are not visible are
// not tracked in any layer.
func (m *Manager) ZClassWasUpdated(w Window, prev int) {
	if _, ok := m.visible[w.Identity()]; !ok {
		return
	}
	if l, ok := m.layers[prev]; ok {
		l.members.Remove(w)
	}
	dest := m.layer(w.ZClass())
	dest.members.Add(w)
	w.SetZIndex(m.zIndex(dest.zClass, dest.members.Len()))
}

// GetWindowRectangle returns the scaled rectangle of a visible window.
// Unknown windows are logged and yield a 100x100 rectangle at the origin.
func (m *Manager) GetWindowRectangle(identity string) model.Rect {
	w, ok := m.visible[identity]
	if !ok {
		m.logger.Error("no visible window", "window", identity)
		return model.NewRect(0, 0, 100, 100)
	}
	r := w.Rect()
	return model.NewRect(r.X, r.Y, r.W*m.scaleUI, r.H*m.scaleUI)
}

// VisibleWindows returns the identities of visible windows in show order.
func (m *Manager) VisibleWindows() []string {
	return m.visibleOrder.Values()
}

// LayerOrder returns the identities in layer zClass, bottom to top.
func (m *Manager) LayerOrder(zClass int) []string {
	l, ok := m.layers[zClass]
	if !ok {
		return nil
	}
	ids := make([]string, 0, l.members.Len())
	for w := range l.members.All() {
		ids = append(ids, w.Identity())
	}
	return ids
}

// Layers returns the z classes that have members, ascending.
func (m *Manager) Layers() []int {
	out := make([]int, 0, len(m.layers))
	for z, l := range m.layers {
		if l.members.Len() > 0 {
			out = append(out, z)
		}
	}
	slices.Sort(out)
	return out
}
