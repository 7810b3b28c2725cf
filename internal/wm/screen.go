package wm

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/model"
)

// ErrNoItem is returned when a screen is created without an item path.
var ErrNoItem = errors.New("window has no item")

type visibility int

const (
	visibilityUnknown visibility = iota
	visibilityShown
	visibilityHidden
)

// ScreenOptions describe a window binding.
type ScreenOptions struct {
	Item       string
	Title      string
	VisibleKey string // overrides <Item>.Visible
	X, Y       float64
	Width      float64
	Height     float64
	Sizable    bool
	Draggable  bool
}

// Screen is the engine-facing half of a window widget. It keeps the
// window's synchronized keys, its geometry and its z-index; rendering is
// left to the widget layer.
type Screen struct {
	eng    *engine.Engine
	wm     *Manager
	logger *slog.Logger

	item       string
	visibleKey string
	sizable    bool
	canDrag    bool

	x, y, w, h float64
	zClass     int
	zIndex     int

	visibility visibility
	minimized  bool
	locked     bool

	opacity     string
	useTexture  bool
	tintColor   string
	title       string
	lastIniSeen string
	dragging    bool
}

// NewScreen creates a Screen. A missing item is reported to the host
// through the critical error key.
func NewScreen(eng *engine.Engine, mgr *Manager, opts ScreenOptions, logger *slog.Logger) (*Screen, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Item == "" {
		eng.ReportFailure("'window' has no 'item' attribute")
		return nil, ErrNoItem
	}
	s := &Screen{
		eng:        eng,
		wm:         mgr,
		logger:     logger.With("window", opts.Item),
		item:       opts.Item,
		visibleKey: opts.VisibleKey,
		sizable:    opts.Sizable,
		canDrag:    opts.Draggable,
		x:          opts.X,
		y:          opts.Y,
		w:          opts.Width,
		h:          opts.Height,
		zClass:     model.UIZWindows,
		title:      opts.Title,
	}
	if s.visibleKey == "" {
		s.visibleKey = s.key(model.AttrVisible)
	}
	return s, nil
}

func (s *Screen) key(attr string) string {
	return model.Key(s.item, attr)
}

// Bind binds the window keys and applies their current values.
func (s *Screen) Bind() {
	opts := engine.BindOptions{}
	s.eng.Bind(s.visibleKey, "1", s, opts)

	s.eng.Bind(s.key(model.AttrOpacity), "1", s, opts)
	s.eng.Bind(s.key(model.AttrBackgroundUseTexture), "1", s, opts)
	s.eng.Bind(s.key(model.AttrBackgroundTintColor), "#ffffff", s, opts)

	s.eng.Bind(s.key(model.AttrTitle), s.title, s, opts)

	s.eng.Bind(s.key(model.AttrZClass), "0", s, opts)
	s.eng.Bind(s.key(model.AttrMinimized), "0", s, opts)
	s.eng.Bind(s.key(model.AttrLocked), "0", s, opts)

	s.eng.Bind(s.key(model.AttrMovement), "", s, opts)
	s.eng.Bind(s.key(model.AttrIniState), "", s, opts)

	s.Updated()
}

// Unbind removes the window from the engine and the manager.
func (s *Screen) Unbind() {
	s.eng.RemoveListener(s)
	s.wm.WindowHidden(s.item)
	s.visibility = visibilityUnknown
}

// Updated applies the window keys. The z class is applied first so a
// window is shown straight into its layer.
func (s *Screen) Updated() {
	if zs := s.eng.Get(s.key(model.AttrZClass)); zs != "" {
		z, err := strconv.Atoi(zs)
		if err != nil {
			s.logger.Warn("invalid z class", "value", zs)
		} else if z != s.zClass {
			prev := s.zClass
			s.zClass = z
			s.wm.ZClassWasUpdated(s, prev)
		}
	}

	if s.eng.Get(s.visibleKey) == "0" {
		if s.visibility != visibilityHidden {
			s.visibility = visibilityHidden
			s.wm.WindowHidden(s.item)
			s.logger.Debug("window hidden")
		}
		return
	}
	if s.visibility != visibilityShown {
		s.visibility = visibilityShown
		s.wm.WindowShown(s)
		s.logger.Debug("window shown", "z", s.zIndex)
	}

	s.minimized = s.eng.Get(s.key(model.AttrMinimized)) == "1"
	s.locked = s.eng.Get(s.key(model.AttrLocked)) == "1"
	s.opacity = s.eng.Get(s.key(model.AttrOpacity))
	s.useTexture = s.eng.Get(s.key(model.AttrBackgroundUseTexture)) == "1"
	s.tintColor = s.eng.Get(s.key(model.AttrBackgroundTintColor))
	s.title = s.eng.Get(s.key(model.AttrTitle))

	if ini := s.eng.Get(s.key(model.AttrIniState)); ini != "" && ini != s.lastIniSeen {
		s.loadIniState(ini)
	}

	if mv := s.eng.Get(s.key(model.AttrMovement)); mv != "" {
		s.move(mv)
		s.eng.Update(s.key(model.AttrMovement), "", s)
	}
}

// Item returns the window's item path.
func (s *Screen) Item() string { return s.item }

// Identity returns the window's registry identity.
func (s *Screen) Identity() string { return s.item }

// ZClass returns the window's z layer.
func (s *Screen) ZClass() int { return s.zClass }

// Rect returns the unscaled window rectangle.
func (s *Screen) Rect() model.Rect { return model.NewRect(s.x, s.y, s.w, s.h) }

// SetZIndex stores the z-index assigned by the manager.
func (s *Screen) SetZIndex(z int) { s.zIndex = z }

// ZIndex returns the last assigned z-index.
func (s *Screen) ZIndex() int { return s.zIndex }

// Visible reports whether the window is shown.
func (s *Screen) Visible() bool { return s.visibility == visibilityShown }

// Minimized reports the synchronized minimized state.
func (s *Screen) Minimized() bool { return s.minimized }

// Draggable reports whether the window can currently be dragged.
func (s *Screen) Draggable() bool { return s.canDrag && !s.locked }

// Title returns the synchronized title.
func (s *Screen) Title() string { return s.title }

// Appearance returns the synchronized opacity, texture flag and tint.
func (s *Screen) Appearance() (opacity string, useTexture bool, tint string) {
	return s.opacity, s.useTexture, s.tintColor
}

// Activate raises the window within its layer.
func (s *Screen) Activate() {
	s.wm.MakeActive(s.item)
}

// BeginDrag starts a drag and computes the docking candidates.
// It reports false if the window cannot be dragged.
func (s *Screen) BeginDrag() bool {
	if !s.Draggable() || !s.Visible() {
		return false
	}
	s.dragging = true
	s.wm.MakeActive(s.item)
	s.wm.InitiateDocking(s.item)
	return true
}

// DragTo moves the window to the docked position nearest (x, y).
func (s *Screen) DragTo(x, y float64) model.Point {
	if !s.dragging {
		return model.Point{X: s.x, Y: s.y}
	}
	p := s.wm.ApplyDocking(x, y)
	s.x, s.y = p.X, p.Y
	return p
}

// EndDrag finishes a drag and stores the new placement.
func (s *Screen) EndDrag() {
	if !s.dragging {
		return
	}
	s.dragging = false
	s.wm.EndDocking()
	s.StoreIniState()
}

// Resize sets the window size and stores the new placement.
func (s *Screen) Resize(w, h float64) {
	if !s.sizable {
		return
	}
	s.w, s.h = w, h
	s.StoreIniState()
}

// StoreIniState notifies the host and writes the placement as
// xRelCenter|yRelCenter[|width|height].
func (s *Screen) StoreIniState() {
	s.eng.SendEvent(s.item, s.item, model.EventWindowRectChanged, "")

	scr := s.wm.ScreenSize()
	parts := []string{
		formatFloat((s.x + s.w/2) / float64(scr.W)),
		formatFloat((s.y + s.h/2) / float64(scr.H)),
	}
	if s.sizable {
		parts = append(parts, formatFloat(s.w), formatFloat(s.h))
	}
	state := strings.Join(parts, model.ListSeparator)
	s.eng.Update(s.key(model.AttrIniState), state, s)
	s.lastIniSeen = state
}

func (s *Screen) loadIniState(state string) {
	s.lastIniSeen = state
	parts := model.SplitList(state)
	scr := s.wm.ScreenSize()

	if s.sizable && len(parts) >= 4 {
		if w, err := strconv.ParseFloat(parts[2], 64); err == nil {
			s.w = math.Trunc(w)
		}
		if h, err := strconv.ParseFloat(parts[3], 64); err == nil {
			s.h = math.Trunc(h)
		}
	}
	if len(parts) < 2 {
		return
	}
	rx, errX := strconv.ParseFloat(parts[0], 64)
	ry, errY := strconv.ParseFloat(parts[1], 64)
	if errX != nil || errY != nil {
		s.logger.Warn("invalid ini state", "value", state)
		return
	}
	x := rx*float64(scr.W) - s.w/2
	y := ry*float64(scr.H) - s.h/2
	s.x = math.Floor(clamp(x, 0, float64(scr.W)-s.w/2))
	s.y = math.Floor(clamp(y, 0, float64(scr.H)-s.h/2))
}

func (s *Screen) move(movement string) {
	scr := s.wm.ScreenSize()
	sw, sh := float64(scr.W), float64(scr.H)
	switch movement {
	case model.MovementCenter:
		s.x = math.Floor((sw - s.w) / 2)
		s.y = math.Floor((sh - s.h) / 2)
	case model.MovementLeft:
		s.x = 0
	case model.MovementRight:
		s.x = sw - s.w
	case model.MovementTop:
		s.y = 0
	case model.MovementBottom:
		s.y = sh - s.h
	default:
		s.logger.Warn("unknown movement", "value", movement)
		return
	}
	s.StoreIniState()
}

// Close hides the window and notifies the host.
func (s *Screen) Close() {
	s.eng.Update(s.visibleKey, "0", nil)
	s.eng.SendEvent(s.item, s.item, model.EventCloseBox, "")
}

// ToggleMinimize flips the minimized state and notifies the host.
func (s *Screen) ToggleMinimize() {
	s.minimized = !s.minimized
	v := "0"
	if s.minimized {
		v = "1"
	}
	s.eng.Update(s.key(model.AttrMinimized), v, s)
	s.eng.SendEvent(s.item, s.item, model.EventMinimizeBox, v)
}

// QuestionMark sends the help button event.
func (s *Screen) QuestionMark() {
	s.eng.SendEvent(s.item, s.item, model.EventQMarkBox, "")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
