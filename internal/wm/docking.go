package wm

import (
	"math"

	"github.com/jmylchreest/uisync/internal/model"
)

// stickLine is a snap candidate on one axis, active while the other axis
// lies within span.
type stickLine struct {
	at   float64
	span [2]float64
}

// InitiateDocking rebuilds the snap candidates for dragging the window
// identity: the screen edges, plus flush-edge lines for every other
// visible window whose edge lies on screen.
func (m *Manager) InitiateDocking(identity string) {
	win := m.GetWindowRectangle(identity)
	sw := float64(m.cfg.Screen.W)
	sh := float64(m.cfg.Screen.H)

	m.stickX = []stickLine{
		{at: 0, span: [2]float64{-win.H, sh}},
		{at: sw - 1 - win.W, span: [2]float64{-win.H, sh}},
	}
	m.stickY = []stickLine{
		{at: 0, span: [2]float64{-win.W, sw}},
		{at: sh - 1 - win.H, span: [2]float64{-win.W, sw}},
	}

	for other := range m.visibleOrder.All() {
		if other == identity {
			continue
		}
		r := m.GetWindowRectangle(other)
		xLeft := r.X - win.W
		yAbove := r.Y - win.H

		if r.X >= 0 && r.X < sw {
			m.stickX = append(m.stickX,
				stickLine{at: r.X, span: [2]float64{yAbove, yAbove}},
				stickLine{at: r.X, span: [2]float64{r.Y2, r.Y2}},
				stickLine{at: xLeft, span: [2]float64{yAbove, r.Y2}},
			)
		}
		if r.X2 >= 0 && r.X2 < sw {
			m.stickX = append(m.stickX,
				stickLine{at: r.X2, span: [2]float64{yAbove, r.Y2}},
				stickLine{at: r.X2 - win.W, span: [2]float64{yAbove, yAbove}},
				stickLine{at: r.X2 - win.W, span: [2]float64{r.Y2, r.Y2}},
			)
		}
		if r.Y >= 0 && r.Y < sh {
			m.stickY = append(m.stickY,
				stickLine{at: r.Y, span: [2]float64{xLeft, xLeft}},
				stickLine{at: r.Y, span: [2]float64{r.X2, r.X2}},
				stickLine{at: yAbove, span: [2]float64{xLeft, r.X2}},
			)
		}
		if r.Y2 >= 0 && r.Y2 < sh {
			m.stickY = append(m.stickY,
				stickLine{at: r.Y2, span: [2]float64{xLeft, r.X2}},
				stickLine{at: r.Y2 - win.H, span: [2]float64{xLeft, xLeft}},
				stickLine{at: r.Y2 - win.H, span: [2]float64{r.X2, r.X2}},
			)
		}
	}
	m.logger.Debug("docking initiated", "window", identity,
		"stick_x", len(m.stickX), "stick_y", len(m.stickY))
}

// ApplyDocking clamps (x, y) to the screen and snaps each axis
// independently to the nearest active candidate within the docking radius.
// On equal distance the later candidate wins.
func (m *Manager) ApplyDocking(x, y float64) model.Point {
	sw := float64(m.cfg.Screen.W)
	sh := float64(m.cfg.Screen.H)
	x = clamp(x, 0, sw-1)
	y = clamp(y, 0, sh-1)

	r := m.cfg.DockingRadiusPx * m.scaleUI
	found := model.Point{X: x, Y: y}

	best := r
	for _, s := range m.stickX {
		if distanceToSegment(y, s.span) > r {
			continue
		}
		if d := math.Abs(x - s.at); d <= best {
			found.X = s.at
			best = d
		}
	}

	best = r
	for _, s := range m.stickY {
		if distanceToSegment(x, s.span) > r {
			continue
		}
		if d := math.Abs(y - s.at); d <= best {
			found.Y = s.at
			best = d
		}
	}
	return found
}

// EndDocking discards the candidates of the finished drag.
func (m *Manager) EndDocking() {
	m.stickX = nil
	m.stickY = nil
}

// distanceToSegment is the distance from v to the pixel span [a, b-1].
func distanceToSegment(v float64, span [2]float64) float64 {
	if v < span[0] {
		return span[0] - v
	}
	if v > span[1]-1 {
		return v - (span[1] - 1)
	}
	return 0
}
