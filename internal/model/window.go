package model

// Z layers as the host sends them in <item>.ZClass.
const (
	UIZBottom      = -100
	UIZWindows     = 0
	UIZTrade       = 20
	UIZBags        = 100
	UIZConfirm     = 200
	UIZDragItem    = 300
	UIZContextMenu = 800
	UIZTimeLeft    = 999 // above all windows
)

// Size is a viewport extent in pixels.
type Size struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Rect is a window rectangle. X2/Y2 are the far edges (X+W, Y+H).
type Rect struct {
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
	W  float64 `json:"w" yaml:"w"`
	H  float64 `json:"h" yaml:"h"`
	X2 float64 `json:"x2" yaml:"x2"`
	Y2 float64 `json:"y2" yaml:"y2"`
}

// NewRect builds a Rect from origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h, X2: x + w, Y2: y + h}
}

// Point is a screen coordinate pair.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Movement values accepted by <item>.Movement.
const (
	MovementCenter = "Center"
	MovementLeft   = "Left"
	MovementRight  = "Right"
	MovementTop    = "Top"
	MovementBottom = "Bottom"
)
