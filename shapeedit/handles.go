package shapeedit

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/frameevents/events"
)

// Handle identifies the drag operation a press starts.
type Handle int

const (
	HandleNone Handle = iota
	HandleRotate
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleLeft
	HandleRight
	HandleTop
	HandleBottom
	HandleMove
)

var handleNames = [...]string{
	"None", "Rotate", "TopLeft", "TopRight", "BottomLeft", "BottomRight",
	"Left", "Right", "Top", "Bottom", "Move",
}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "Unknown"
	}
	return handleNames[h]
}

// IsCorner reports whether h resizes both dimensions.
func (h Handle) IsCorner() bool {
	return h >= HandleTopLeft && h <= HandleBottomRight
}

// IsEdge reports whether h resizes a single dimension.
func (h Handle) IsEdge() bool {
	return h >= HandleLeft && h <= HandleBottom
}

// sides returns which side of the local frame the handle sits on: -1 for
// left/top, +1 for right/bottom, 0 when the handle does not act on that axis.
func (h Handle) sides() (x, y float64) {
	switch h {
	case HandleLeft, HandleTopLeft, HandleBottomLeft:
		x = -1
	case HandleRight, HandleTopRight, HandleBottomRight:
		x = 1
	}
	switch h {
	case HandleTop, HandleTopLeft, HandleTopRight:
		y = -1
	case HandleBottom, HandleBottomLeft, HandleBottomRight:
		y = 1
	}
	return x, y
}

// Transform maps animation-local coordinates to screen coordinates. The shape
// is drawn at Pos + local*Scale.
type Transform struct {
	PosX, PosY float64
	Scale      float64
}

func (t Transform) scale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// ToLocal converts a screen point to animation-local space.
func (t Transform) ToLocal(sx, sy float64) cp.Vector {
	s := t.scale()
	return cp.Vector{X: (sx - t.PosX) / s, Y: (sy - t.PosY) / s}
}

// ToScreen converts an animation-local point to screen space.
func (t Transform) ToScreen(v cp.Vector) cp.Vector {
	s := t.scale()
	return cp.Vector{X: t.PosX + v.X*s, Y: t.PosY + v.Y*s}
}

// HandlePoint is a handle's screen position, used for hit tests and drawing.
type HandlePoint struct {
	Handle Handle
	X, Y   float64
}

func center(s *events.AttackShape) cp.Vector {
	return cp.Vector{X: s.X, Y: s.Y}
}

// orientation is the unit vector of the shape's rotation. Circles do not rotate.
func orientation(s *events.AttackShape) cp.Vector {
	if s.Kind == events.ShapeCircle {
		return cp.Vector{X: 1, Y: 0}
	}
	return cp.ForAngle(s.Rotation * math.Pi / 180)
}

type offset struct {
	h Handle
	v cp.Vector
}

// localOffsets lists the unrotated handle offsets from the shape center in
// priority order. Circles have no rotate handle.
func localOffsets(s *events.AttackShape, rotationDistance float64) []offset {
	hw, hh := s.HalfExtents()
	out := make([]offset, 0, 9)
	if s.Kind != events.ShapeCircle {
		out = append(out, offset{HandleRotate, cp.Vector{X: 0, Y: -(hh + rotationDistance)}})
	}
	return append(out,
		offset{HandleTopLeft, cp.Vector{X: -hw, Y: -hh}},
		offset{HandleTopRight, cp.Vector{X: hw, Y: -hh}},
		offset{HandleBottomLeft, cp.Vector{X: -hw, Y: hh}},
		offset{HandleBottomRight, cp.Vector{X: hw, Y: hh}},
		offset{HandleLeft, cp.Vector{X: -hw, Y: 0}},
		offset{HandleRight, cp.Vector{X: hw, Y: 0}},
		offset{HandleTop, cp.Vector{X: 0, Y: -hh}},
		offset{HandleBottom, cp.Vector{X: 0, Y: hh}},
	)
}

// Handles returns the screen positions of every handle of s in
// classification priority order.
func Handles(s *events.AttackShape, tr Transform, rotationDistance float64) []HandlePoint {
	if s == nil {
		return nil
	}
	c := center(s)
	rot := orientation(s)
	offsets := localOffsets(s, rotationDistance)
	out := make([]HandlePoint, 0, len(offsets))
	for _, o := range offsets {
		p := tr.ToScreen(c.Add(o.v.Rotate(rot)))
		out = append(out, HandlePoint{Handle: o.h, X: p.X, Y: p.Y})
	}
	return out
}

// Classify returns the operation a press at screen point (sx, sy) starts.
// Handles are tried in priority order with a hit radius of DragHandleSize pixels;
// a press inside the bounding box moves the shape.
func Classify(s *events.AttackShape, tr Transform, sx, sy float64, lim Limits) Handle {
	if s == nil {
		return HandleNone
	}
	pointer := cp.Vector{X: sx, Y: sy}
	for _, hp := range Handles(s, tr, lim.RotationHandleDistance) {
		if pointer.Distance(cp.Vector{X: hp.X, Y: hp.Y}) <= lim.DragHandleSize {
			return hp.Handle
		}
	}
	if Contains(s, tr.ToLocal(sx, sy)) {
		return HandleMove
	}
	return HandleNone
}

// Contains reports whether the local point p lies inside the shape's bounding
// box, measured in the shape's own rotated frame.
func Contains(s *events.AttackShape, p cp.Vector) bool {
	if s == nil {
		return false
	}
	hw, hh := s.HalfExtents()
	d := p.Sub(center(s)).Unrotate(orientation(s))
	return cp.NewBBForExtents(cp.Vector{}, hw, hh).ContainsVect(d)
}
