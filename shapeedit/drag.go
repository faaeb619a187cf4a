package shapeedit

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/frameevents/events"
)

const (
	DefaultDragHandleSize         = 8.0
	DefaultRotationHandleDistance = 30.0
	DefaultMinShapeSize           = 10.0
)

// Limits are the hit-test and sizing constants. DragHandleSize is in screen
// pixels; RotationHandleDistance and MinShapeSize are in local units.
type Limits struct {
	DragHandleSize         float64
	RotationHandleDistance float64
	MinShapeSize           float64
}

func DefaultLimits() Limits {
	return Limits{
		DragHandleSize:         DefaultDragHandleSize,
		RotationHandleDistance: DefaultRotationHandleDistance,
		MinShapeSize:           DefaultMinShapeSize,
	}
}

// Pointer is one tick of sampled mouse state in screen coordinates.
type Pointer struct {
	X, Y float64
	// Down is true while the button is held; Pressed only on the tick it went down.
	Down    bool
	Pressed bool
}

// DragController turns pointer input into edits of a single AttackShape.
type DragController struct {
	Limits Limits

	dragging bool
	handle   Handle
	// start is the shape as it was when the drag began.
	start events.AttackShape
}

func NewDragController(lim Limits) *DragController {
	return &DragController{Limits: lim}
}

func (d *DragController) Dragging() bool { return d.dragging }
func (d *DragController) Handle() Handle { return d.handle }

// Reset ends any drag in progress.
func (d *DragController) Reset() {
	d.dragging = false
	d.handle = HandleNone
}

// Update runs one tick. A press that lands on a handle or inside the shape
// starts a drag; the drag mutates the shape until the button is released. It
// reports whether the shape changed.
func (d *DragController) Update(s *events.AttackShape, tr Transform, p Pointer) bool {
	if s == nil {
		d.Reset()
		return false
	}
	if !d.dragging {
		if !p.Pressed {
			return false
		}
		h := Classify(s, tr, p.X, p.Y, d.Limits)
		if h == HandleNone {
			return false
		}
		d.dragging = true
		d.handle = h
		d.start = *s
	}
	if !p.Down {
		d.Reset()
		return false
	}
	return d.apply(s, tr.ToLocal(p.X, p.Y))
}

func (d *DragController) apply(s *events.AttackShape, local cp.Vector) bool {
	before := *s
	switch {
	case d.handle == HandleMove:
		s.X, s.Y = local.X, local.Y
	case d.handle == HandleRotate:
		s.Rotation = math.Atan2(local.Y-s.Y, local.X-s.X) * 180 / math.Pi
	case d.handle.IsCorner():
		d.resize(s, local, true, true)
	case d.handle == HandleLeft || d.handle == HandleRight:
		d.resize(s, local, true, false)
	case d.handle == HandleTop || d.handle == HandleBottom:
		d.resize(s, local, false, true)
	}
	return *s != before
}

// resize recomputes the chosen dimensions as twice the pointer distance from
// the center the shape had when the drag began, measured in the shape's own
// frame. The center then moves along that frame so the edge opposite the
// handle keeps its position; a corner does this per axis. Circles keep their
// center: Width is the radius and a corner uses the larger component.
func (d *DragController) resize(s *events.AttackShape, local cp.Vector, horizontal, vertical bool) {
	minSize := d.Limits.MinShapeSize
	start := d.start
	rot := orientation(&start)
	rel := local.Sub(center(&start)).Unrotate(rot)
	dx, dy := math.Abs(rel.X), math.Abs(rel.Y)

	if s.Kind == events.ShapeCircle {
		r := 0.0
		if horizontal {
			r = dx
		}
		if vertical {
			r = math.Max(r, dy)
		}
		s.Width = math.Max(minSize, r)
		return
	}

	sx, sy := d.handle.sides()
	var shift cp.Vector
	if horizontal {
		s.Width = math.Max(minSize, 2*dx)
		shift.X = sx * (s.Width - start.Width) / 2
	}
	if vertical {
		s.Height = math.Max(minSize, 2*dy)
		shift.Y = sy * (s.Height - start.Height) / 2
	}
	c := center(&start).Add(shift.Rotate(rot))
	s.X, s.Y = c.X, c.Y
}
