package shapeedit

import (
	"math"
	"testing"

	"github.com/milk9111/frameevents/events"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func rect(x, y, w, h, rot float64) *events.AttackShape {
	return &events.AttackShape{Kind: events.ShapeRectangle, X: x, Y: y, Width: w, Height: h, Rotation: rot}
}

var origin = Transform{PosX: 100, PosY: 100, Scale: 1}

// drag presses at the first point and then holds the button while moving through the
// remaining points.
func drag(d *DragController, s *events.AttackShape, tr Transform, points ...[2]float64) {
	for i, p := range points {
		d.Update(s, tr, Pointer{X: p[0], Y: p[1], Down: true, Pressed: i == 0})
	}
}

func TestRightEdgeScenario(t *testing.T) {
	s := rect(0, 0, 40, 40, 0)
	d := NewDragController(DefaultLimits())
	drag(d, s, origin, [2]float64{120, 100}, [2]float64{130, 100})
	if d.Handle() != HandleRight {
		t.Fatalf("handle = %v, want Right", d.Handle())
	}
	// the left edge stays at -20, so the center moves to 10
	if !approxEqual(s.Width, 60) || !approxEqual(s.X, 10) {
		t.Fatalf("got width=%v x=%v, want width=60 x=10", s.Width, s.X)
	}
	if left := s.X - s.Width/2; !approxEqual(left, -20) {
		t.Fatalf("left edge moved from -20 to %v", left)
	}
	if s.Height != 40 {
		t.Fatalf("edge drag changed height to %v", s.Height)
	}
}

func TestScreenToLocalUsesScale(t *testing.T) {
	tr := Transform{PosX: 200, PosY: 50, Scale: 2}
	v := tr.ToLocal(260, 10)
	if !approxEqual(v.X, 30) || !approxEqual(v.Y, -20) {
		t.Fatalf("ToLocal = %v, want (30,-20)", v)
	}
	back := tr.ToScreen(v)
	if !approxEqual(back.X, 260) || !approxEqual(back.Y, 10) {
		t.Fatalf("ToScreen(ToLocal) = %v", back)
	}

	s := rect(0, 0, 40, 40, 0)
	d := NewDragController(DefaultLimits())
	// right edge sits at local (20,0), screen (240,50)
	drag(d, s, tr, [2]float64{240, 50}, [2]float64{260, 50})
	if !approxEqual(s.Width, 60) {
		t.Fatalf("width = %v, want 60", s.Width)
	}
}

func TestResizeFloor(t *testing.T) {
	lim := DefaultLimits()
	tests := []struct {
		name  string
		start [2]float64
	}{
		{"left", [2]float64{80, 100}},
		{"right", [2]float64{120, 100}},
		{"top", [2]float64{100, 80}},
		{"bottom", [2]float64{100, 120}},
		{"top_left", [2]float64{80, 80}},
		{"bottom_right", [2]float64{120, 120}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := rect(0, 0, 40, 40, 0)
			d := NewDragController(lim)
			drag(d, s, origin, tc.start, [2]float64{101, 99}, [2]float64{100, 100})
			if s.Width < lim.MinShapeSize || s.Height < lim.MinShapeSize {
				t.Fatalf("shape shrank below minimum: %+v", *s)
			}
		})
	}
}

func TestCornerResizesBoth(t *testing.T) {
	s := rect(0, 0, 40, 20, 0)
	d := NewDragController(DefaultLimits())
	drag(d, s, origin, [2]float64{120, 110}, [2]float64{125, 130})
	if d.Handle() != HandleBottomRight {
		t.Fatalf("handle = %v", d.Handle())
	}
	if !approxEqual(s.Width, 50) || !approxEqual(s.Height, 60) {
		t.Fatalf("got %vx%v, want 50x60", s.Width, s.Height)
	}
	if !approxEqual(s.X, 5) || !approxEqual(s.Y, 20) {
		t.Fatalf("center = (%v,%v), want (5,20)", s.X, s.Y)
	}
}

func TestResizeHoldsOppositeEdges(t *testing.T) {
	type edges struct{ left, right, top, bottom float64 }
	edgesOf := func(s *events.AttackShape) edges {
		return edges{s.X - s.Width/2, s.X + s.Width/2, s.Y - s.Height/2, s.Y + s.Height/2}
	}
	tests := []struct {
		name     string
		from, to [2]float64
		want     edges
	}{
		// rect(0,0,40,40) spans -20..20 on both axes
		{"right", [2]float64{120, 100}, [2]float64{130, 100}, edges{-20, 40, -20, 20}},
		{"left", [2]float64{80, 100}, [2]float64{70, 100}, edges{-40, 20, -20, 20}},
		{"bottom", [2]float64{100, 120}, [2]float64{100, 125}, edges{-20, 20, -20, 30}},
		{"top", [2]float64{100, 80}, [2]float64{100, 75}, edges{-20, 20, -30, 20}},
		{"top_left", [2]float64{80, 80}, [2]float64{75, 70}, edges{-30, 20, -40, 20}},
		{"bottom_right", [2]float64{120, 120}, [2]float64{130, 125}, edges{-20, 40, -20, 30}},
		{"top_right", [2]float64{120, 80}, [2]float64{125, 75}, edges{-20, 30, -30, 20}},
		{"bottom_left", [2]float64{80, 120}, [2]float64{75, 130}, edges{-30, 20, -20, 40}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := rect(0, 0, 40, 40, 0)
			d := NewDragController(DefaultLimits())
			drag(d, s, origin, tc.from, tc.to)
			got := edgesOf(s)
			if !approxEqual(got.left, tc.want.left) || !approxEqual(got.right, tc.want.right) ||
				!approxEqual(got.top, tc.want.top) || !approxEqual(got.bottom, tc.want.bottom) {
				t.Fatalf("edges = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResizeIsStableWhileHeld(t *testing.T) {
	s := rect(0, 0, 40, 40, 0)
	d := NewDragController(DefaultLimits())
	drag(d, s, origin, [2]float64{120, 100}, [2]float64{130, 100}, [2]float64{130, 100}, [2]float64{130, 100})
	if !approxEqual(s.Width, 60) || !approxEqual(s.X, 10) {
		t.Fatalf("holding still changed the shape: width=%v x=%v", s.Width, s.X)
	}
}

func TestMoveJumpsToPointer(t *testing.T) {
	s := rect(0, 0, 100, 100, 0)
	d := NewDragController(DefaultLimits())
	drag(d, s, origin, [2]float64{110, 110})
	if d.Handle() != HandleMove {
		t.Fatalf("handle = %v, want Move", d.Handle())
	}
	if s.X != 10 || s.Y != 10 {
		t.Fatalf("center = (%v,%v), want (10,10)", s.X, s.Y)
	}
	d.Update(s, origin, Pointer{X: 150, Y: 90, Down: true})
	if s.X != 50 || s.Y != -10 {
		t.Fatalf("center = (%v,%v), want (50,-10)", s.X, s.Y)
	}
}

func TestRotateUsesAtan2Degrees(t *testing.T) {
	s := rect(0, 0, 40, 40, 0)
	d := NewDragController(DefaultLimits())
	// rotate handle: 20 + 30 above the center
	drag(d, s, origin, [2]float64{100, 50})
	if d.Handle() != HandleRotate {
		t.Fatalf("handle = %v, want Rotate", d.Handle())
	}
	if !approxEqual(s.Rotation, -90) {
		t.Fatalf("rotation = %v, want -90", s.Rotation)
	}
	tests := []struct {
		x, y float64
		want float64
	}{
		{150, 100, 0},
		{100, 150, 90},
		{50, 100, 180},
		{50, 50, -135},
	}
	for _, tc := range tests {
		d.Update(s, origin, Pointer{X: tc.x, Y: tc.y, Down: true})
		if !approxEqual(s.Rotation, tc.want) {
			t.Fatalf("pointer (%v,%v): rotation = %v, want %v", tc.x, tc.y, s.Rotation, tc.want)
		}
	}
}

func TestClassificationPriority(t *testing.T) {
	lim := DefaultLimits()
	tests := []struct {
		name  string
		shape *events.AttackShape
		lim   Limits
		x, y  float64
		want  Handle
	}{
		{"corner_before_edge", rect(0, 0, 10, 10, 0), lim, 95, 95, HandleTopLeft},
		{"rotate_before_corner", rect(0, 0, 10, 10, 0), Limits{DragHandleSize: 8, RotationHandleDistance: 0, MinShapeSize: 1}, 100, 95, HandleRotate},
		{"edge", rect(0, 0, 100, 100, 0), lim, 152, 100, HandleRight},
		{"interior", rect(0, 0, 100, 100, 0), lim, 110, 110, HandleMove},
		{"miss", rect(0, 0, 100, 100, 0), lim, 300, 300, HandleNone},
		{"rotated_interior", rect(0, 0, 100, 10, 90), lim, 100, 140, HandleMove},
		{"rotated_miss", rect(0, 0, 100, 10, 90), lim, 160, 100, HandleNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.shape, origin, tc.x, tc.y, tc.lim); got != tc.want {
				t.Fatalf("Classify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRotatedEdgeResize(t *testing.T) {
	s := rect(0, 0, 40, 20, 90)
	d := NewDragController(DefaultLimits())
	// rotated 90 degrees the right handle points down
	drag(d, s, origin, [2]float64{100, 120}, [2]float64{100, 130})
	if d.Handle() != HandleRight {
		t.Fatalf("handle = %v, want Right", d.Handle())
	}
	if !approxEqual(s.Width, 60) || !approxEqual(s.Height, 20) {
		t.Fatalf("got %vx%v, want 60x20", s.Width, s.Height)
	}
	// the held edge is the one pointing up, at local y=-20
	if !approxEqual(s.X, 0) || !approxEqual(s.Y, 10) {
		t.Fatalf("center = (%v,%v), want (0,10)", s.X, s.Y)
	}
}

func TestCircleResizesRadius(t *testing.T) {
	lim := DefaultLimits()
	s := &events.AttackShape{Kind: events.ShapeCircle, Width: 20}
	if got := Classify(s, origin, 100, 100-20-lim.RotationHandleDistance, lim); got != HandleNone {
		t.Fatalf("circle has no rotate handle, got %v", got)
	}
	d := NewDragController(lim)
	drag(d, s, origin, [2]float64{120, 100}, [2]float64{135, 100})
	if !approxEqual(s.Width, 35) {
		t.Fatalf("radius = %v, want 35", s.Width)
	}
	d.Update(s, origin, Pointer{X: 101, Y: 100, Down: true})
	if s.Width != lim.MinShapeSize {
		t.Fatalf("radius = %v, want floor %v", s.Width, lim.MinShapeSize)
	}
}

func TestReleaseEndsDrag(t *testing.T) {
	s := rect(0, 0, 40, 40, 0)
	d := NewDragController(DefaultLimits())
	drag(d, s, origin, [2]float64{120, 100})
	if !d.Dragging() {
		t.Fatalf("expected drag in progress")
	}
	d.Update(s, origin, Pointer{X: 140, Y: 100})
	if d.Dragging() || d.Handle() != HandleNone {
		t.Fatalf("release should reset, got dragging=%v handle=%v", d.Dragging(), d.Handle())
	}
	if s.Width != 40 {
		t.Fatalf("release tick must not edit, width=%v", s.Width)
	}
	// holding without a fresh press does not start a drag
	if d.Update(s, origin, Pointer{X: 120, Y: 100, Down: true}) || d.Dragging() {
		t.Fatalf("held button without press started a drag")
	}
}
