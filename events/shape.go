package events

import (
	"fmt"
	"strings"
)

// ShapeKind selects how an AttackShape is interpreted.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRectangle:
		return "Rectangle"
	case ShapeCircle:
		return "Circle"
	default:
		return "Unknown"
	}
}

func (k ShapeKind) MarshalText() ([]byte, error) {
	switch k {
	case ShapeRectangle, ShapeCircle:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("events: invalid shape kind %d", int(k))
}

func (k *ShapeKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "rectangle", "rect", "box":
		*k = ShapeRectangle
	case "circle":
		*k = ShapeCircle
	default:
		return fmt.Errorf("events: unknown shape kind %q", string(b))
	}
	return nil
}

// AttackShape is a hitbox in animation-local space: the origin is the
// skeleton anchor at scale 1. For circles Width is the radius and Height and
// Rotation are unused. Rotation is in degrees.
type AttackShape struct {
	Kind     ShapeKind `json:"kind"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Rotation float64   `json:"rotation"`
}

func DefaultAttackShape() AttackShape {
	return AttackShape{Kind: ShapeRectangle, Width: 50, Height: 50}
}

// HalfExtents returns the half width and half height of the bounding box in
// local units.
func (s AttackShape) HalfExtents() (float64, float64) {
	if s.Kind == ShapeCircle {
		return s.Width, s.Width
	}
	return s.Width / 2, s.Height / 2
}
