package timeline

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 10.0
)

// Mapper converts between clip time and screen x for the scrubbing timeline.
// Zoom stretches the clip across ViewportWidth*Zoom pixels and ScrollOffset
// shifts that strip left.
type Mapper struct {
	Zoom          float64
	ScrollOffset  float64
	Duration      float64
	ViewportX     float64
	ViewportWidth float64

	MinZoom float64
	MaxZoom float64

	scroll *gween.Tween
}

func NewMapper(duration, viewportX, viewportWidth float64) *Mapper {
	return &Mapper{
		Zoom:          1,
		Duration:      duration,
		ViewportX:     viewportX,
		ViewportWidth: viewportWidth,
		MinZoom:       DefaultMinZoom,
		MaxZoom:       DefaultMaxZoom,
	}
}

func (m *Mapper) span() float64 {
	return m.ViewportWidth * m.Zoom
}

// XFromTime returns the screen x of clip time t.
func (m *Mapper) XFromTime(t float64) float64 {
	if m.Duration <= 0 {
		return m.ViewportX - m.ScrollOffset
	}
	return m.ViewportX + (t/m.Duration)*m.span() - m.ScrollOffset
}

// TimeFromX returns the clip time under screen x. It is the exact inverse of
// XFromTime and does not clamp to the clip.
func (m *Mapper) TimeFromX(x float64) float64 {
	span := m.span()
	if span == 0 {
		return 0
	}
	return ((x - m.ViewportX + m.ScrollOffset) / span) * m.Duration
}

// PixelsPerSecond is the current horizontal scale.
func (m *Mapper) PixelsPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return m.span() / m.Duration
}

// MaxScroll is the largest allowed ScrollOffset.
func (m *Mapper) MaxScroll() float64 {
	return math.Max(0, m.span()-m.ViewportWidth)
}

func (m *Mapper) clampScroll() {
	m.ScrollOffset = clamp(m.ScrollOffset, 0, m.MaxScroll())
}

// ZoomAt changes the zoom by delta while keeping the time under screen x0 at
// x0, then clamps the scroll. Clamping can move the anchor when the view hits
// either end of the clip.
func (m *Mapper) ZoomAt(x0, delta float64) {
	m.scroll = nil
	t0 := m.TimeFromX(x0)
	m.Zoom = clamp(m.Zoom+delta, m.minZoom(), m.maxZoom())
	x1 := m.XFromTime(t0)
	m.ScrollOffset += x1 - x0
	m.clampScroll()
}

// SetZoom sets the zoom keeping the left edge of the viewport as anchor.
func (m *Mapper) SetZoom(z float64) {
	m.ZoomAt(m.ViewportX, z-m.Zoom)
}

// ScrollBy shifts the view by dx pixels.
func (m *Mapper) ScrollBy(dx float64) {
	m.scroll = nil
	m.ScrollOffset += dx
	m.clampScroll()
}

func (m *Mapper) SetScroll(v float64) {
	m.scroll = nil
	m.ScrollOffset = v
	m.clampScroll()
}

// SetDuration replaces the clip length and clamps the scroll.
func (m *Mapper) SetDuration(d float64) {
	m.Duration = d
	m.clampScroll()
}

// SetViewport places the timeline on screen.
func (m *Mapper) SetViewport(x, width float64) {
	m.ViewportX = x
	m.ViewportWidth = math.Max(0, width)
	m.clampScroll()
}

// Reset returns to zoom 1 and no scroll.
func (m *Mapper) Reset() {
	m.scroll = nil
	m.Zoom = 1
	m.ScrollOffset = 0
}

// Visible reports whether time t lies inside the viewport.
func (m *Mapper) Visible(t float64) bool {
	x := m.XFromTime(t)
	return x >= m.ViewportX && x <= m.ViewportX+m.ViewportWidth
}

// ScrollTo eases the scroll offset to target over duration seconds. A
// non-positive duration jumps immediately.
func (m *Mapper) ScrollTo(target float64, duration float32, fn ease.TweenFunc) {
	target = clamp(target, 0, m.MaxScroll())
	if duration <= 0 {
		m.ScrollOffset = target
		m.scroll = nil
		return
	}
	if fn == nil {
		fn = ease.OutQuad
	}
	m.scroll = gween.New(float32(m.ScrollOffset), float32(target), duration, fn)
}

// Follow brings t back into view when it has left the viewport, placing it a
// tenth of the width from the left edge.
func (m *Mapper) Follow(t float64, duration float32) {
	if m.scroll != nil || m.Visible(t) || m.Duration <= 0 {
		return
	}
	target := (t/m.Duration)*m.span() - m.ViewportWidth*0.1
	m.ScrollTo(target, duration, ease.OutQuad)
}

// Scrolling reports whether a ScrollTo animation is running.
func (m *Mapper) Scrolling() bool {
	return m.scroll != nil
}

// Update advances any running scroll animation by dt seconds.
func (m *Mapper) Update(dt float64) {
	if m.scroll == nil {
		return
	}
	v, done := m.scroll.Update(float32(dt))
	m.ScrollOffset = float64(v)
	m.clampScroll()
	if done {
		m.scroll = nil
	}
}

func (m *Mapper) minZoom() float64 {
	if m.MinZoom <= 0 {
		return DefaultMinZoom
	}
	return m.MinZoom
}

func (m *Mapper) maxZoom() float64 {
	if m.MaxZoom <= 0 {
		return DefaultMaxZoom
	}
	return m.MaxZoom
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
