package timeline

import "math"

// TicksPerZoom is how many axis ticks span the clip at zoom 1.
const TicksPerZoom = 20

// NiceStep returns the largest value of the form {1,2,5}*10^n that is not
// greater than ideal.
func NiceStep(ideal float64) float64 {
	if ideal <= 0 || math.IsInf(ideal, 0) || math.IsNaN(ideal) {
		return 0
	}
	base := math.Pow(10, math.Floor(math.Log10(ideal)))
	// Log10 can land just below an exact power of ten.
	if base*10 <= ideal*(1+1e-9) {
		base *= 10
	}
	for _, m := range []float64{5, 2, 1} {
		if m*base <= ideal*(1+1e-9) {
			return m * base
		}
	}
	return base
}

// TickStep is the axis label spacing in seconds for the current zoom: the
// largest nice step that still puts about TicksPerZoom*Zoom ticks across the
// clip.
func (m *Mapper) TickStep() float64 {
	if m.Duration <= 0 || m.Zoom <= 0 {
		return 0
	}
	return NiceStep(m.Duration / (TicksPerZoom * m.Zoom))
}

// Tick is one axis mark.
type Tick struct {
	Time  float64
	X     float64
	Major bool
}

// Ticks returns the marks inside the viewport. Every fifth tick is major.
func (m *Mapper) Ticks() []Tick {
	step := m.TickStep()
	if step <= 0 {
		return nil
	}
	start := math.Max(0, m.TimeFromX(m.ViewportX))
	end := math.Min(m.Duration, m.TimeFromX(m.ViewportX+m.ViewportWidth))
	var out []Tick
	for k := int(math.Ceil(start/step - 1e-9)); ; k++ {
		t := float64(k) * step
		if t > end+1e-9 {
			break
		}
		out = append(out, Tick{Time: t, X: m.XFromTime(t), Major: k%5 == 0})
	}
	return out
}
