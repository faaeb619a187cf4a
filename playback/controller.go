package playback

import (
	"math"

	"github.com/milk9111/frameevents/events"
)

const (
	MinSpeed = 0.1
	MaxSpeed = 10.0
)

// State is the controller's play state.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "Playing"
	}
	return "Idle"
}

// Poser is the part of the playback engine the controller drives.
type Poser interface {
	ApplyPose(t float64)
}

// Controller advances the playhead, wraps at the clip end and queues the
// events crossed on each tick.
type Controller struct {
	state    State
	current  float64
	previous float64
	speed    float64
	duration float64
	policy   TriggerPolicy

	pose  Poser
	queue TriggerQueue
}

func NewController(duration float64, pose Poser) *Controller {
	return &Controller{duration: duration, speed: 1, pose: pose}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Playing() bool { return c.state == Playing }
func (c *Controller) CurrentTime() float64 { return c.current }
func (c *Controller) PreviousTime() float64 { return c.previous }
func (c *Controller) Speed() float64 { return c.speed }
func (c *Controller) Duration() float64 { return c.duration }
func (c *Controller) Policy() TriggerPolicy { return c.policy }
func (c *Controller) Queue() *TriggerQueue { return &c.queue }
func (c *Controller) SetPolicy(p TriggerPolicy) { c.policy = p }
func (c *Controller) SetPoser(p Poser) { c.pose = p }

func (c *Controller) Play() { c.state = Playing }
func (c *Controller) Pause() { c.state = Idle }

func (c *Controller) Toggle() {
	if c.state == Playing {
		c.state = Idle
	} else {
		c.state = Playing
	}
}

// Stop pauses and rewinds to the start.
func (c *Controller) Stop() {
	c.state = Idle
	c.SetCurrentTime(0)
}

// SetSpeed stores the playback rate. Callers clamp with ClampSpeed.
func (c *Controller) SetSpeed(v float64) {
	if v <= 0 || math.IsNaN(v) {
		return
	}
	c.speed = v
}

// ClampSpeed limits v to [lo, hi].
func ClampSpeed(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetDuration replaces the clip length without moving the playhead.
func (c *Controller) SetDuration(d float64) {
	if d < 0 {
		d = 0
	}
	c.duration = d
}

// SetCurrentTime moves the playhead and re-poses immediately. Only negative
// values are clamped; scrubbing callers limit to the duration themselves.
func (c *Controller) SetCurrentTime(t float64) {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	c.current = t
	c.previous = t
	c.applyPose()
}

// Update runs one tick. While playing the playhead advances by dt*speed,
// wraps to zero past the end and fires crossed events in ascending time
// order. The pose is applied on every tick, playing or not.
func (c *Controller) Update(dt float64, evs []*events.FrameEvent) {
	if c.state == Playing {
		c.advance(dt, evs)
	}
	c.applyPose()
}

func (c *Controller) advance(dt float64, evs []*events.FrameEvent) {
	previous := c.current
	c.current += dt * c.speed
	wrapped := false
	if c.current > c.duration {
		c.current = 0
		wrapped = true
	}
	c.previous = previous

	for _, ev := range evs {
		if ev == nil {
			continue
		}
		if Fires(c.policy, previous, c.current, ev.Time, c.duration, wrapped) {
			c.queue.Push(Trigger{Event: ev, Time: c.current, Wrapped: wrapped})
		}
	}
}

func (c *Controller) applyPose() {
	if c.pose != nil {
		c.pose.ApplyPose(c.current)
	}
}
