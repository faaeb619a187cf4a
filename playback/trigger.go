package playback

import (
	"fmt"
	"strings"

	"github.com/milk9111/frameevents/events"
)

// TriggerPolicy selects the rule deciding which events fire on a tick.
type TriggerPolicy int

const (
	// PolicyLegacy fires when the tick crosses the event, or on any tick where
	// time went backwards if the event is after the previous time or at/before
	// the current time. It can refire events whenever time decreases.
	PolicyLegacy TriggerPolicy = iota
	// PolicyWrapAware only uses the wrap branch on a real loop wrap and then
	// fires (previous, duration] and [0, current].
	PolicyWrapAware
)

func (p TriggerPolicy) String() string {
	switch p {
	case PolicyLegacy:
		return "legacy"
	case PolicyWrapAware:
		return "wrap-aware"
	default:
		return "unknown"
	}
}

func ParseTriggerPolicy(s string) (TriggerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return PolicyLegacy, nil
	case "wrap-aware", "wrap_aware", "wrapaware":
		return PolicyWrapAware, nil
	}
	return PolicyLegacy, fmt.Errorf("playback: unknown trigger policy %q", s)
}

// Fires reports whether an event at eventTime fires on a tick that moved from
// previous to current. wrapped is true when the tick passed the clip end.
func Fires(policy TriggerPolicy, previous, current, eventTime, duration float64, wrapped bool) bool {
	if policy == PolicyWrapAware {
		if !wrapped {
			return previous < eventTime && current >= eventTime
		}
		return (eventTime > previous && eventTime <= duration) || eventTime <= current
	}
	return (previous < eventTime && current >= eventTime) ||
		(previous > current && (previous < eventTime || current >= eventTime))
}

// Trigger is one fired event.
type Trigger struct {
	Event *events.FrameEvent
	// Time is the playhead time on the tick that fired the event.
	Time    float64
	Wrapped bool
}

// TriggerQueue collects fired events until the owner drains them.
type TriggerQueue struct {
	items []Trigger
}

// Push adds a trigger.
func (q *TriggerQueue) Push(t Trigger) {
	if q == nil {
		return
	}
	q.items = append(q.items, t)
}

// Len reports the pending count.
func (q *TriggerQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all triggers in firing order and clears the queue.
func (q *TriggerQueue) Drain() []Trigger {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
