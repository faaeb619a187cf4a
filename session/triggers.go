package session

import "github.com/milk9111/frameevents/events"

const triggerHistory = 32

// TriggerRecord is one fired event kept for display.
type TriggerRecord struct {
	Event *events.FrameEvent
	Name  string
	Time  float64
	// FiredAt is the session clock when the event fired.
	FiredAt float64
	Wrapped bool
}

// triggerRing keeps the most recent triggers, oldest first.
type triggerRing struct {
	items [triggerHistory]TriggerRecord
	start int
	n     int
}

func (r *triggerRing) push(t TriggerRecord) {
	if r.n < triggerHistory {
		r.items[(r.start+r.n)%triggerHistory] = t
		r.n++
		return
	}
	r.items[r.start] = t
	r.start = (r.start + 1) % triggerHistory
}

func (r *triggerRing) list() []TriggerRecord {
	out := make([]TriggerRecord, r.n)
	for i := range out {
		out[i] = r.items[(r.start+i)%triggerHistory]
	}
	return out
}

func (r *triggerRing) reset() {
	*r = triggerRing{}
}

// RecentTriggers returns up to the last 32 triggers, oldest first.
func (s *Session) RecentTriggers() []TriggerRecord {
	return s.triggers.list()
}

// LastFired returns the clock time ev last fired, or false if it has not
// fired recently.
func (s *Session) LastFired(ev *events.FrameEvent) (float64, bool) {
	for i := s.triggers.n - 1; i >= 0; i-- {
		r := s.triggers.items[(s.triggers.start+i)%triggerHistory]
		if r.Event == ev {
			return r.FiredAt, true
		}
	}
	return 0, false
}
