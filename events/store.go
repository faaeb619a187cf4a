package events

import (
	"math"
	"sort"
)

// Store is the ordered event collection for the active clip plus the
// currently selected event. Events are kept sorted ascending by Time; equal
// times keep their insertion order.
type Store struct {
	events   []*FrameEvent
	selected *FrameEvent
}

func NewStore() *Store { return &Store{} }

// Len returns the number of events.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.events)
}

// At returns the event at index i or nil when out of bounds.
func (s *Store) At(i int) *FrameEvent {
	if s == nil || i < 0 || i >= len(s.events) {
		return nil
	}
	return s.events[i]
}

// Events returns the live, sorted slice. Callers must not reorder it.
func (s *Store) Events() []*FrameEvent {
	if s == nil {
		return nil
	}
	return s.events
}

// Snapshot returns deep copies of every event in order.
func (s *Store) Snapshot() []*FrameEvent {
	if s == nil {
		return nil
	}
	out := make([]*FrameEvent, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}

// Add inserts a new event and re-sorts. It returns the inserted event.
func (s *Store) Add(name string, t float64, payload Payload) *FrameEvent {
	ev := NewFrameEvent(name, t, payload)
	s.Insert(ev)
	return ev
}

// Insert appends an existing event and re-sorts.
func (s *Store) Insert(ev *FrameEvent) {
	if s == nil || ev == nil {
		return
	}
	s.events = append(s.events, ev)
	s.sort()
}

// Remove deletes the event at index i. Out of range indices are ignored.
func (s *Store) Remove(i int) bool {
	if s == nil || i < 0 || i >= len(s.events) {
		return false
	}
	removed := s.events[i]
	s.events = append(s.events[:i], s.events[i+1:]...)
	if s.selected == removed {
		s.selected = nil
	}
	return true
}

// RemoveEvent deletes ev if it is present.
func (s *Store) RemoveEvent(ev *FrameEvent) bool {
	return s.Remove(s.IndexOf(ev))
}

// IndexOf returns the index of ev or -1.
func (s *Store) IndexOf(ev *FrameEvent) int {
	if s == nil || ev == nil {
		return -1
	}
	for i, e := range s.events {
		if e == ev {
			return i
		}
	}
	return -1
}

// FindNear returns the index of the first event within tolerance of t, or -1.
func (s *Store) FindNear(t, tolerance float64) int {
	if s == nil {
		return -1
	}
	for i, e := range s.events {
		if math.Abs(e.Time-t) <= tolerance {
			return i
		}
	}
	return -1
}

// SetTime moves the event at index i and restores sort order. The new index
// of the event is returned, or -1 when i is out of range.
func (s *Store) SetTime(i int, t float64) int {
	ev := s.At(i)
	if ev == nil {
		return -1
	}
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	ev.Time = t
	s.sort()
	return s.IndexOf(ev)
}

// SetType replaces the payload of the event at index i with the default
// payload for t. Keeping the same type leaves the payload alone.
func (s *Store) SetType(i int, t EventType) bool {
	ev := s.At(i)
	if ev == nil {
		return false
	}
	if ev.Type() == t {
		return true
	}
	ev.Payload = DefaultPayload(t)
	return true
}

// Replace swaps the whole collection, clearing the selection.
func (s *Store) Replace(evs []*FrameEvent) {
	if s == nil {
		return
	}
	s.events = make([]*FrameEvent, 0, len(evs))
	for _, e := range evs {
		if e != nil {
			s.events = append(s.events, e)
		}
	}
	s.selected = nil
	s.sort()
}

// Clear removes every event.
func (s *Store) Clear() {
	if s == nil {
		return
	}
	s.events = nil
	s.selected = nil
}

// Select marks the event at index i as selected; out of range clears it.
func (s *Store) Select(i int) {
	if s == nil {
		return
	}
	s.selected = s.At(i)
}

func (s *Store) SelectEvent(ev *FrameEvent) {
	if s == nil {
		return
	}
	if s.IndexOf(ev) < 0 {
		s.selected = nil
		return
	}
	s.selected = ev
}

func (s *Store) Deselect() {
	if s == nil {
		return
	}
	s.selected = nil
}

// Selected returns the selected event or nil.
func (s *Store) Selected() *FrameEvent {
	if s == nil {
		return nil
	}
	return s.selected
}

// SelectedIndex returns the index of the selection or -1.
func (s *Store) SelectedIndex() int {
	if s == nil || s.selected == nil {
		return -1
	}
	return s.IndexOf(s.selected)
}

func (s *Store) sort() {
	sort.SliceStable(s.events, func(a, b int) bool {
		return s.events[a].Time < s.events[b].Time
	})
}

// Sorted reports whether evs is non-decreasing in time.
func Sorted(evs []*FrameEvent) bool {
	for i := 1; i < len(evs); i++ {
		if evs[i].Time < evs[i-1].Time {
			return false
		}
	}
	return true
}
