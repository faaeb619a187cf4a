package session

import (
	"log"
	"math"

	"github.com/milk9111/frameevents/events"
)

// Input is one frame of sampled mouse and keyboard state.
type Input struct {
	MouseX, MouseY float64
	LeftDown       bool
	LeftPressed    bool
	RightPressed   bool
	// Wheel is the vertical scroll delta; positive zooms in.
	Wheel float64

	Save       bool
	Delete     bool
	TogglePlay bool
	Rewind     bool
	Copy       bool
	Paste      bool

	// PointerCaptured is set when a widget owns the pointer this frame.
	PointerCaptured bool
}

const (
	// playheadGrab is how close in pixels a press must land to drag the playhead.
	playheadGrab = 5.0

	menuItemW = 150.0
	menuItemH = 20.0
)

// MenuAction is an entry of the timeline context menu.
type MenuAction int

const (
	MenuAddEvent MenuAction = iota
	MenuDeleteEvent
)

func (a MenuAction) String() string {
	if a == MenuDeleteEvent {
		return "Delete event"
	}
	return "Add event here"
}

// ContextMenu is the open right-click menu on the timeline.
type ContextMenu struct {
	X, Y   float64
	Time   float64
	Target *events.FrameEvent
	Items  []MenuAction
}

// ItemRect returns the screen rectangle of item i.
func (m *ContextMenu) ItemRect(i int) (x, y, w, h float64) {
	return m.X, m.Y + float64(i)*menuItemH, menuItemW, menuItemH
}

// ItemAt returns the index of the item under (x, y) or -1.
func (m *ContextMenu) ItemAt(x, y float64) int {
	for i := range m.Items {
		ix, iy, iw, ih := m.ItemRect(i)
		if x >= ix && x < ix+iw && y >= iy && y < iy+ih {
			return i
		}
	}
	return -1
}

// InTimeline reports whether (x, y) lies on the timeline strip.
func (s *Session) InTimeline(x, y float64) bool {
	tx, ty, tw, th := s.TimelineRect()
	return x >= tx && x <= tx+tw && y >= ty && y <= ty+th
}

// InRuler reports whether (x, y) lies on the top half of the timeline, where
// dragging scrubs.
func (s *Session) InRuler(x, y float64) bool {
	return s.InTimeline(x, y) && y < s.timelineY+s.timelineH/2
}

func (s *Session) onPlayhead(x float64) bool {
	return math.Abs(x-s.mapper.XFromTime(s.player.CurrentTime())) <= playheadGrab
}

// EventAtX returns the index of the event marker within MarkerTolerance
// pixels of screen x, or -1. The tolerance is converted to seconds at the
// current zoom so markers are equally easy to hit at any zoom.
func (s *Session) EventAtX(x float64) int {
	pps := s.mapper.PixelsPerSecond()
	if pps <= 0 {
		return -1
	}
	return s.store.FindNear(s.mapper.TimeFromX(x), s.opts.MarkerTolerance/pps)
}

func (s *Session) handleKeys(in Input) {
	if in.Save {
		if err := s.Save(); err != nil {
			log.Printf("session: %v", err)
		}
	}
	if in.Delete {
		s.DeleteSelected()
	}
	if in.TogglePlay {
		s.player.Toggle()
	}
	if in.Rewind {
		s.player.SetCurrentTime(0)
		s.mapper.ScrollTo(0, 0, nil)
	}
	if in.Copy {
		s.CopySelected()
	}
	if in.Paste {
		s.Paste()
	}
}

// handleTimeline applies pointer input aimed at the timeline and reports
// whether the press was consumed there.
func (s *Session) handleTimeline(in Input) bool {
	if s.menu != nil && in.LeftPressed {
		if i := s.menu.ItemAt(in.MouseX, in.MouseY); i >= 0 {
			s.Choose(s.menu.Items[i])
		}
		s.menu = nil
		return true
	}

	if s.scrubbing {
		if !in.LeftDown {
			s.scrubbing = false
		} else {
			s.Seek(math.Max(0, s.mapper.TimeFromX(in.MouseX)))
		}
		return true
	}

	if in.PointerCaptured || !s.InTimeline(in.MouseX, in.MouseY) {
		if in.RightPressed {
			s.menu = nil
		}
		return false
	}

	if in.Wheel != 0 {
		s.mapper.ZoomAt(in.MouseX, in.Wheel*s.opts.ZoomStep)
	}

	if in.RightPressed {
		s.openMenu(in.MouseX, in.MouseY)
		return true
	}

	if !in.LeftPressed {
		return false
	}
	if s.InRuler(in.MouseX, in.MouseY) || s.onPlayhead(in.MouseX) {
		s.scrubbing = true
		s.Seek(math.Max(0, s.mapper.TimeFromX(in.MouseX)))
		return true
	}
	if i := s.EventAtX(in.MouseX); i >= 0 {
		s.store.Select(i)
	} else {
		s.store.Deselect()
	}
	s.drag.Reset()
	return true
}

func (s *Session) openMenu(x, y float64) {
	t := math.Max(0, math.Min(s.player.Duration(), s.mapper.TimeFromX(x)))
	m := &ContextMenu{X: x, Y: y, Time: t, Items: []MenuAction{MenuAddEvent}}
	if i := s.EventAtX(x); i >= 0 {
		m.Target = s.store.At(i)
		m.Items = append(m.Items, MenuDeleteEvent)
	}
	s.menu = m
}

// Choose runs a context menu action and closes the menu.
func (s *Session) Choose(a MenuAction) {
	m := s.menu
	s.menu = nil
	if m == nil {
		return
	}
	switch a {
	case MenuAddEvent:
		s.AddEventAt(m.Time)
	case MenuDeleteEvent:
		if m.Target != nil && s.store.RemoveEvent(m.Target) {
			s.markDirty()
		}
	}
}
