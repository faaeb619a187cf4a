package session

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/milk9111/frameevents/events"
)

// ErrNoEventsFile is returned by Save when the session has nowhere to write.
var ErrNoEventsFile = errors.New("session: no events file")

// open switches the collaborator to clip, rewinds and loads the clip's events.
func (s *Session) open(clip string) error {
	if !s.animator.SwitchAnimation(clip, true) {
		return fmt.Errorf("session: unknown animation %q", clip)
	}
	d := s.animator.CurrentAnimationDuration()

	s.clip = clip
	s.player.SetDuration(d)
	s.player.SetCurrentTime(0)
	s.player.Queue().Drain()
	s.triggers.reset()
	s.mapper.SetDuration(d)
	s.mapper.Reset()
	s.drag.Reset()
	s.menu = nil
	s.scrubbing = false

	s.store.Replace(s.loadClip())
	s.dirty = false
	return nil
}

func (s *Session) loadClip() []*events.FrameEvent {
	if s.opts.EventsPath == "" {
		return nil
	}
	evs, err := events.Load(s.opts.EventsPath).Clip(s.clip)
	if err != nil {
		return nil
	}
	return evs
}

// SwitchClip saves the outgoing clip when it has unsaved edits and opens
// name. A failed save aborts the switch.
func (s *Session) SwitchClip(name string) error {
	if s.dirty {
		if err := s.Save(); err != nil {
			return fmt.Errorf("session: switch to %q: %w", name, err)
		}
	}
	return s.open(name)
}

// Save writes the active clip into the events file, keeping other clips
// stored there. The validate hook runs first; its findings are logged only.
func (s *Session) Save() error {
	if s.opts.EventsPath == "" {
		return ErrNoEventsFile
	}
	for _, ev := range s.store.Events() {
		problems, err := s.hooks.Validate(s.clip, ev)
		if err != nil {
			log.Printf("session: %v", err)
			continue
		}
		for _, p := range problems {
			log.Printf("session: %s/%s: %s", s.clip, ev.Name, p)
		}
	}
	if err := events.SaveClip(s.opts.EventsPath, s.clip, s.store.Snapshot()); err != nil {
		return fmt.Errorf("session: save %s: %w", s.clip, err)
	}
	s.dirty = false
	s.lastSave = time.Now()
	log.Printf("session: saved %s to %s", s.clip, s.opts.EventsPath)
	return nil
}

// Reload replaces the active clip's events with what is on disk, keeping the
// playhead where it is. A missing file or clip reloads as empty. A file that
// cannot be parsed leaves the session untouched and returns an error wrapping
// events.ErrUnreadable.
func (s *Session) Reload() error {
	var evs []*events.FrameEvent
	f, err := events.ReadFile(s.opts.EventsPath)
	switch {
	case err == nil:
		evs, _ = f.Clip(s.clip)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("session: reload %s: %w", s.clip, err)
	}

	var selected string
	if ev := s.store.Selected(); ev != nil {
		selected = ev.Name
	}
	s.store.Replace(evs)
	s.drag.Reset()
	s.dirty = false
	for _, ev := range s.store.Events() {
		if selected != "" && ev.Name == selected {
			s.store.SelectEvent(ev)
			break
		}
	}
	return nil
}

func (s *Session) pollWatcher() {
	if s.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case <-s.watcher.Events:
			changed = true
			continue
		case err := <-s.watcher.Errors:
			log.Printf("session: watch: %v", err)
			continue
		default:
		}
		break
	}
	if !changed || time.Since(s.lastSave) < selfWriteWindow {
		return
	}
	if s.dirty {
		log.Printf("session: %s changed on disk; keeping unsaved edits", s.opts.EventsPath)
		return
	}
	log.Printf("session: %s changed on disk; reloading %s", s.opts.EventsPath, s.clip)
	if err := s.Reload(); err != nil {
		log.Printf("%v; keeping the events in memory", err)
	}
}
