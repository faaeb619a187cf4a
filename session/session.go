package session

import (
	"fmt"
	"log"
	"time"

	"github.com/milk9111/frameevents/anim"
	"github.com/milk9111/frameevents/config"
	"github.com/milk9111/frameevents/events"
	"github.com/milk9111/frameevents/hooks"
	"github.com/milk9111/frameevents/playback"
	"github.com/milk9111/frameevents/shapeedit"
	"github.com/milk9111/frameevents/timeline"
)

// Options tune a Session. Zero values fall back to the package defaults.
type Options struct {
	EventsPath      string
	MinSpeed        float64
	MaxSpeed        float64
	MinZoom         float64
	MaxZoom         float64
	ZoomStep        float64
	MarkerTolerance float64
	FollowDuration  float64
	Policy          playback.TriggerPolicy
	Limits          shapeedit.Limits
	Hooks           *hooks.Runner
	Clipboard       Clipboard
	// OnTrigger is called for every drained trigger after the hooks ran.
	OnTrigger func(clip string, ev *events.FrameEvent)
	// Watch reloads the active clip when the events file changes on disk.
	Watch bool
}

// OptionsFromConfig maps the editor configuration onto session options.
func OptionsFromConfig(cfg *config.Config, eventsPath string) Options {
	return Options{
		EventsPath:      eventsPath,
		MinSpeed:        cfg.Playback.MinSpeed,
		MaxSpeed:        cfg.Playback.MaxSpeed,
		MinZoom:         cfg.Timeline.MinZoom,
		MaxZoom:         cfg.Timeline.MaxZoom,
		ZoomStep:        cfg.Timeline.ZoomStep,
		MarkerTolerance: cfg.Timeline.MarkerTolerance,
		FollowDuration:  cfg.Timeline.FollowDuration,
		Policy:          cfg.TriggerPolicy(),
		Limits:          cfg.ShapeLimits(),
		Watch:           true,
	}
}

func (o *Options) fill() {
	if o.MinSpeed <= 0 {
		o.MinSpeed = playback.MinSpeed
	}
	if o.MaxSpeed < o.MinSpeed {
		o.MaxSpeed = playback.MaxSpeed
	}
	if o.MinZoom <= 0 {
		o.MinZoom = timeline.DefaultMinZoom
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = timeline.DefaultMaxZoom
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = 0.1
	}
	if o.MarkerTolerance <= 0 {
		o.MarkerTolerance = DefaultMarkerTolerance
	}
	if o.Limits.DragHandleSize <= 0 || o.Limits.MinShapeSize <= 0 {
		o.Limits = shapeedit.DefaultLimits()
	}
}

// DefaultMarkerTolerance is the marker hit distance in screen pixels.
const DefaultMarkerTolerance = 6.0

// selfWriteWindow hides watcher notifications caused by our own saves.
const selfWriteWindow = 500 * time.Millisecond

// Session is one character being edited: the animation collaborator, the
// active clip's events and the three interactive components that act on them.
// All state is mutated from Update on the caller's goroutine.
type Session struct {
	opts Options

	animator anim.Animator
	mapper   *timeline.Mapper
	player   *playback.Controller
	store    *events.Store
	drag     *shapeedit.DragController
	hooks    *hooks.Runner
	watcher  *events.Watcher

	clip  string
	dirty bool

	posX, posY float64
	scale      float64

	timelineY, timelineH float64
	scrubbing            bool
	menu                 *ContextMenu

	clock    float64
	triggers triggerRing
	lastSave time.Time
	nextID   int
}

// New builds a session over animator and opens clip. An empty clip opens the
// animator's first animation.
func New(animator anim.Animator, clip string, opts Options) (*Session, error) {
	opts.fill()
	if clip == "" {
		names := animator.ListAnimationNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("session: animator has no animations")
		}
		clip = names[0]
	}
	s := &Session{
		opts:     opts,
		animator: animator,
		mapper:   timeline.NewMapper(0, 0, 0),
		store:    events.NewStore(),
		drag:     shapeedit.NewDragController(opts.Limits),
		hooks:    opts.Hooks,
		scale:    1,
	}
	s.mapper.MinZoom = opts.MinZoom
	s.mapper.MaxZoom = opts.MaxZoom
	s.player = playback.NewController(0, animator)
	s.player.SetPolicy(opts.Policy)

	if err := s.open(clip); err != nil {
		return nil, err
	}
	if opts.Watch && opts.EventsPath != "" {
		w, err := events.NewWatcher(opts.EventsPath)
		if err != nil {
			log.Printf("session: watch %s: %v", opts.EventsPath, err)
		} else {
			s.watcher = w
		}
	}
	return s, nil
}

// Close stops the file watcher.
func (s *Session) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func (s *Session) Clip() string { return s.clip }
func (s *Session) Dirty() bool { return s.dirty }
func (s *Session) Store() *events.Store { return s.store }
func (s *Session) Mapper() *timeline.Mapper { return s.mapper }
func (s *Session) Player() *playback.Controller { return s.player }
func (s *Session) Drag() *shapeedit.DragController { return s.drag }
func (s *Session) Animator() anim.Animator { return s.animator }
func (s *Session) EventsPath() string { return s.opts.EventsPath }
func (s *Session) Menu() *ContextMenu { return s.menu }
func (s *Session) Scrubbing() bool { return s.scrubbing }
func (s *Session) Clock() float64 { return s.clock }
func (s *Session) Options() Options { return s.opts }

// Clips lists the animations the collaborator can play.
func (s *Session) Clips() []string { return s.animator.ListAnimationNames() }

// Selected is the selected event, if any.
func (s *Session) Selected() *events.FrameEvent { return s.store.Selected() }

// SelectedShape returns the hitbox of the selected attack event.
func (s *Session) SelectedShape() *events.AttackShape {
	ev := s.store.Selected()
	if ev == nil {
		return nil
	}
	if a := ev.Attack(); a != nil {
		return &a.Shape
	}
	return nil
}

// SetAnchor moves the character on screen.
func (s *Session) SetAnchor(x, y float64) {
	s.posX, s.posY = x, y
	s.animator.SetPosition(x, y)
}

func (s *Session) SetScale(v float64) {
	if v <= 0 {
		return
	}
	s.scale = v
	s.animator.SetScale(v)
}

func (s *Session) Anchor() (float64, float64) { return s.posX, s.posY }
func (s *Session) Scale() float64 { return s.scale }

// ShapeTransform maps hitbox local space to the screen.
func (s *Session) ShapeTransform() shapeedit.Transform {
	return shapeedit.Transform{PosX: s.posX, PosY: s.posY, Scale: s.scale}
}

// SetTimelineRect places the timeline strip on screen.
func (s *Session) SetTimelineRect(x, y, w, h float64) {
	s.mapper.SetViewport(x, w)
	s.timelineY, s.timelineH = y, h
}

func (s *Session) TimelineRect() (x, y, w, h float64) {
	return s.mapper.ViewportX, s.timelineY, s.mapper.ViewportWidth, s.timelineH
}

// SetSpeed sets the playback rate clamped to the configured range.
func (s *Session) SetSpeed(v float64) {
	s.player.SetSpeed(playback.ClampSpeed(v, s.opts.MinSpeed, s.opts.MaxSpeed))
}

// Seek moves the playhead, clamped to the clip.
func (s *Session) Seek(t float64) {
	d := s.player.Duration()
	if t > d {
		t = d
	}
	s.player.SetCurrentTime(t)
}

func (s *Session) markDirty() { s.dirty = true }

// Update runs one frame. Input is applied first, then the timeline view, then
// playback and triggers, then the hitbox drag.
func (s *Session) Update(dt float64, in Input) {
	s.clock += dt
	s.pollWatcher()

	s.handleKeys(in)
	consumed := s.handleTimeline(in)
	s.mapper.Update(dt)

	s.player.Update(dt, s.store.Events())
	s.drainTriggers()
	if s.player.Playing() && !s.scrubbing && s.opts.FollowDuration > 0 {
		s.mapper.Follow(s.player.CurrentTime(), float32(s.opts.FollowDuration))
	}

	s.updateDrag(in, consumed)
}

func (s *Session) drainTriggers() {
	for _, tr := range s.player.Queue().Drain() {
		s.triggers.push(TriggerRecord{
			Event:   tr.Event,
			Name:    tr.Event.Name,
			Time:    tr.Event.Time,
			FiredAt: s.clock,
			Wrapped: tr.Wrapped,
		})
		if err := s.hooks.OnTrigger(s.clip, tr.Event, tr.Time); err != nil {
			log.Printf("session: %v", err)
		}
		if s.opts.OnTrigger != nil {
			s.opts.OnTrigger(s.clip, tr.Event)
		}
	}
}

func (s *Session) updateDrag(in Input, consumed bool) {
	shape := s.SelectedShape()
	if shape == nil {
		s.drag.Reset()
		return
	}
	p := shapeedit.Pointer{X: in.MouseX, Y: in.MouseY, Down: in.LeftDown, Pressed: in.LeftPressed}
	if consumed || in.PointerCaptured {
		p.Pressed = false
	}
	if s.drag.Update(shape, s.ShapeTransform(), p) {
		s.markDirty()
	}
}
