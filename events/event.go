package events

import (
	"fmt"
	"math"
	"strings"
)

// FrameRate is the assumed clip frame rate used to derive display frame numbers.
const FrameRate = 30

// EventType tags the payload variant carried by a FrameEvent.
type EventType int

const (
	TypeNormal EventType = iota
	TypeAttack
	TypeEffect
	TypeSound
)

var eventTypeNames = []string{"Normal", "Attack", "Effect", "Sound"}

// EventTypes lists every type in display order.
func EventTypes() []EventType {
	return []EventType{TypeNormal, TypeAttack, TypeEffect, TypeSound}
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return "Unknown"
	}
	return eventTypeNames[t]
}

// ParseEventType accepts the canonical names case-insensitively.
func ParseEventType(s string) (EventType, error) {
	s = strings.TrimSpace(s)
	for i, name := range eventTypeNames {
		if strings.EqualFold(name, s) {
			return EventType(i), nil
		}
	}
	return TypeNormal, fmt.Errorf("events: unknown event type %q", s)
}

func (t EventType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return nil, fmt.Errorf("events: invalid event type %d", int(t))
	}
	return []byte(eventTypeNames[t]), nil
}

func (t *EventType) UnmarshalText(b []byte) error {
	v, err := ParseEventType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Payload is the typed data attached to a FrameEvent. The concrete type decides
// the event's EventType, so tag and payload cannot disagree.
type Payload interface {
	Type() EventType
	clone() Payload
}

type NormalPayload struct {
	IntValue    int
	FloatValue  float64
	StringValue string
}

type AttackPayload struct {
	AttackType string
	Damage     int
	Shape      AttackShape
}

type EffectPayload struct {
	Name  string
	X     float64
	Y     float64
	Scale float64
}

type SoundPayload struct {
	Name   string
	Volume float64
	Pitch  float64
}

func (*NormalPayload) Type() EventType { return TypeNormal }
func (*AttackPayload) Type() EventType { return TypeAttack }
func (*EffectPayload) Type() EventType { return TypeEffect }
func (*SoundPayload) Type() EventType { return TypeSound }

func (p *NormalPayload) clone() Payload {
	c := *p
	return &c
}

func (p *AttackPayload) clone() Payload {
	c := *p
	return &c
}

func (p *EffectPayload) clone() Payload {
	c := *p
	return &c
}

func (p *SoundPayload) clone() Payload {
	c := *p
	return &c
}

// DefaultPayload returns the payload a freshly created or retyped event gets.
func DefaultPayload(t EventType) Payload {
	switch t {
	case TypeAttack:
		return &AttackPayload{
			AttackType: "normal",
			Damage:     10,
			Shape:      DefaultAttackShape(),
		}
	case TypeEffect:
		return &EffectPayload{Scale: 1}
	case TypeSound:
		return &SoundPayload{Volume: 1, Pitch: 1}
	default:
		return &NormalPayload{}
	}
}

// FrameEvent is one authored trigger point on a clip.
type FrameEvent struct {
	Name    string
	Time    float64
	Payload Payload
}

// NewFrameEvent builds an event; a nil payload becomes a Normal payload and a
// negative time is clamped to zero.
func NewFrameEvent(name string, t float64, payload Payload) *FrameEvent {
	if payload == nil {
		payload = DefaultPayload(TypeNormal)
	}
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	return &FrameEvent{Name: name, Time: t, Payload: payload}
}

// Type reports the tag derived from the payload.
func (e *FrameEvent) Type() EventType {
	if e == nil || e.Payload == nil {
		return TypeNormal
	}
	return e.Payload.Type()
}

// Frame is the display-only frame number at FrameRate.
func (e *FrameEvent) Frame() int {
	if e == nil {
		return 0
	}
	return FrameAt(e.Time)
}

// FrameAt converts seconds into a display frame number.
func FrameAt(t float64) int {
	return int(math.Round(t * FrameRate))
}

// Clone returns a deep copy.
func (e *FrameEvent) Clone() *FrameEvent {
	if e == nil {
		return nil
	}
	c := *e
	if e.Payload != nil {
		c.Payload = e.Payload.clone()
	}
	return &c
}

// Normal returns the Normal payload or nil when the event is another type.
func (e *FrameEvent) Normal() *NormalPayload {
	if e == nil {
		return nil
	}
	p, _ := e.Payload.(*NormalPayload)
	return p
}

func (e *FrameEvent) Attack() *AttackPayload {
	if e == nil {
		return nil
	}
	p, _ := e.Payload.(*AttackPayload)
	return p
}

func (e *FrameEvent) Effect() *EffectPayload {
	if e == nil {
		return nil
	}
	p, _ := e.Payload.(*EffectPayload)
	return p
}

func (e *FrameEvent) Sound() *SoundPayload {
	if e == nil {
		return nil
	}
	p, _ := e.Payload.(*SoundPayload)
	return p
}
