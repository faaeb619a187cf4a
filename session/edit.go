package session

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/milk9111/frameevents/events"
)

// Field names an editable property of the selected event.
type Field int

const (
	FieldName Field = iota
	FieldTime
	FieldFrame
	FieldType

	FieldIntValue
	FieldFloatValue
	FieldStringValue

	FieldAttackType
	FieldDamage
	FieldShapeKind
	FieldShapeX
	FieldShapeY
	FieldShapeWidth
	FieldShapeHeight
	FieldShapeRotation

	FieldEffectName
	FieldEffectX
	FieldEffectY
	FieldEffectScale

	FieldSoundName
	FieldVolume
	FieldPitch
)

var fieldLabels = map[Field]string{
	FieldName:          "Name",
	FieldTime:          "Time",
	FieldFrame:         "Frame",
	FieldType:          "Type",
	FieldIntValue:      "Int",
	FieldFloatValue:    "Float",
	FieldStringValue:   "String",
	FieldAttackType:    "Attack type",
	FieldDamage:        "Damage",
	FieldShapeKind:     "Shape",
	FieldShapeX:        "X",
	FieldShapeY:        "Y",
	FieldShapeWidth:    "Width",
	FieldShapeHeight:   "Height",
	FieldShapeRotation: "Rotation",
	FieldEffectName:    "Effect",
	FieldEffectX:       "X",
	FieldEffectY:       "Y",
	FieldEffectScale:   "Scale",
	FieldSoundName:     "Sound",
	FieldVolume:        "Volume",
	FieldPitch:         "Pitch",
}

func (f Field) String() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

var commonFields = []Field{FieldName, FieldTime, FieldFrame, FieldType}

// FieldsFor lists the fields shown for an event of type t, common ones first.
func FieldsFor(t events.EventType) []Field {
	out := append([]Field(nil), commonFields...)
	switch t {
	case events.TypeAttack:
		out = append(out, FieldAttackType, FieldDamage, FieldShapeKind,
			FieldShapeX, FieldShapeY, FieldShapeWidth, FieldShapeHeight, FieldShapeRotation)
	case events.TypeEffect:
		out = append(out, FieldEffectName, FieldEffectX, FieldEffectY, FieldEffectScale)
	case events.TypeSound:
		out = append(out, FieldSoundName, FieldVolume, FieldPitch)
	default:
		out = append(out, FieldIntValue, FieldFloatValue, FieldStringValue)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FieldValue renders a field of the selected event as text. It returns ""
// when nothing is selected or the field does not apply.
func (s *Session) FieldValue(f Field) string {
	ev := s.store.Selected()
	if ev == nil {
		return ""
	}
	switch f {
	case FieldName:
		return ev.Name
	case FieldTime:
		return strconv.FormatFloat(ev.Time, 'f', 3, 64)
	case FieldFrame:
		return strconv.Itoa(ev.Frame())
	case FieldType:
		return ev.Type().String()
	}
	switch p := ev.Payload.(type) {
	case *events.NormalPayload:
		switch f {
		case FieldIntValue:
			return strconv.Itoa(p.IntValue)
		case FieldFloatValue:
			return formatFloat(p.FloatValue)
		case FieldStringValue:
			return p.StringValue
		}
	case *events.AttackPayload:
		switch f {
		case FieldAttackType:
			return p.AttackType
		case FieldDamage:
			return strconv.Itoa(p.Damage)
		case FieldShapeKind:
			return p.Shape.Kind.String()
		case FieldShapeX:
			return formatFloat(p.Shape.X)
		case FieldShapeY:
			return formatFloat(p.Shape.Y)
		case FieldShapeWidth:
			return formatFloat(p.Shape.Width)
		case FieldShapeHeight:
			return formatFloat(p.Shape.Height)
		case FieldShapeRotation:
			return formatFloat(p.Shape.Rotation)
		}
	case *events.EffectPayload:
		switch f {
		case FieldEffectName:
			return p.Name
		case FieldEffectX:
			return formatFloat(p.X)
		case FieldEffectY:
			return formatFloat(p.Y)
		case FieldEffectScale:
			return formatFloat(p.Scale)
		}
	case *events.SoundPayload:
		switch f {
		case FieldSoundName:
			return p.Name
		case FieldVolume:
			return formatFloat(p.Volume)
		case FieldPitch:
			return formatFloat(p.Pitch)
		}
	}
	return ""
}

// EditField applies text to a field of the selected event. Text that does not
// parse, or a field that does not apply to the event's type, leaves the event
// unchanged and returns false.
func (s *Session) EditField(f Field, text string) bool {
	ev := s.store.Selected()
	if ev == nil {
		return false
	}
	text = strings.TrimSpace(text)

	switch f {
	case FieldName:
		if ev.Name == text {
			return false
		}
		ev.Name = text
		s.markDirty()
		return true
	case FieldTime:
		v, ok := parseFloat(text)
		if !ok {
			return false
		}
		return s.SetTime(v)
	case FieldFrame:
		n, err := strconv.Atoi(text)
		if err != nil {
			return false
		}
		return s.SetTime(float64(n) / events.FrameRate)
	case FieldType:
		t, err := events.ParseEventType(text)
		if err != nil {
			return false
		}
		return s.SetType(t)
	}

	if !s.editPayload(ev, f, text) {
		return false
	}
	s.markDirty()
	return true
}

func (s *Session) editPayload(ev *events.FrameEvent, f Field, text string) bool {
	switch p := ev.Payload.(type) {
	case *events.NormalPayload:
		switch f {
		case FieldIntValue:
			return setInt(&p.IntValue, text)
		case FieldFloatValue:
			return setFloat(&p.FloatValue, text)
		case FieldStringValue:
			p.StringValue = text
			return true
		}
	case *events.AttackPayload:
		minSize := s.opts.Limits.MinShapeSize
		switch f {
		case FieldAttackType:
			p.AttackType = text
			return true
		case FieldDamage:
			return setInt(&p.Damage, text)
		case FieldShapeKind:
			var k events.ShapeKind
			if err := k.UnmarshalText([]byte(text)); err != nil {
				return false
			}
			p.Shape.Kind = k
			return true
		case FieldShapeX:
			return setFloat(&p.Shape.X, text)
		case FieldShapeY:
			return setFloat(&p.Shape.Y, text)
		case FieldShapeWidth:
			if !setFloat(&p.Shape.Width, text) {
				return false
			}
			p.Shape.Width = math.Max(minSize, p.Shape.Width)
			return true
		case FieldShapeHeight:
			if !setFloat(&p.Shape.Height, text) {
				return false
			}
			p.Shape.Height = math.Max(minSize, p.Shape.Height)
			return true
		case FieldShapeRotation:
			return setFloat(&p.Shape.Rotation, text)
		}
	case *events.EffectPayload:
		switch f {
		case FieldEffectName:
			p.Name = text
			return true
		case FieldEffectX:
			return setFloat(&p.X, text)
		case FieldEffectY:
			return setFloat(&p.Y, text)
		case FieldEffectScale:
			return setFloat(&p.Scale, text)
		}
	case *events.SoundPayload:
		switch f {
		case FieldSoundName:
			p.Name = text
			return true
		case FieldVolume:
			return setFloat(&p.Volume, text)
		case FieldPitch:
			return setFloat(&p.Pitch, text)
		}
	}
	return false
}

func parseFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func setFloat(dst *float64, text string) bool {
	v, ok := parseFloat(text)
	if !ok {
		return false
	}
	*dst = v
	return true
}

func setInt(dst *int, text string) bool {
	v, err := strconv.Atoi(text)
	if err != nil {
		return false
	}
	*dst = v
	return true
}

// SetTime moves the selected event, keeping the collection sorted. Times are
// limited to the clip.
func (s *Session) SetTime(t float64) bool {
	i := s.store.SelectedIndex()
	if i < 0 {
		return false
	}
	t = math.Max(0, math.Min(t, s.player.Duration()))
	s.store.SetTime(i, t)
	s.markDirty()
	return true
}

// SetType retypes the selected event with a default payload.
func (s *Session) SetType(t events.EventType) bool {
	ev := s.store.Selected()
	if ev == nil || ev.Type() == t {
		return false
	}
	s.store.SetType(s.store.SelectedIndex(), t)
	s.markDirty()
	return true
}

// AddEventAt inserts a Normal event at t, selects it and returns it.
func (s *Session) AddEventAt(t float64) *events.FrameEvent {
	t = math.Max(0, math.Min(t, s.player.Duration()))
	ev := s.store.Add(s.newEventName(), t, nil)
	s.store.SelectEvent(ev)
	s.markDirty()
	return ev
}

// AddEvent inserts an event at the current playhead time.
func (s *Session) AddEvent() *events.FrameEvent {
	return s.AddEventAt(s.player.CurrentTime())
}

func (s *Session) newEventName() string {
	for {
		s.nextID++
		name := fmt.Sprintf("event_%d", s.nextID)
		if !s.hasName(name) {
			return name
		}
	}
}

func (s *Session) hasName(name string) bool {
	for _, ev := range s.store.Events() {
		if ev.Name == name {
			return true
		}
	}
	return false
}

// DeleteSelected removes the selected event.
func (s *Session) DeleteSelected() bool {
	if !s.store.Remove(s.store.SelectedIndex()) {
		return false
	}
	s.drag.Reset()
	s.markDirty()
	return true
}

// Clipboard is the system clipboard as seen by the session.
type Clipboard interface {
	Read() []byte
	Write(data []byte)
}

// CopySelected puts the selected event on the clipboard.
func (s *Session) CopySelected() bool {
	ev := s.store.Selected()
	if ev == nil || s.opts.Clipboard == nil {
		return false
	}
	data, err := events.MarshalEvent(ev)
	if err != nil {
		log.Printf("session: copy: %v", err)
		return false
	}
	s.opts.Clipboard.Write(data)
	return true
}

// Paste inserts the clipboard event at the current time and selects it.
func (s *Session) Paste() *events.FrameEvent {
	if s.opts.Clipboard == nil {
		return nil
	}
	data := s.opts.Clipboard.Read()
	if len(data) == 0 {
		return nil
	}
	ev, err := events.UnmarshalEvent(data)
	if err != nil {
		log.Printf("session: paste: %v", err)
		return nil
	}
	ev.Time = math.Max(0, math.Min(s.player.CurrentTime(), s.player.Duration()))
	s.store.Insert(ev)
	s.store.SelectEvent(ev)
	s.markDirty()
	return ev
}
