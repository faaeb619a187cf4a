package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Problem is one finding of Verify.
type Problem struct {
	Clip  string
	Index int
	Event string
	Msg   string
}

func (p Problem) String() string {
	if p.Index < 0 {
		return fmt.Sprintf("%s: %s", p.Clip, p.Msg)
	}
	return fmt.Sprintf("%s[%d] %q: %s", p.Clip, p.Index, p.Event, p.Msg)
}

// Report is the outcome of verifying one file.
type Report struct {
	Legacy   bool
	Clips    int
	Events   int
	Problems []Problem
}

// Verify inspects the stored form of an event file without normalising it:
// events must be stored in time order, times must be finite and not
// negative, the stored frame must match the time and every payload
// sub-object must agree with the type tag. Data that cannot be decoded at
// all returns an error wrapping ErrUnreadable.
func Verify(data []byte) (*Report, error) {
	rep := &Report{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rep, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	clips := map[string][]record{}
	if isLegacy(raw) {
		rep.Legacy = true
		var lf legacyFile
		if err := json.Unmarshal(data, &lf); err != nil {
			return nil, fmt.Errorf("%w: legacy: %v", ErrUnreadable, err)
		}
		recs := make([]record, 0, len(lf.Events))
		for _, le := range lf.Events {
			r := record{Name: le.Name, Time: le.Time, Frame: le.Frame, Type: TypeNormal}
			// legacy attacks without a sub-object load with the default payload
			if strings.EqualFold(strings.TrimSpace(le.Type), "attack") || le.Attack != nil {
				r.Type = TypeAttack
				r.Attack = le.Attack
				if r.Attack == nil {
					r.Attack = &attackRecord{}
				}
			}
			recs = append(recs, r)
		}
		clips[lf.AnimationName] = recs
	} else {
		for clip, msg := range raw {
			var recs []record
			if err := json.Unmarshal(msg, &recs); err != nil {
				return nil, fmt.Errorf("%w: clip %q: %v", ErrUnreadable, clip, err)
			}
			clips[clip] = recs
		}
	}

	names := make([]string, 0, len(clips))
	for name := range clips {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, clip := range names {
		recs := clips[clip]
		rep.Clips++
		rep.Events += len(recs)
		rep.Problems = append(rep.Problems, verifyClip(clip, recs)...)
	}
	return rep, nil
}

func verifyClip(clip string, recs []record) []Problem {
	var out []Problem
	add := func(i int, format string, args ...any) {
		out = append(out, Problem{Clip: clip, Index: i, Event: recs[i].Name, Msg: fmt.Sprintf(format, args...)})
	}
	for i, r := range recs {
		if math.IsNaN(r.Time) || math.IsInf(r.Time, 0) || r.Time < 0 {
			add(i, "invalid time %v", r.Time)
			continue
		}
		if i > 0 && r.Time < recs[i-1].Time {
			add(i, "stored out of order (%.3f after %.3f)", r.Time, recs[i-1].Time)
		}
		if want := FrameAt(r.Time); r.Frame != want {
			add(i, "frame %d does not match time %.3f (frame %d)", r.Frame, r.Time, want)
		}
		if r.Attack != nil && r.Type != TypeAttack {
			add(i, "attack payload on a %s event", r.Type)
		}
		if r.Effect != nil && r.Type != TypeEffect {
			add(i, "effect payload on a %s event", r.Type)
		}
		if r.Sound != nil && r.Type != TypeSound {
			add(i, "sound payload on a %s event", r.Type)
		}
		switch r.Type {
		case TypeAttack:
			if r.Attack == nil {
				add(i, "Attack event has no attack payload")
			} else if s := r.Attack.Shape; s != nil && (s.Width <= 0 || (s.Kind == ShapeRectangle && s.Height <= 0)) {
				add(i, "attack shape has non-positive size %vx%v", s.Width, s.Height)
			}
		case TypeEffect:
			if r.Effect == nil {
				add(i, "Effect event has no effect payload")
			}
		case TypeSound:
			if r.Sound == nil {
				add(i, "Sound event has no sound payload")
			}
		}
	}
	return out
}
