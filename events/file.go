package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

var (
	// ErrUnreadable marks a file that exists but could not be parsed. Saving
	// over such a file is refused.
	ErrUnreadable = errors.New("events: file is not a readable event file")
	// ErrUnknownClip is returned when a clip has no entry in a file.
	ErrUnknownClip = errors.New("events: clip not found")
)

// File maps clip names to their sorted events. It is the unit of persistence.
type File map[string][]*FrameEvent

// Clip returns the events stored for name.
func (f File) Clip(name string) ([]*FrameEvent, error) {
	evs, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClip, name)
	}
	return evs, nil
}

type record struct {
	Name        string        `json:"name"`
	Time        float64       `json:"time"`
	Frame       int           `json:"frame"`
	Type        EventType     `json:"type"`
	IntValue    int           `json:"int_value,omitempty"`
	FloatValue  float64       `json:"float_value,omitempty"`
	StringValue string        `json:"string_value,omitempty"`
	Attack      *attackRecord `json:"attack,omitempty"`
	Effect      *effectRecord `json:"effect,omitempty"`
	Sound       *soundRecord  `json:"sound,omitempty"`
}

type attackRecord struct {
	AttackType string       `json:"attack_type"`
	Damage     int          `json:"damage"`
	Shape      *AttackShape `json:"shape,omitempty"`
}

type effectRecord struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

type soundRecord struct {
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
	Pitch  float64 `json:"pitch"`
}

func toRecord(e *FrameEvent) record {
	r := record{Name: e.Name, Time: e.Time, Frame: e.Frame(), Type: e.Type()}
	switch p := e.Payload.(type) {
	case *NormalPayload:
		r.IntValue = p.IntValue
		r.FloatValue = p.FloatValue
		r.StringValue = p.StringValue
	case *AttackPayload:
		shape := p.Shape
		r.Attack = &attackRecord{AttackType: p.AttackType, Damage: p.Damage, Shape: &shape}
	case *EffectPayload:
		r.Effect = &effectRecord{Name: p.Name, X: p.X, Y: p.Y, Scale: p.Scale}
	case *SoundPayload:
		r.Sound = &soundRecord{Name: p.Name, Volume: p.Volume, Pitch: p.Pitch}
	}
	return r
}

// fromRecord rebuilds an event. A missing sub-object yields the default
// payload for the tagged type; sub-objects that do not match the tag are
// dropped.
func fromRecord(r record) *FrameEvent {
	var payload Payload
	switch r.Type {
	case TypeAttack:
		p := DefaultPayload(TypeAttack).(*AttackPayload)
		if r.Attack != nil {
			p.AttackType = r.Attack.AttackType
			p.Damage = r.Attack.Damage
			if r.Attack.Shape != nil {
				p.Shape = *r.Attack.Shape
			}
		}
		payload = p
	case TypeEffect:
		p := DefaultPayload(TypeEffect).(*EffectPayload)
		if r.Effect != nil {
			*p = EffectPayload{Name: r.Effect.Name, X: r.Effect.X, Y: r.Effect.Y, Scale: r.Effect.Scale}
		}
		payload = p
	case TypeSound:
		p := DefaultPayload(TypeSound).(*SoundPayload)
		if r.Sound != nil {
			*p = SoundPayload{Name: r.Sound.Name, Volume: r.Sound.Volume, Pitch: r.Sound.Pitch}
		}
		payload = p
	default:
		payload = &NormalPayload{IntValue: r.IntValue, FloatValue: r.FloatValue, StringValue: r.StringValue}
	}
	return NewFrameEvent(r.Name, r.Time, payload)
}

// Decode parses the mapping form or the legacy single-clip form. The second
// return value reports whether the legacy form was upgraded.
func Decode(data []byte) (File, bool, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return File{}, false, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if isLegacy(raw) {
		f, err := decodeLegacy(data)
		if err != nil {
			return nil, false, fmt.Errorf("%w: legacy: %v", ErrUnreadable, err)
		}
		return f, true, nil
	}

	f := make(File, len(raw))
	for clip, msg := range raw {
		var recs []record
		if err := json.Unmarshal(msg, &recs); err != nil {
			return nil, false, fmt.Errorf("%w: clip %q: %v", ErrUnreadable, clip, err)
		}
		f[clip] = eventsFromRecords(recs)
	}
	return f, false, nil
}

func eventsFromRecords(recs []record) []*FrameEvent {
	s := NewStore()
	for _, r := range recs {
		s.Insert(fromRecord(r))
	}
	return s.Events()
}

// Encode renders f in the mapping form with two-space indentation.
func Encode(f File) ([]byte, error) {
	out := make(map[string][]record, len(f))
	for clip, evs := range f {
		recs := make([]record, 0, len(evs))
		for _, e := range evs {
			if e == nil {
				continue
			}
			recs = append(recs, toRecord(e))
		}
		out[clip] = recs
	}
	return encodeIndented(out)
}

// ReadFile reads and decodes path. A missing file returns an error wrapping
// fs.ErrNotExist; a malformed one wraps ErrUnreadable.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("events: read %s: %w", path, err)
	}
	f, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("events: decode %s: %w", path, err)
	}
	return f, nil
}

// Load reads path for interactive use: a missing file yields nil silently and
// a malformed file is logged and yields nil.
func Load(path string) File {
	f, err := ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("events: load failed: %v", err)
		}
		return nil
	}
	return f
}

// SaveClip writes evs under clip into path. Every other clip already stored
// there keeps its stored JSON as is; a legacy file is upgraded first. If path
// exists but cannot be parsed nothing is written and the returned error wraps
// ErrUnreadable.
func SaveClip(path, clip string, evs []*FrameEvent) error {
	clips, err := readRawClips(path)
	if err != nil {
		return fmt.Errorf("events: save %s aborted: %w", path, err)
	}
	recs := make([]record, 0, len(evs))
	for _, e := range evs {
		if e != nil {
			recs = append(recs, toRecord(e))
		}
	}
	entry, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", path, err)
	}
	clips[clip] = entry

	data, err := encodeIndented(clips)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", path, err)
	}
	return writeAtomic(path, data)
}

// readRawClips returns the stored clips of path undecoded. A missing or empty
// file yields an empty mapping. Each entry must still parse as a list of
// records so a save never builds on a file it could not load.
func readRawClips(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		return map[string]json.RawMessage{}, nil
	default:
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	if isLegacy(raw) {
		f, err := decodeLegacy(data)
		if err != nil {
			return nil, fmt.Errorf("%w: legacy: %v", ErrUnreadable, err)
		}
		out := make(map[string]json.RawMessage, len(f))
		for name, evs := range f {
			recs := make([]record, 0, len(evs))
			for _, e := range evs {
				recs = append(recs, toRecord(e))
			}
			if out[name], err = json.Marshal(recs); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	for name, msg := range raw {
		var recs []record
		if err := json.Unmarshal(msg, &recs); err != nil {
			return nil, fmt.Errorf("%w: clip %q: %v", ErrUnreadable, name, err)
		}
	}
	return raw, nil
}

func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile replaces path with f.
func WriteFile(path string, f File) error {
	data, err := Encode(f)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", path, err)
	}
	return writeAtomic(path, data)
}

// writeAtomic puts data in a temporary file in the same directory first so a
// failed write never truncates the target.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("events: save %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("events: save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("events: save %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("events: save %s: %w", path, err)
	}
	return nil
}

// MarshalEvent encodes a single event, used for clipboard transfer.
func MarshalEvent(e *FrameEvent) ([]byte, error) {
	if e == nil {
		return nil, errors.New("events: nil event")
	}
	return json.Marshal(toRecord(e))
}

// UnmarshalEvent decodes a single event produced by MarshalEvent.
func UnmarshalEvent(data []byte) (*FrameEvent, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("events: unmarshal event: %w", err)
	}
	return fromRecord(r), nil
}
