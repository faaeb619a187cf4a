package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleClip() []*FrameEvent {
	s := NewStore()
	s.Add("footstep", 0.25, &SoundPayload{Name: "step", Volume: 0.8, Pitch: 1.1})
	s.Add("slash", 0.5, &AttackPayload{
		AttackType: "slash",
		Damage:     12,
		Shape:      AttackShape{Kind: ShapeCircle, X: 10, Y: -20, Width: 15},
	})
	s.Add("spark", 0.5, &EffectPayload{Name: "spark", X: 1, Y: 2, Scale: 1.5})
	s.Add("marker", 1.0, &NormalPayload{IntValue: 3, FloatValue: 0.5, StringValue: "tag"})
	return s.Events()
}

func TestSaveClipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero_events.json")
	if err := SaveClip(path, "attack", sampleClip()); err != nil {
		t.Fatalf("SaveClip: %v", err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	evs, err := f.Clip("attack")
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if len(evs) != 4 {
		t.Fatalf("expected 4 events, got %d", len(evs))
	}
	slash := evs[1]
	if slash.Type() != TypeAttack || slash.Attack().Shape.Kind != ShapeCircle || slash.Attack().Shape.Width != 15 {
		t.Fatalf("attack payload lost: %+v", slash.Payload)
	}
	if evs[2].Effect() == nil || evs[2].Effect().Scale != 1.5 {
		t.Fatalf("effect payload lost: %+v", evs[2].Payload)
	}
	if evs[0].Sound() == nil || evs[0].Sound().Pitch != 1.1 {
		t.Fatalf("sound payload lost: %+v", evs[0].Payload)
	}
	if n := evs[3].Normal(); n == nil || n.StringValue != "tag" || n.IntValue != 3 {
		t.Fatalf("normal payload lost: %+v", evs[3].Payload)
	}
}

func TestEncodeOmitsForeignSubObjects(t *testing.T) {
	data, err := Encode(File{"idle": sampleClip()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, rec := range raw["idle"] {
		present := 0
		for _, k := range []string{"attack", "effect", "sound"} {
			if _, ok := rec[k]; ok {
				present++
			}
		}
		switch rec["type"] {
		case "Normal":
			if present != 0 {
				t.Fatalf("normal record carries sub-object: %v", rec)
			}
		default:
			if present != 1 {
				t.Fatalf("%v record should carry exactly one sub-object: %v", rec["type"], rec)
			}
		}
		if _, ok := rec["frame"]; !ok {
			t.Fatalf("frame missing: %v", rec)
		}
	}
}

// compactClip returns clip's stored JSON without insignificant whitespace.
func compactClip(t *testing.T, path, clip string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
	msg, ok := raw[clip]
	if !ok {
		t.Fatalf("clip %s missing from %s", clip, data)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, msg); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestSaveClipMergesOtherClips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	b := []*FrameEvent{NewFrameEvent("b1", 0.3, nil)}
	if err := SaveClip(path, "B", b); err != nil {
		t.Fatalf("save B: %v", err)
	}
	before := compactClip(t, path, "B")

	if err := SaveClip(path, "A", sampleClip()); err != nil {
		t.Fatalf("save A: %v", err)
	}
	if err := SaveClip(path, "A", sampleClip()[:1]); err != nil {
		t.Fatalf("resave A: %v", err)
	}

	after, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected clips A and B, got %d", len(after))
	}
	if len(after["A"]) != 1 {
		t.Fatalf("A should be replaced, got %d events", len(after["A"]))
	}
	if got := compactClip(t, path, "B"); got != before {
		t.Fatalf("B changed:\n got %s\nwant %s", got, before)
	}
}

func TestSaveClipKeepsOtherClipsVerbatim(t *testing.T) {
	// stored as another tool wrote it: no shape, an extra key, a stale frame
	// and out-of-order times
	b := `[{"name":"hit","time":0.5,"frame":2,"type":"Attack","attack":{"attack_type":"slash","damage":5},"note":"keep"},` +
		`{"name":"early","time":0.1,"frame":3,"type":"Normal"}]`
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(`{"B":`+b+`}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SaveClip(path, "A", sampleClip()); err != nil {
		t.Fatalf("SaveClip: %v", err)
	}
	if got := compactClip(t, path, "B"); got != b {
		t.Fatalf("B rewritten:\n got %s\nwant %s", got, b)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f["A"]) != 4 {
		t.Fatalf("A has %d events, want 4", len(f["A"]))
	}
}

func TestSaveClipUpgradesLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	legacy := `{"animation_name":"run","events":[{"name":"step","time":0.2,"frame":6}]}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SaveClip(path, "attack", sampleClip()); err != nil {
		t.Fatalf("SaveClip: %v", err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	run, err := f.Clip("run")
	if err != nil || len(run) != 1 || run[0].Name != "step" {
		t.Fatalf("run = %v, %v", run, err)
	}
	if len(f["attack"]) != 4 {
		t.Fatalf("attack has %d events", len(f["attack"]))
	}
}

func TestSaveClipRefusesUnreadableFile(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"garbage", "this is not json {"},
		{"wrong_shape", `{"idle": {"name": "x"}}`},
		{"array_root", `[1, 2, 3]`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "events.json")
			if err := os.WriteFile(path, []byte(c.content), 0644); err != nil {
				t.Fatal(err)
			}
			err := SaveClip(path, "A", sampleClip())
			if !errors.Is(err, ErrUnreadable) {
				t.Fatalf("expected ErrUnreadable, got %v", err)
			}
			got, _ := os.ReadFile(path)
			if !bytes.Equal(got, []byte(c.content)) {
				t.Fatalf("file modified: %q", got)
			}
			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Fatalf("temporary files left behind: %d entries", len(entries))
			}
		})
	}
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	if f := Load(filepath.Join(dir, "missing.json")); f != nil {
		t.Fatalf("missing file should load as nil")
	}
	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if f := Load(bad); f != nil {
		t.Fatalf("corrupt file should load as nil")
	}
}

func TestDecodeLegacyUpgrades(t *testing.T) {
	legacy := `{
  "animation_name": "run",
  "events": [
    {"name": "late", "time": 0.9, "frame": 27, "int_value": 2, "float_value": 1.5, "string_value": "x"},
    {"name": "early", "time": 0.1, "frame": 3, "type": "attack",
     "attack": {"attack_type": "kick", "damage": 7, "shape": {"kind": "Rectangle", "x": 1, "y": 2, "width": 30, "height": 10, "rotation": 45}}}
  ]
}`
	f, upgraded, err := Decode([]byte(legacy))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !upgraded {
		t.Fatalf("expected legacy upgrade")
	}
	evs, err := f.Clip("run")
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if len(evs) != 2 || evs[0].Name != "early" {
		t.Fatalf("expected sorted upgraded events, got %v", names(evs))
	}
	if a := evs[0].Attack(); a == nil || a.Damage != 7 || a.Shape.Rotation != 45 {
		t.Fatalf("legacy attack not upgraded: %+v", evs[0].Payload)
	}
	if n := evs[1].Normal(); n == nil || n.IntValue != 2 || n.StringValue != "x" {
		t.Fatalf("legacy generic values lost: %+v", evs[1].Payload)
	}
}

func TestDecodeClipNamedEventsIsNotLegacy(t *testing.T) {
	data := `{"events": [{"name": "a", "time": 0.1, "type": "Sound", "sound": {"name": "s", "volume": 1, "pitch": 1}}]}`
	f, upgraded, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if upgraded {
		t.Fatalf("mapping form misdetected as legacy")
	}
	if len(f["events"]) != 1 || f["events"][0].Sound() == nil {
		t.Fatalf("unexpected decode: %+v", f)
	}
}

func TestDecodeMissingSubObjectUsesDefaults(t *testing.T) {
	f, _, err := Decode([]byte(`{"idle": [{"name": "hit", "time": 0.2, "type": "Attack"}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	a := f["idle"][0].Attack()
	if a == nil || a.Shape.Width != DefaultAttackShape().Width {
		t.Fatalf("expected default attack payload, got %+v", f["idle"][0].Payload)
	}
}

func TestSaveClipUpgradesLegacyFileInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	legacy := `{"animation_name": "idle", "events": [{"name": "blink", "time": 0.4}]}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SaveClip(path, "walk", sampleClip()); err != nil {
		t.Fatalf("SaveClip: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "animation_name") {
		t.Fatalf("file still in legacy form")
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(f["idle"]) != 1 || f["idle"][0].Name != "blink" {
		t.Fatalf("legacy clip lost during merge: %+v", f)
	}
}

func TestMarshalEventRoundTrip(t *testing.T) {
	src := sampleClip()[1]
	data, err := MarshalEvent(src)
	if err != nil {
		t.Fatalf("MarshalEvent: %v", err)
	}
	got, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatalf("UnmarshalEvent: %v", err)
	}
	if got.Name != src.Name || got.Attack() == nil || got.Attack().Shape != src.Attack().Shape {
		t.Fatalf("clipboard event mismatch: %+v", got)
	}
	if _, err := UnmarshalEvent([]byte("nope")); err == nil {
		t.Fatalf("expected error for bad clipboard text")
	}
}
