package sound

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// wavFile builds a 16-bit stereo PCM wav at SampleRate holding frames
// silent frames.
func wavFile(frames int) []byte {
	data := make([]byte, frames*4)
	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("RIFF")
	binary.Write(&b, le, uint32(36+len(data)))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, le, uint32(16))
	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint16(2))
	binary.Write(&b, le, uint32(SampleRate))
	binary.Write(&b, le, uint32(SampleRate*4))
	binary.Write(&b, le, uint16(4))
	binary.Write(&b, le, uint16(16))
	b.WriteString("data")
	binary.Write(&b, le, uint32(len(data)))
	b.Write(data)
	return b.Bytes()
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "step.wav"), wavFile(8), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sfx"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sfx", "hit.wav"), wavFile(8), 0644); err != nil {
		t.Fatal(err)
	}
	b := NewBank(dir, nil)

	cases := []struct {
		name string
		want string
		err  bool
	}{
		{"step", filepath.Join(dir, "step.wav"), false},
		{"step.wav", filepath.Join(dir, "step.wav"), false},
		{"sfx/hit", filepath.Join(dir, "sfx", "hit.wav"), false},
		{"  step  ", filepath.Join(dir, "step.wav"), false},
		{"sfx", "", true},
		{"missing", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := b.Resolve(c.name)
			if c.err {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Resolve(%q) err = %v, want ErrNotFound", c.name, err)
				}
				return
			}
			if err != nil || got != c.want {
				t.Fatalf("Resolve(%q) = %q, %v, want %q", c.name, got, err, c.want)
			}
		})
	}
}

func TestLoadDecodesAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "step.wav")
	if err := os.WriteFile(path, wavFile(100), 0644); err != nil {
		t.Fatal(err)
	}
	b := NewBank(dir, nil)
	pcm, err := b.Load("step")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pcm) != 400 {
		t.Fatalf("pcm length = %d, want 400", len(pcm))
	}

	// later loads come from the cache even if the file goes away
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Load("step"); err != nil {
		t.Fatalf("cached Load: %v", err)
	}
}

func TestLoadRejectsBrokenWav(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("RIFFjunk"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewBank(dir, nil).Load("bad"); err == nil {
		t.Fatalf("Load of a broken wav should fail")
	}
}

func TestPlayWithoutContextIsSilent(t *testing.T) {
	b := NewBank(t.TempDir(), nil)
	b.Play("missing", 1)
	b.Play("missing", 1)
	if !b.missing["missing"] {
		t.Fatalf("missing sound not remembered")
	}
	var nilBank *Bank
	nilBank.Play("x", 1)
}

func TestClampVolume(t *testing.T) {
	for _, c := range []struct{ in, want float64 }{{-1, 0}, {0.5, 0.5}, {3, 1}} {
		if got := clampVolume(c.in); got != c.want {
			t.Errorf("clampVolume(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
