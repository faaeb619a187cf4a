// Package sound plays the clips named by Sound events while the editor runs
// an animation, so an author can hear where a sound lands.
package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SampleRate is the rate sounds are decoded to.
const SampleRate = 44100

// ErrNotFound is returned when no file matches a sound name.
var ErrNotFound = errors.New("sound: not found")

var (
	contextOnce sync.Once
	audioCtx    *audio.Context
)

// Context returns the process-wide audio context. ebiten allows one per
// process.
func Context() *audio.Context {
	contextOnce.Do(func() {
		audioCtx = audio.NewContext(SampleRate)
	})
	return audioCtx
}

// Bank resolves sound names against a directory and caches decoded PCM.
// Names may omit the .wav extension.
type Bank struct {
	dir string
	ctx *audio.Context

	mu      sync.Mutex
	cache   map[string][]byte
	missing map[string]bool
	Muted   bool
}

// NewBank creates a bank over dir. A nil ctx decodes but never plays, which
// is what tests use.
func NewBank(dir string, ctx *audio.Context) *Bank {
	return &Bank{
		dir:     dir,
		ctx:     ctx,
		cache:   map[string][]byte{},
		missing: map[string]bool{},
	}
}

func (b *Bank) Dir() string { return b.dir }

// Resolve returns the file a sound name refers to.
func (b *Bank) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".wav")
	}
	for _, c := range candidates {
		p := c
		if !filepath.IsAbs(p) {
			p = filepath.Join(b.dir, filepath.FromSlash(c))
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, name, b.dir)
}

// Load decodes a sound and caches the PCM bytes.
func (b *Bank) Load(name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pcm, ok := b.cache[name]; ok {
		return pcm, nil
	}
	path, err := b.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sound: read %s: %w", path, err)
	}
	pcm, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	b.cache[name] = pcm
	return pcm, nil
}

func decode(path string, data []byte) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		// anything else is taken as PCM already in the context's format
		return data, nil
	}
	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sound: decode wav %s: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("sound: decode wav %s: %w", path, err)
	}
	return pcm, nil
}

// Play starts name at volume (0..1). Missing sounds are logged once and then
// ignored so a looping clip does not flood the log.
func (b *Bank) Play(name string, volume float64) {
	if b == nil || b.Muted {
		return
	}
	pcm, err := b.Load(name)
	if err != nil {
		b.mu.Lock()
		seen := b.missing[name]
		b.missing[name] = true
		b.mu.Unlock()
		if !seen {
			log.Printf("%v", err)
		}
		return
	}
	if b.ctx == nil {
		return
	}
	player := b.ctx.NewPlayerFromBytes(pcm)
	player.SetVolume(clampVolume(volume))
	player.Play()
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
