package anim

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed characters/*.yaml
var charactersFS embed.FS

// DefaultCharacter is the embedded character used when no spec is given.
const DefaultCharacter = "characters/knight.yaml"

// CharacterSpec describes a sprite sheet character and its clips.
type CharacterSpec struct {
	Name     string              `yaml:"name"`
	Sheet    string              `yaml:"sheet"`
	Events   string              `yaml:"events"`
	Position PositionSpec        `yaml:"position"`
	Scale    float64             `yaml:"scale"`
	Default  string              `yaml:"default"`
	Defs     map[string]ClipSpec `yaml:"defs"`

	// Dir is the directory the character spec was read from; relative Sheet and Events
	// paths resolve against it. Empty for embedded specs.
	Dir string `yaml:"-"`
}

type PositionSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ClipSpec is one animation laid out left to right on the sheet, continuing
// onto the next row when it runs past the last column.
type ClipSpec struct {
	Row        int     `yaml:"row"`
	ColStart   int     `yaml:"col_start"`
	FrameCount int     `yaml:"frame_count"`
	FrameW     int     `yaml:"frame_w"`
	FrameH     int     `yaml:"frame_h"`
	FPS        float64 `yaml:"fps"`
	Loop       bool    `yaml:"loop"`
}

// Duration is the clip length in seconds.
func (c ClipSpec) Duration() float64 {
	if c.FPS <= 0 || c.FrameCount <= 0 {
		return 0
	}
	return float64(c.FrameCount) / c.FPS
}

// FrameIndex is the frame shown at time t. Past the end a looping clip wraps
// and a one-shot clip holds its last frame.
func (c ClipSpec) FrameIndex(t float64, loop bool) int {
	if c.FrameCount <= 0 || c.FPS <= 0 || t <= 0 {
		return 0
	}
	n := int(t * c.FPS)
	if n < c.FrameCount {
		return n
	}
	if loop {
		return n % c.FrameCount
	}
	return c.FrameCount - 1
}

// Names returns the clip names sorted.
func (s *CharacterSpec) Names() []string {
	names := make([]string, 0, len(s.Defs))
	for name := range s.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve joins a spec-relative path with the spec directory.
func (s *CharacterSpec) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.Dir == "" {
		return path
	}
	return filepath.Join(s.Dir, path)
}

// EventsPath is where the character's frame events are stored. It defaults to
// <name>.events.json next to the character spec.
func (s *CharacterSpec) EventsPath() string {
	if s.Events != "" {
		return s.Resolve(s.Events)
	}
	name := s.Name
	if name == "" {
		name = "character"
	}
	return s.Resolve(name + ".events.json")
}

// ParseCharacter decodes a YAML character spec and fills defaults.
func ParseCharacter(data []byte) (*CharacterSpec, error) {
	var spec CharacterSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("anim: unmarshal character: %w", err)
	}
	if len(spec.Defs) == 0 {
		return nil, errors.New("anim: character has no animation defs")
	}
	if spec.Scale <= 0 {
		spec.Scale = 1
	}
	if _, ok := spec.Defs[spec.Default]; !ok {
		spec.Default = spec.Names()[0]
	}
	for name, def := range spec.Defs {
		if def.FrameCount <= 0 || def.FPS <= 0 {
			return nil, fmt.Errorf("anim: clip %s: frame_count and fps must be positive", name)
		}
	}
	return &spec, nil
}

// LoadCharacter reads a spec from disk, or the embedded default when path is
// empty.
func LoadCharacter(path string) (*CharacterSpec, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = fs.ReadFile(charactersFS, DefaultCharacter)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("anim: load %s: %w", path, err)
	}
	spec, err := ParseCharacter(data)
	if err != nil {
		return nil, fmt.Errorf("anim: load %s: %w", path, err)
	}
	if path != "" {
		spec.Dir = filepath.Dir(path)
	}
	return spec, nil
}
