package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/frameevents/events"
	"github.com/milk9111/frameevents/playback"
	"github.com/milk9111/frameevents/shapeedit"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Window     WindowConfig   `yaml:"window"`
	FrameRate  int            `yaml:"frame_rate"`
	Timeline   TimelineConfig `yaml:"timeline"`
	Playback   PlaybackConfig `yaml:"playback"`
	Shape      ShapeConfig    `yaml:"shape"`
	Character  string         `yaml:"character"`
	EventsDir  string         `yaml:"events_dir"`
	HookScript string         `yaml:"hook_script"`
	SoundsDir  string         `yaml:"sounds_dir"`
	MuteSounds bool           `yaml:"mute_sounds"`
	Colors     ColorConfig    `yaml:"colors"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type TimelineConfig struct {
	Height          int     `yaml:"height"`
	MinZoom         float64 `yaml:"min_zoom"`
	MaxZoom         float64 `yaml:"max_zoom"`
	ZoomStep        float64 `yaml:"zoom_step"`
	MarkerTolerance float64 `yaml:"marker_tolerance"`
	FollowDuration  float64 `yaml:"follow_duration"`
}

type PlaybackConfig struct {
	MinSpeed      float64 `yaml:"min_speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
	TriggerPolicy string  `yaml:"trigger_policy"`
}

type ShapeConfig struct {
	DragHandleSize         float64 `yaml:"drag_handle_size"`
	RotationHandleDistance float64 `yaml:"rotation_handle_distance"`
	MinShapeSize           float64 `yaml:"min_shape_size"`
}

type ColorConfig struct {
	Normal     Color `yaml:"normal"`
	Attack     Color `yaml:"attack"`
	Effect     Color `yaml:"effect"`
	Sound      Color `yaml:"sound"`
	Playhead   Color `yaml:"playhead"`
	Selection  Color `yaml:"selection"`
	Background Color `yaml:"background"`
}

// ForType returns the marker color of an event type.
func (c ColorConfig) ForType(t events.EventType) color.Color {
	switch t {
	case events.TypeAttack:
		return c.Attack
	case events.TypeEffect:
		return c.Effect
	case events.TypeSound:
		return c.Sound
	default:
		return c.Normal
	}
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Parse overlays data on the embedded defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...))
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return invalid("window", "size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.FrameRate <= 0:
		return invalid("frame_rate", "must be positive, got %d", c.FrameRate)
	case c.Timeline.Height <= 0 || c.Timeline.Height >= c.Window.Height:
		return invalid("timeline.height", "must be in (0, %d), got %d", c.Window.Height, c.Timeline.Height)
	case c.Timeline.MinZoom <= 0 || c.Timeline.MaxZoom < c.Timeline.MinZoom:
		return invalid("timeline.zoom", "need 0 < min_zoom <= max_zoom, got %v..%v", c.Timeline.MinZoom, c.Timeline.MaxZoom)
	case c.Timeline.ZoomStep <= 0:
		return invalid("timeline.zoom_step", "must be positive, got %v", c.Timeline.ZoomStep)
	case c.Timeline.MarkerTolerance < 0:
		return invalid("timeline.marker_tolerance", "must not be negative, got %v", c.Timeline.MarkerTolerance)
	case c.Timeline.FollowDuration < 0:
		return invalid("timeline.follow_duration", "must not be negative, got %v", c.Timeline.FollowDuration)
	case c.Playback.MinSpeed <= 0 || c.Playback.MaxSpeed < c.Playback.MinSpeed:
		return invalid("playback.speed", "need 0 < min_speed <= max_speed, got %v..%v", c.Playback.MinSpeed, c.Playback.MaxSpeed)
	case c.Shape.DragHandleSize <= 0:
		return invalid("shape.drag_handle_size", "must be positive, got %v", c.Shape.DragHandleSize)
	case c.Shape.RotationHandleDistance < 0:
		return invalid("shape.rotation_handle_distance", "must not be negative, got %v", c.Shape.RotationHandleDistance)
	case c.Shape.MinShapeSize <= 0:
		return invalid("shape.min_shape_size", "must be positive, got %v", c.Shape.MinShapeSize)
	}
	if _, err := playback.ParseTriggerPolicy(c.Playback.TriggerPolicy); err != nil {
		return invalid("playback.trigger_policy", "%v", err)
	}
	return nil
}

// TriggerPolicy is the parsed playback.trigger_policy.
func (c *Config) TriggerPolicy() playback.TriggerPolicy {
	p, _ := playback.ParseTriggerPolicy(c.Playback.TriggerPolicy)
	return p
}

// ShapeLimits converts the shape section for the drag controller.
func (c *Config) ShapeLimits() shapeedit.Limits {
	return shapeedit.Limits{
		DragHandleSize:         c.Shape.DragHandleSize,
		RotationHandleDistance: c.Shape.RotationHandleDistance,
		MinShapeSize:           c.Shape.MinShapeSize,
	}
}

// Color is a hex color ("#rrggbb" or "#rrggbbaa") in YAML.
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	v, err := ParseHex(value.Value)
	if err != nil {
		return err
	}
	c.Color = v
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// RGBA returns the color, or opaque white when unset.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c.Color == nil {
		return color.White.RGBA()
	}
	return c.Color.RGBA()
}

func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}
	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(h[start:start+2], 16, 8)
		return uint8(v), err
	}
	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}
	a := uint8(255)
	if len(h) == 8 {
		if a, err = parse(6); err != nil {
			return color.NRGBA{}, err
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
