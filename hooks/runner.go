package hooks

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/frameevents/events"
)

// Runner executes a user script that may define on_trigger(event) and
// validate(event). Scripts can call log(...) to print through the editor. A
// nil Runner is valid and runs nothing.
type Runner struct {
	path        string
	compiled    *tengo.Compiled
	hasTrigger  bool
	hasValidate bool

	// Logf receives log(...) output. Defaults to log.Printf.
	Logf func(format string, args ...any)
	logs []string
}

// Load compiles the script at path. An empty path returns a nil Runner.
func Load(path string) (*Runner, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hooks: load %s: %w", path, err)
	}
	return New(path, src)
}

// New compiles src. name is only used in messages.
func New(name string, src []byte) (*Runner, error) {
	r := &Runner{path: name}

	// First pass: run the bare script once to learn which hooks it defines.
	probe, err := r.compile(src, "")
	if err != nil {
		return nil, fmt.Errorf("hooks: compile %s: %w", name, err)
	}
	if err := probe.Run(); err != nil {
		return nil, fmt.Errorf("hooks: run %s: %w", name, err)
	}
	r.hasTrigger = isCallable(probe, "on_trigger")
	r.hasValidate = isCallable(probe, "validate")
	r.logs = nil

	compiled, err := r.compile(src, r.dispatchScript())
	if err != nil {
		return nil, fmt.Errorf("hooks: compile %s: %w", name, err)
	}
	r.compiled = compiled
	return r, nil
}

func (r *Runner) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

func (r *Runner) HasTrigger() bool { return r != nil && r.hasTrigger }
func (r *Runner) HasValidate() bool { return r != nil && r.hasValidate }

func isCallable(c *tengo.Compiled, name string) bool {
	if !c.IsDefined(name) {
		return false
	}
	obj := c.Get(name).Object()
	return obj != nil && obj.CanCall()
}

func (r *Runner) dispatchScript() string {
	var b strings.Builder
	b.WriteString("\n__result = undefined\n")
	if r.hasTrigger {
		b.WriteString("if __phase == \"trigger\" {\n\ton_trigger(__event)\n}\n")
	}
	if r.hasValidate {
		b.WriteString("if __phase == \"validate\" {\n\t__result = validate(__event)\n}\n")
	}
	return b.String()
}

func (r *Runner) compile(src []byte, dispatch string) (*tengo.Compiled, error) {
	script := tengo.NewScript(append(append([]byte(nil), src...), dispatch...))
	_ = script.Add("__phase", "")
	_ = script.Add("__event", map[string]any{})
	_ = script.Add("__result", nil)
	_ = script.Add("log", &tengo.UserFunction{Name: "log", Value: r.logFunc})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

func (r *Runner) logFunc(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, objectAsString(a))
	}
	line := strings.Join(parts, " ")
	r.logs = append(r.logs, line)
	logf := r.Logf
	if logf == nil {
		logf = log.Printf
	}
	logf("hooks: %s", line)
	return tengo.UndefinedValue, nil
}

// Logs returns the log(...) lines printed since the last call and clears them.
func (r *Runner) Logs() []string {
	if r == nil || len(r.logs) == 0 {
		return nil
	}
	out := r.logs
	r.logs = nil
	return out
}

func (r *Runner) run(phase string, ev map[string]any) error {
	if err := r.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := r.compiled.Set("__event", ev); err != nil {
		return err
	}
	return r.compiled.Run()
}

// OnTrigger calls on_trigger for a fired event.
func (r *Runner) OnTrigger(clip string, ev *events.FrameEvent, at float64) error {
	if !r.HasTrigger() || ev == nil {
		return nil
	}
	m := EventMap(clip, ev)
	m["fired_at"] = at
	if err := r.run("trigger", m); err != nil {
		return fmt.Errorf("hooks: %s on_trigger %q: %w", r.path, ev.Name, err)
	}
	return nil
}

// Validate calls validate for an event. The script reports problems by
// returning a string, an array of strings or an error value; anything falsy
// means the event is fine.
func (r *Runner) Validate(clip string, ev *events.FrameEvent) ([]string, error) {
	if !r.HasValidate() || ev == nil {
		return nil, nil
	}
	if err := r.run("validate", EventMap(clip, ev)); err != nil {
		return nil, fmt.Errorf("hooks: %s validate %q: %w", r.path, ev.Name, err)
	}
	return problems(r.compiled.Get("__result").Object()), nil
}

func problems(obj tengo.Object) []string {
	if obj == nil || obj.IsFalsy() {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.Array:
		var out []string
		for _, item := range v.Value {
			out = append(out, problems(item)...)
		}
		return out
	case *tengo.ImmutableArray:
		var out []string
		for _, item := range v.Value {
			out = append(out, problems(item)...)
		}
		return out
	case *tengo.Error:
		return []string{objectAsString(v.Value)}
	case *tengo.Bool:
		// true means valid
		return nil
	default:
		return []string{objectAsString(v)}
	}
}

// EventMap is the script view of an event.
func EventMap(clip string, ev *events.FrameEvent) map[string]any {
	m := map[string]any{
		"clip":  clip,
		"name":  ev.Name,
		"time":  ev.Time,
		"frame": ev.Frame(),
		"type":  ev.Type().String(),
	}
	switch p := ev.Payload.(type) {
	case *events.NormalPayload:
		m["int_value"] = p.IntValue
		m["float_value"] = p.FloatValue
		m["string_value"] = p.StringValue
	case *events.AttackPayload:
		m["attack_type"] = p.AttackType
		m["damage"] = p.Damage
		m["shape"] = map[string]any{
			"kind":     p.Shape.Kind.String(),
			"x":        p.Shape.X,
			"y":        p.Shape.Y,
			"width":    p.Shape.Width,
			"height":   p.Shape.Height,
			"rotation": p.Shape.Rotation,
		}
	case *events.EffectPayload:
		m["effect_name"] = p.Name
		m["x"] = p.X
		m["y"] = p.Y
		m["scale"] = p.Scale
	case *events.SoundPayload:
		m["sound_name"] = p.Name
		m["volume"] = p.Volume
		m["pitch"] = p.Pitch
	}
	return m
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
