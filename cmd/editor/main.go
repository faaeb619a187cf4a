package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/frameevents/anim"
	"github.com/milk9111/frameevents/config"
	"github.com/milk9111/frameevents/events"
	"github.com/milk9111/frameevents/hooks"
	"github.com/milk9111/frameevents/session"
	"github.com/milk9111/frameevents/sound"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML file overriding the editor defaults")
	characterPath := flag.String("character", "", "Character spec YAML (defaults to the built-in knight)")
	eventsPath := flag.String("events", "", "Events JSON file (defaults to the character's events file)")
	clipName := flag.String("clip", "", "Animation to open first")
	hookPath := flag.String("hooks", "", "Optional tengo script with on_trigger/validate hooks")
	flag.Parse()

	log.Println("Editor starting...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *characterPath == "" {
		*characterPath = cfg.Character
	}
	if *hookPath == "" {
		*hookPath = cfg.HookScript
	}

	spec, err := anim.LoadCharacter(*characterPath)
	if err != nil {
		log.Fatalf("Failed to load character: %v", err)
	}
	sheet, err := anim.LoadSheet(spec)
	if err != nil {
		log.Printf("Failed to load sheet, drawing placeholders: %v", err)
	}
	animator := anim.NewSheetAnimator(spec, sheet)

	path := *eventsPath
	if path == "" {
		path = spec.EventsPath()
		if cfg.EventsDir != "" {
			path = filepath.Join(cfg.EventsDir, filepath.Base(path))
		}
	}

	runner, err := hooks.Load(*hookPath)
	if err != nil {
		log.Printf("Hooks disabled: %v", err)
		runner = nil
	}

	opts := session.OptionsFromConfig(cfg, path)
	opts.Hooks = runner
	opts.Clipboard = newSystemClipboard()

	soundsDir := cfg.SoundsDir
	if soundsDir == "" {
		soundsDir = spec.Dir
	}
	bank := sound.NewBank(soundsDir, sound.Context())
	bank.Muted = cfg.MuteSounds
	opts.OnTrigger = func(_ string, ev *events.FrameEvent) {
		if p := ev.Sound(); p != nil {
			bank.Play(p.Name, p.Volume)
		}
	}

	clip := *clipName
	if clip == "" {
		clip = spec.Default
	}
	sess, err := session.New(animator, clip, opts)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", clip, err)
	}
	defer sess.Close()
	log.Printf("Editing %s (%s), events in %s", spec.Name, clip, path)

	g := NewEditorGame(cfg, sess, animator, bank)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.DefaultTPS)

	if err := ebiten.RunGame(g); err != nil && err != errQuit {
		log.Fatal(err)
	}
}
