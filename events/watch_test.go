package events

import (
	"path/filepath"
	"testing"
	"time"
)

func TestIsEventFile(t *testing.T) {
	cases := map[string]bool{
		"hero_events.json": true,
		"HERO.JSON":        true,
		"hero.yaml":        false,
		"hero.json.1.tmp":  false,
	}
	for name, want := range cases {
		if got := isEventFile(name); got != want {
			t.Errorf("isEventFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatcherReportsSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero_events.json")
	other := filepath.Join(dir, "other_events.json")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := SaveClip(other, "idle", nil); err != nil {
		t.Fatalf("save other: %v", err)
	}
	if err := SaveClip(path, "idle", sampleClip()); err != nil {
		t.Fatalf("save: %v", err)
	}

	want, _ := filepath.Abs(path)
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-w.Events:
			if got != want {
				t.Fatalf("unexpected notification for %s", got)
			}
			return
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-deadline:
			t.Fatalf("no notification for %s", path)
		}
	}
}
