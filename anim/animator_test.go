package anim

import "testing"

func testSpec() *CharacterSpec {
	return &CharacterSpec{
		Name:    "dummy",
		Scale:   2,
		Default: "walk",
		Defs: map[string]ClipSpec{
			"walk":  {FrameCount: 8, FrameW: 16, FrameH: 16, FPS: 8},
			"swing": {FrameCount: 5, FrameW: 16, FrameH: 16, FPS: 10},
		},
	}
}

func TestSwitchAnimation(t *testing.T) {
	a := NewSheetAnimator(testSpec(), nil)
	if a.CurrentAnimation() != "walk" || a.CurrentAnimationDuration() != 1 {
		t.Fatalf("default clip not selected: %s %v", a.CurrentAnimation(), a.CurrentAnimationDuration())
	}
	if !a.SwitchAnimation("swing", false) {
		t.Fatalf("switch to swing failed")
	}
	if a.CurrentAnimationDuration() != 0.5 {
		t.Fatalf("duration = %v, want 0.5", a.CurrentAnimationDuration())
	}
	if a.SwitchAnimation("missing", true) {
		t.Fatalf("unknown clip should not switch")
	}
	if a.CurrentAnimation() != "swing" {
		t.Fatalf("failed switch changed clip to %s", a.CurrentAnimation())
	}
}

func TestApplyPoseSelectsFrame(t *testing.T) {
	a := NewSheetAnimator(testSpec(), nil)
	a.SwitchAnimation("swing", false)
	a.ApplyPose(0.25)
	if a.Frame() != 2 || a.PoseTime() != 0.25 {
		t.Fatalf("frame = %d pose = %v", a.Frame(), a.PoseTime())
	}
	a.ApplyPose(3)
	if a.Frame() != 4 {
		t.Fatalf("one-shot clip should hold the last frame, got %d", a.Frame())
	}
}

func TestListAnimationNamesIsACopy(t *testing.T) {
	a := NewSheetAnimator(testSpec(), nil)
	names := a.ListAnimationNames()
	names[0] = "changed"
	if a.ListAnimationNames()[0] != "swing" {
		t.Fatalf("ListAnimationNames leaked internal slice")
	}
}

func TestPositionAndScale(t *testing.T) {
	a := NewSheetAnimator(testSpec(), nil)
	a.SetPosition(10, 20)
	a.SetScale(0)
	x, y := a.Position()
	if x != 10 || y != 20 || a.Scale() != 2 {
		t.Fatalf("got pos=(%v,%v) scale=%v", x, y, a.Scale())
	}
	a.SetScale(3)
	if a.Scale() != 3 {
		t.Fatalf("scale = %v", a.Scale())
	}
}
