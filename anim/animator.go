package anim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Animator is the playback engine the editor drives. It owns the posed
// character; callers only choose the clip, the time and where it is drawn.
type Animator interface {
	SetPosition(x, y float64)
	SetScale(s float64)
	CurrentAnimationDuration() float64
	ListAnimationNames() []string
	SwitchAnimation(name string, loop bool) bool
	ApplyPose(t float64)
}

// SheetAnimator plays the clips of a CharacterSpec from a sprite sheet. The
// anchor sits at the bottom center of each frame. A nil sheet draws a
// placeholder box per frame.
type SheetAnimator struct {
	spec  *CharacterSpec
	sheet *ebiten.Image
	names []string

	current string
	loop    bool
	frame   int
	poseAt  float64

	x, y  float64
	scale float64

	frames map[string][]*ebiten.Image
}

var _ Animator = (*SheetAnimator)(nil)

func NewSheetAnimator(spec *CharacterSpec, sheet *ebiten.Image) *SheetAnimator {
	a := &SheetAnimator{
		spec:   spec,
		sheet:  sheet,
		names:  spec.Names(),
		x:      spec.Position.X,
		y:      spec.Position.Y,
		scale:  spec.Scale,
		frames: map[string][]*ebiten.Image{},
	}
	a.SwitchAnimation(spec.Default, true)
	return a
}

// LoadSheet decodes the character's sheet image. A missing sheet is not an error;
// the animator falls back to placeholders.
func LoadSheet(spec *CharacterSpec) (*ebiten.Image, error) {
	if spec.Sheet == "" {
		return nil, nil
	}
	path := spec.Resolve(spec.Sheet)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("anim: read sheet %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("anim: decode sheet %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func (a *SheetAnimator) SetPosition(x, y float64) {
	a.x, a.y = x, y
}

func (a *SheetAnimator) SetScale(s float64) {
	if s <= 0 {
		return
	}
	a.scale = s
}

func (a *SheetAnimator) Position() (float64, float64) { return a.x, a.y }
func (a *SheetAnimator) Scale() float64 { return a.scale }
func (a *SheetAnimator) CurrentAnimation() string { return a.current }
func (a *SheetAnimator) Frame() int { return a.frame }
func (a *SheetAnimator) PoseTime() float64 { return a.poseAt }
func (a *SheetAnimator) Spec() *CharacterSpec { return a.spec }

func (a *SheetAnimator) CurrentAnimationDuration() float64 {
	def, ok := a.spec.Defs[a.current]
	if !ok {
		return 0
	}
	return def.Duration()
}

func (a *SheetAnimator) ListAnimationNames() []string {
	return append([]string(nil), a.names...)
}

// SwitchAnimation selects a clip and shows its first frame. Unknown names
// leave the current clip in place.
func (a *SheetAnimator) SwitchAnimation(name string, loop bool) bool {
	if _, ok := a.spec.Defs[name]; !ok {
		return false
	}
	a.current = name
	a.loop = loop
	a.ApplyPose(0)
	return true
}

// ApplyPose shows the frame for clip time t.
func (a *SheetAnimator) ApplyPose(t float64) {
	a.poseAt = t
	def, ok := a.spec.Defs[a.current]
	if !ok {
		a.frame = 0
		return
	}
	a.frame = def.FrameIndex(t, a.loop)
}

// FrameSize is the current clip's frame size in sheet pixels.
func (a *SheetAnimator) FrameSize() (int, int) {
	def := a.spec.Defs[a.current]
	return def.FrameW, def.FrameH
}

// Draw renders the posed frame with its anchor at the animator position.
func (a *SheetAnimator) Draw(screen *ebiten.Image) {
	def, ok := a.spec.Defs[a.current]
	if !ok {
		return
	}
	fw, fh := float64(def.FrameW), float64(def.FrameH)
	if img := a.frameImage(def); img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-fw/2, -fh)
		op.GeoM.Scale(a.scale, a.scale)
		op.GeoM.Translate(a.x, a.y)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
		return
	}
	w, h := fw*a.scale, fh*a.scale
	left, top := a.x-w/2, a.y-h
	vector.FillRect(screen, float32(left), float32(top), float32(w), float32(h), color.RGBA{R: 60, G: 70, B: 95, A: 255}, false)
	// a bar that walks across the box makes the current frame visible
	if def.FrameCount > 0 {
		barW := w / float64(def.FrameCount)
		vector.FillRect(screen, float32(left+barW*float64(a.frame)), float32(top+h-4), float32(barW), 4, color.RGBA{R: 230, G: 200, B: 90, A: 255}, false)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %d", a.current, a.frame), int(left)+4, int(top)+4)
}

func (a *SheetAnimator) frameImage(def ClipSpec) *ebiten.Image {
	if a.sheet == nil {
		return nil
	}
	frames, ok := a.frames[a.current]
	if !ok {
		frames = sliceFrames(a.sheet, def)
		a.frames[a.current] = frames
	}
	if a.frame < 0 || a.frame >= len(frames) {
		return nil
	}
	return frames[a.frame]
}

// sliceFrames cuts a clip out of the sheet, continuing onto the next row when
// the clip runs past the last column.
func sliceFrames(sheet *ebiten.Image, def ClipSpec) []*ebiten.Image {
	if def.FrameW <= 0 || def.FrameH <= 0 {
		return nil
	}
	bounds := sheet.Bounds()
	cols := bounds.Dx() / def.FrameW
	rows := bounds.Dy() / def.FrameH
	if cols <= 0 || rows <= 0 {
		return nil
	}
	start := def.Row*cols + def.ColStart
	out := make([]*ebiten.Image, 0, def.FrameCount)
	for i := 0; i < def.FrameCount; i++ {
		idx := start + i
		col, row := idx%cols, idx/cols
		if row >= rows {
			break
		}
		sx, sy := bounds.Min.X+col*def.FrameW, bounds.Min.Y+row*def.FrameH
		sub := sheet.SubImage(image.Rect(sx, sy, sx+def.FrameW, sy+def.FrameH)).(*ebiten.Image)
		out = append(out, sub)
	}
	return out
}
