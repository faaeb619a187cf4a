package main

import (
	"errors"
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/input"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/frameevents/anim"
	"github.com/milk9111/frameevents/config"
	"github.com/milk9111/frameevents/session"
	"github.com/milk9111/frameevents/sound"
)

var errQuit = errors.New("quit")

const (
	leftPanelWidth  = 200
	rightPanelWidth = 260
	statusHeight    = 18
	maxHookLines    = 4
)

// EditorGame is the ebiten.Game hosting one editing session.
type EditorGame struct {
	cfg      *config.Config
	sess     *session.Session
	animator *anim.SheetAnimator
	sounds   *sound.Bank

	ui      *ebitenui.UI
	toolbar *ToolBar
	clips   *ClipList
	panel   *PropertyPanel

	width, height int
	hookLines     []string
}

func NewEditorGame(cfg *config.Config, sess *session.Session, animator *anim.SheetAnimator, sounds *sound.Bank) *EditorGame {
	g := &EditorGame{
		cfg:      cfg,
		sess:     sess,
		animator: animator,
		sounds:   sounds,
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
	}
	x, y := animator.Position()
	sess.SetAnchor(x, y)
	sess.SetScale(animator.Scale())

	g.ui, g.toolbar, g.clips, g.panel = BuildEditorUI(sess, sounds, g.switchClip)
	g.layout()
	return g
}

func (g *EditorGame) switchClip(name string) {
	if name == g.sess.Clip() {
		return
	}
	if err := g.sess.SwitchClip(name); err != nil {
		g.logLine(fmt.Sprintf("switch failed: %v", err))
		g.clips.SetSelected(g.sess.Clip())
	}
}

// layout places the timeline between the side panels along the bottom edge.
func (g *EditorGame) layout() {
	h := float64(g.cfg.Timeline.Height)
	x := float64(leftPanelWidth)
	w := float64(g.width - leftPanelWidth - rightPanelWidth)
	if w < 1 {
		w = 1
	}
	g.sess.SetTimelineRect(x, float64(g.height)-h-statusHeight, w, h)
}

func (g *EditorGame) logLine(line string) {
	g.hookLines = append(g.hookLines, line)
	if len(g.hookLines) > maxHookLines {
		g.hookLines = g.hookLines[len(g.hookLines)-maxHookLines:]
	}
}

func (g *EditorGame) typing() bool {
	if g.ui == nil {
		return false
	}
	_, ok := g.ui.GetFocusedWidget().(*widget.TextInput)
	return ok
}

func (g *EditorGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return errQuit
	}
	g.ui.Update()
	g.layout()

	in := g.sampleInput()
	dt := 1.0 / float64(ebiten.TPS())
	g.sess.Update(dt, in)

	for _, line := range g.sess.Options().Hooks.Logs() {
		g.logLine(line)
	}
	g.toolbar.Sync(g.sess)
	g.panel.Sync(g.sess)
	return nil
}

// sampleInput reads this frame's keyboard and mouse state. Hotkeys are
// ignored while a text field has focus.
func (g *EditorGame) sampleInput() session.Input {
	mx, my := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	in := session.Input{
		MouseX:          float64(mx),
		MouseY:          float64(my),
		LeftDown:        ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		LeftPressed:     inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		RightPressed:    inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		Wheel:           wy,
		PointerCaptured: input.UIHovered || g.overPanel(mx),
	}
	if g.typing() {
		return in
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	in.Save = ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS)
	in.Copy = ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC)
	in.Paste = ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV)
	in.Delete = inpututil.IsKeyJustPressed(ebiten.KeyDelete)
	in.TogglePlay = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Rewind = inpututil.IsKeyJustPressed(ebiten.KeyHome)
	return in
}

func (g *EditorGame) overPanel(x int) bool {
	return x < leftPanelWidth || x >= g.width-rightPanelWidth
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Colors.Background)

	g.animator.Draw(screen)
	g.drawAnchor(screen)
	g.drawShape(screen)
	g.drawTimeline(screen)
	g.drawMenu(screen)

	g.ui.Draw(screen)
	g.drawStatus(screen)
}

func (g *EditorGame) drawStatus(screen *ebiten.Image) {
	p := g.sess.Player()
	dirty := ""
	if g.sess.Dirty() {
		dirty = " *"
	}
	status := fmt.Sprintf("%s%s  %.3fs / %.3fs  frame %d  %s  x%.2f  zoom %.2f",
		g.sess.Clip(), dirty, p.CurrentTime(), p.Duration(), g.animator.Frame(),
		p.State(), p.Speed(), g.sess.Mapper().Zoom)
	ebitenutil.DebugPrintAt(screen, status, leftPanelWidth+4, g.height-statusHeight+2)

	for i, line := range g.hookLines {
		ebitenutil.DebugPrintAt(screen, line, leftPanelWidth+4, 4+i*16)
	}
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
