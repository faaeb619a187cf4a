package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/frameevents/events"
	"github.com/milk9111/frameevents/session"
	"github.com/milk9111/frameevents/shapeedit"
)

const (
	markerWidth = 4
	// flashSeconds is how long a marker stays lit after its event fires.
	flashSeconds = 0.25
)

var (
	trackColor     = color.RGBA{28, 33, 44, 255}
	rulerColor     = color.RGBA{38, 44, 58, 255}
	tickColor      = color.RGBA{90, 98, 115, 255}
	menuColor      = color.RGBA{50, 55, 68, 240}
	menuHoverColor = color.RGBA{80, 90, 115, 255}
)

func (g *EditorGame) drawAnchor(screen *ebiten.Image) {
	x, y := g.sess.Anchor()
	vector.StrokeLine(screen, float32(x-6), float32(y), float32(x+6), float32(y), 1, colornames.Lightgrey, false)
	vector.StrokeLine(screen, float32(x), float32(y-6), float32(x), float32(y+6), 1, colornames.Lightgrey, false)
}

// drawShape outlines the selected attack hitbox and its drag handles.
func (g *EditorGame) drawShape(screen *ebiten.Image) {
	shape := g.sess.SelectedShape()
	if shape == nil {
		return
	}
	tr := g.sess.ShapeTransform()
	lim := g.sess.Options().Limits
	outline := g.cfg.Colors.Attack
	handles := shapeedit.Handles(shape, tr, lim.RotationHandleDistance)

	if shape.Kind == events.ShapeCircle {
		c := tr.ToScreen(cp.Vector{X: shape.X, Y: shape.Y})
		vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(shape.Width*tr.Scale), 2, outline, true)
	} else {
		corners := map[shapeedit.Handle]cp.Vector{}
		var rotate, top cp.Vector
		for _, h := range handles {
			p := cp.Vector{X: h.X, Y: h.Y}
			switch {
			case h.Handle.IsCorner():
				corners[h.Handle] = p
			case h.Handle == shapeedit.HandleRotate:
				rotate = p
			case h.Handle == shapeedit.HandleTop:
				top = p
			}
		}
		ring := []shapeedit.Handle{shapeedit.HandleTopLeft, shapeedit.HandleTopRight, shapeedit.HandleBottomRight, shapeedit.HandleBottomLeft}
		for i, h := range ring {
			a, b := corners[h], corners[ring[(i+1)%len(ring)]]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, outline, true)
		}
		vector.StrokeLine(screen, float32(top.X), float32(top.Y), float32(rotate.X), float32(rotate.Y), 1, outline, true)
	}

	active := g.sess.Drag().Handle()
	size := float32(lim.DragHandleSize)
	for _, h := range handles {
		clr := color.Color(g.cfg.Colors.Selection)
		if h.Handle == active {
			clr = g.cfg.Colors.Playhead
		}
		if h.Handle == shapeedit.HandleRotate {
			vector.StrokeCircle(screen, float32(h.X), float32(h.Y), size/2, 2, clr, true)
			continue
		}
		vector.FillRect(screen, float32(h.X)-size/2, float32(h.Y)-size/2, size, size, clr, false)
	}
}

// drawTimeline renders the ruler, the event markers and the playhead.
func (g *EditorGame) drawTimeline(screen *ebiten.Image) {
	x, y, w, h := g.sess.TimelineRect()
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	vector.FillRect(screen, fx, fy, fw, fh, trackColor, false)
	vector.FillRect(screen, fx, fy, fw, fh/2, rulerColor, false)

	m := g.sess.Mapper()
	for _, tk := range m.Ticks() {
		length := fh / 8
		if tk.Major {
			length = fh / 4
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.2f", tk.Time), int(tk.X)+2, int(y)+2)
		}
		vector.StrokeLine(screen, float32(tk.X), fy+fh/2-length, float32(tk.X), fy+fh/2, 1, tickColor, false)
	}

	// end of clip
	end := float32(m.XFromTime(m.Duration))
	if end >= fx && end <= fx+fw {
		vector.StrokeLine(screen, end, fy, end, fy+fh, 1, colornames.Dimgray, false)
	}

	selected := g.sess.Selected()
	clock := g.sess.Clock()
	for _, ev := range g.sess.Store().Events() {
		if !m.Visible(ev.Time) {
			continue
		}
		mx := float32(m.XFromTime(ev.Time))
		clr := g.cfg.Colors.ForType(ev.Type())
		top := fy + fh/2 + 4
		height := fh/2 - 8
		if at, ok := g.sess.LastFired(ev); ok && clock-at < flashSeconds {
			vector.FillRect(screen, mx-markerWidth, top, markerWidth*2, height, colornames.White, false)
		}
		vector.FillRect(screen, mx-markerWidth/2, top, markerWidth, height, clr, false)
		if ev == selected {
			vector.StrokeRect(screen, mx-markerWidth, top-2, markerWidth*2, height+4, 1, g.cfg.Colors.Selection, false)
			ebitenutil.DebugPrintAt(screen, ev.Name, int(mx)+markerWidth, int(top+height)-16)
		}
	}

	ph := float32(m.XFromTime(g.sess.Player().CurrentTime()))
	if ph >= fx && ph <= fx+fw {
		vector.StrokeLine(screen, ph, fy, ph, fy+fh, 2, g.cfg.Colors.Playhead, false)
	}
}

func (g *EditorGame) drawMenu(screen *ebiten.Image) {
	menu := g.sess.Menu()
	if menu == nil {
		return
	}
	mx, my := ebiten.CursorPosition()
	hover := menu.ItemAt(float64(mx), float64(my))
	for i, item := range menu.Items {
		x, y, w, h := menu.ItemRect(i)
		clr := menuColor
		if i == hover {
			clr = menuHoverColor
		}
		vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
		label := item.String()
		if item == session.MenuAddEvent {
			label = fmt.Sprintf("%s (%.2fs)", label, menu.Time)
		}
		ebitenutil.DebugPrintAt(screen, label, int(x)+6, int(y)+2)
	}
}
