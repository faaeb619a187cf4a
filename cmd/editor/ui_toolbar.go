package main

import (
	"fmt"
	"log"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/frameevents/session"
	"github.com/milk9111/frameevents/sound"
)

var speedPresets = []float64{0.25, 0.5, 1, 2}

// buildToolBar lays out the transport buttons and the speed presets.
func buildToolBar(theme *widget.Theme, fontFace *text.Face, sess *session.Session, sounds *sound.Bank) (*widget.Container, *ToolBar) {
	tb := &ToolBar{}
	toolbar := newColumn(6)

	transport := newRow(6)
	tb.play = newButton(theme, fontFace, "Play", 88, func() { sess.Player().Toggle() })
	transport.AddChild(tb.play)
	transport.AddChild(newButton(theme, fontFace, "Stop", 88, func() { sess.Player().Stop() }))
	toolbar.AddChild(transport)

	edit := newRow(6)
	edit.AddChild(newButton(theme, fontFace, "Add", 58, func() { sess.AddEvent() }))
	edit.AddChild(newButton(theme, fontFace, "Delete", 58, func() { sess.DeleteSelected() }))
	edit.AddChild(newButton(theme, fontFace, "Save", 58, func() {
		if err := sess.Save(); err != nil {
			log.Printf("save error: %v", err)
		}
	}))
	toolbar.AddChild(edit)

	clip := newRow(6)
	clip.AddChild(newButton(theme, fontFace, "Copy", 88, func() { sess.CopySelected() }))
	clip.AddChild(newButton(theme, fontFace, "Paste", 88, func() { sess.Paste() }))
	toolbar.AddChild(clip)

	if sounds != nil {
		tb.mute = newButton(theme, fontFace, muteLabel(sounds.Muted), 182, func() {
			sounds.Muted = !sounds.Muted
			tb.mute.Text().Label = muteLabel(sounds.Muted)
		})
		toolbar.AddChild(tb.mute)
	}

	toolbar.AddChild(newLabel(fontFace, "Speed"))
	speeds := newRow(4)
	for _, v := range speedPresets {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(fmt.Sprintf("%gx", v), fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(42, 28)),
		)
		tb.speedButtons = append(tb.speedButtons, btn)
		speeds.AddChild(btn)
	}
	toolbar.AddChild(speeds)

	elements := make([]widget.RadioGroupElement, 0, len(tb.speedButtons))
	for _, b := range tb.speedButtons {
		elements = append(elements, b)
	}
	tb.speeds = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for idx, b := range tb.speedButtons {
				if args.Active == b {
					sess.SetSpeed(speedPresets[idx])
					return
				}
			}
		}),
	)
	for idx, v := range speedPresets {
		if v == sess.Player().Speed() {
			tb.speeds.SetActive(tb.speedButtons[idx])
		}
	}

	return toolbar, tb
}

func muteLabel(muted bool) string {
	if muted {
		return "Sounds: off"
	}
	return "Sounds: on"
}
