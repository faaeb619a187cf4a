package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/frameevents/events"
	"github.com/milk9111/frameevents/session"
)

// PropertyPanel edits the selected event. The form is rebuilt when the
// selection or its type changes; otherwise field texts are refreshed from
// the event unless the user is typing in them.
type PropertyPanel struct {
	Container *widget.Container
	form      *widget.Container
	title     *widget.Label

	theme    *widget.Theme
	fontFace *text.Face
	sess     *session.Session

	shown     *events.FrameEvent
	shownType events.EventType
	inputs    map[session.Field]*widget.TextInput
}

func newPropertyPanel(theme *widget.Theme, fontFace *text.Face, sess *session.Session) *PropertyPanel {
	p := &PropertyPanel{
		theme:    theme,
		fontFace: fontFace,
		sess:     sess,
		inputs:   map[session.Field]*widget.TextInput{},
	}
	p.Container = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(rightPanelWidth, 400)),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8, Right: 8, Bottom: 8}),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
	p.title = newLabel(fontFace, "No event selected")
	p.Container.AddChild(p.title)
	p.form = newColumn(4)
	p.Container.AddChild(p.form)
	return p
}

// Sync brings the form in line with the session selection.
func (p *PropertyPanel) Sync(sess *session.Session) {
	if p == nil {
		return
	}
	ev := sess.Selected()
	if ev != p.shown || (ev != nil && ev.Type() != p.shownType) {
		p.rebuild(ev)
		return
	}
	p.refresh()
}

func (p *PropertyPanel) rebuild(ev *events.FrameEvent) {
	p.form.RemoveChildren()
	p.inputs = map[session.Field]*widget.TextInput{}
	p.shown = ev
	if ev == nil {
		p.title.Label = "No event selected"
		return
	}
	p.shownType = ev.Type()
	p.title.Label = fmt.Sprintf("Event (%s)", ev.Type())

	types := newRow(4)
	for _, t := range events.EventTypes() {
		t := t
		btn := newButton(p.theme, p.fontFace, t.String(), 56, func() { p.sess.SetType(t) })
		btn.GetWidget().Disabled = t == ev.Type()
		types.AddChild(btn)
	}
	p.form.AddChild(types)

	for _, f := range session.FieldsFor(ev.Type()) {
		if f == session.FieldType {
			continue
		}
		f := f
		p.form.AddChild(newLabel(p.fontFace, f.String()))
		input := newTextInput(p.fontFace, rightPanelWidth-24,
			widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
				if !p.sess.EditField(f, args.InputText) {
					// rejected input snaps back to the stored value
					args.TextInput.SetText(p.sess.FieldValue(f))
				}
			}),
		)
		input.SetText(p.sess.FieldValue(f))
		p.inputs[f] = input
		p.form.AddChild(input)
	}
}

func (p *PropertyPanel) refresh() {
	for f, input := range p.inputs {
		if input.IsFocused() {
			continue
		}
		if v := p.sess.FieldValue(f); input.GetText() != v {
			input.SetText(v)
		}
	}
}
