package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/frameevents/session"
	"github.com/milk9111/frameevents/sound"
)

// BuildEditorUI assembles the side panels: clips and transport on the left,
// event properties on the right. The middle stays free for the character and
// the timeline, which are drawn directly.
func BuildEditorUI(sess *session.Session, sounds *sound.Bank, onClipSelected func(name string)) (*ebitenui.UI, *ToolBar, *ClipList, *PropertyPanel) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	leftPanel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(leftPanelWidth, 400)),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8, Right: 8, Bottom: 8}),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)

	toolbarContainer, toolBar := buildToolBar(ui.PrimaryTheme, &fontFace, sess, sounds)
	leftPanel.AddChild(toolbarContainer)

	leftPanel.AddChild(newLabel(&fontFace, "Animations"))
	clips := &ClipList{}
	names := sess.Clips()
	entries := make([]any, 0, len(names))
	for _, n := range names {
		entries = append(entries, n)
	}
	clips.list = widget.NewList(
		widget.ListOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(leftPanelWidth-16, 240))),
		widget.ListOpts.Entries(entries),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			name, _ := e.(string)
			return name
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if clips.suppress || onClipSelected == nil {
				return
			}
			if name, ok := args.Entry.(string); ok {
				onClipSelected(name)
			}
		}),
	)
	leftPanel.AddChild(clips.list)
	clips.SetSelected(sess.Clip())

	panel := newPropertyPanel(ui.PrimaryTheme, &fontFace, sess)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	leftPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	panel.Container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	root.AddChild(leftPanel)
	root.AddChild(panel.Container)
	ui.Container = root

	return ui, toolBar, clips, panel
}
