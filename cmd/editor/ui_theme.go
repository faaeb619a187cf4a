package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	panelColor      = color.RGBA{40, 40, 40, 255}
	labelColor      = &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}
	buttonTextColor = &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.White,
				Selected:            color.RGBA{255, 211, 77, 255},
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 64},
				SelectingBackground: color.RGBA{60, 70, 95, 255},
				SelectedBackground:  color.RGBA{50, 60, 85, 255},
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(color.RGBA{30, 30, 30, 255}),
				Mask: solidNineSlice(color.RGBA{30, 30, 30, 255}),
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(panelColor),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:     solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:    solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed:  solidNineSlice(color.RGBA{160, 160, 160, 255}),
				Disabled: solidNineSlice(color.RGBA{110, 110, 110, 255}),
			},
			TextFace:  fontFace,
			TextColor: buttonTextColor,
		},
		SliderTheme: &widget.SliderParams{
			TrackImage: &widget.SliderTrackImage{
				Idle:  solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover: solidNineSlice(color.RGBA{200, 200, 200, 255}),
			},
			HandleImage: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{120, 120, 120, 255}),
				Hover:   solidNineSlice(color.RGBA{160, 160, 160, 255}),
				Pressed: solidNineSlice(color.RGBA{100, 100, 100, 255}),
			},
		},
	}
}

func newTextInput(fontFace *text.Face, width int, opts ...widget.TextInputOpt) *widget.TextInput {
	base := []widget.TextInputOpt{
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 26)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
			Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{Idle: color.Black, Disabled: color.Gray{Y: 120}, Caret: color.Black}),
		widget.TextInputOpts.Face(fontFace),
	}
	return widget.NewTextInput(append(base, opts...)...)
}

func newLabel(fontFace *text.Face, s string) *widget.Label {
	return widget.NewLabel(widget.LabelOpts.Text(s, fontFace, labelColor))
}

func newButton(theme *widget.Theme, fontFace *text.Face, label string, minW int, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, fontFace, buttonTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(minW, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func newColumn(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(spacing),
			),
		),
	)
}

func newRow(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(spacing),
			),
		),
	)
}
