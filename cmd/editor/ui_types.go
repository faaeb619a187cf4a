package main

import (
	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/frameevents/session"
)

// ToolBar holds the transport buttons and the speed radio group.
type ToolBar struct {
	play         *widget.Button
	mute         *widget.Button
	speeds       *widget.RadioGroup
	speedButtons []*widget.Button
	playing      bool
}

// Sync relabels the play button when playback state changes.
func (tb *ToolBar) Sync(sess *session.Session) {
	if tb == nil || tb.play == nil {
		return
	}
	playing := sess.Player().Playing()
	if playing == tb.playing {
		return
	}
	tb.playing = playing
	label := "Play"
	if playing {
		label = "Pause"
	}
	if text := tb.play.Text(); text != nil {
		text.Label = label
	}
}

// ClipList is the animation picker.
type ClipList struct {
	list *widget.List
	// suppress is set while the selection is changed programmatically.
	suppress bool
}

func (c *ClipList) SetSelected(name string) {
	if c == nil || c.list == nil {
		return
	}
	c.suppress = true
	c.list.SetSelectedEntry(name)
	c.suppress = false
}
