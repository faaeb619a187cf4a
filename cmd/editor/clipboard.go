package main

import (
	"log"
	"runtime"

	"golang.design/x/clipboard"
)

// systemClipboard moves single events through the OS clipboard as JSON text.
// When the platform clipboard is unavailable it keeps the data in memory.
type systemClipboard struct {
	ok       bool
	fallback []byte
}

func newSystemClipboard() *systemClipboard {
	c := &systemClipboard{}
	if runtime.GOOS == "js" {
		return c
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable, copy/paste stays inside the editor: %v", err)
		return c
	}
	c.ok = true
	return c
}

func (c *systemClipboard) Read() []byte {
	if !c.ok {
		return c.fallback
	}
	return clipboard.Read(clipboard.FmtText)
}

func (c *systemClipboard) Write(data []byte) {
	if !c.ok {
		c.fallback = append([]byte(nil), data...)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
}
