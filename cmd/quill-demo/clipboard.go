package main

import (
	"io"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"

	"github.com/iw2rmb/quill/editor"
)

// clipboard keeps copied text in process and mirrors it to the system
// clipboard through OSC 52 when the output is a terminal. OSC 52 reads are
// not supported by most terminals, so pastes come from the local copy.
type clipboard struct {
	text string
	out  io.Writer
	tmux bool
}

var _ editor.Clipboard = (*clipboard)(nil)

func newClipboard(out *os.File) *clipboard {
	c := &clipboard{tmux: os.Getenv("TMUX") != ""}
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		c.out = out
	}
	return c
}

func (c *clipboard) ReadText() (string, error) {
	return c.text, nil
}

func (c *clipboard) WriteText(s string) error {
	c.text = s
	if c.out == nil {
		return nil
	}
	seq := osc52.New(s)
	if c.tmux {
		seq = seq.Tmux()
	}
	_, err := seq.WriteTo(c.out)
	return err
}
