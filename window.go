package main

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ironsmile/vkframe/engine"
	"github.com/ironsmile/vkframe/frame"
)

// window is a fixed size glfw window without a client API. It is the
// surface source of the renderer and the event source of its frame loop.
type window struct {
	*glfw.Window
}

var (
	_ engine.Window     = (*window)(nil)
	_ frame.EventSource = (*window)(nil)
)

func newWindow(width, height int, title string) (*window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw.Init")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "creating window")
	}

	return &window{Window: w}, nil
}

func (w *window) FramebufferSize() (width, height int) {
	return w.GetFramebufferSize()
}

// Poll processes pending events and reports whether the user asked to close
// the window.
func (w *window) Poll() frame.Signal {
	glfw.PollEvents()
	if w.ShouldClose() {
		return frame.CloseRequested
	}
	return frame.Continue
}

func (w *window) destroy() {
	w.Destroy()
	glfw.Terminate()
}
