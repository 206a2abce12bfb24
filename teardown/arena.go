// Package teardown releases GPU objects in the reverse of the order in which
// they were acquired.
package teardown

import (
	"context"

	"golang.org/x/exp/slog"
)

// Kind names the type of a tracked object in logs and in Kinds.
type Kind string

type entry struct {
	kind    Kind
	destroy func()
}

// Arena is an acquisition-ordered list of destroy functions. Every object is
// tracked right after it is created; Teardown calls the destroy functions last
// to first. An object is thus always released before anything it was created
// from.
//
// The zero value is ready to use. An Arena is not safe for concurrent use.
type Arena struct {
	logger  *slog.Logger
	entries []entry
	done    bool
}

// New returns an empty arena which logs every release at debug level.
func New(logger *slog.Logger) *Arena {
	return &Arena{logger: logger}
}

// Track registers destroy as the release function of the most recently
// acquired object. Tracking after Teardown releases the object immediately.
func (a *Arena) Track(kind Kind, destroy func()) {
	if a.done {
		a.release(entry{kind: kind, destroy: destroy})
		return
	}
	a.entries = append(a.entries, entry{kind: kind, destroy: destroy})
}

// Len returns the number of objects not yet released.
func (a *Arena) Len() int {
	return len(a.entries)
}

// Kinds returns the kinds of the tracked objects in acquisition order.
func (a *Arena) Kinds() []Kind {
	kinds := make([]Kind, len(a.entries))
	for i, e := range a.entries {
		kinds[i] = e.kind
	}
	return kinds
}

// Teardown releases every tracked object, newest first. Calling it again is a
// no-op.
func (a *Arena) Teardown() {
	for len(a.entries) > 0 {
		last := len(a.entries) - 1
		e := a.entries[last]
		a.entries = a.entries[:last]
		a.release(e)
	}
	a.done = true
}

func (a *Arena) release(e entry) {
	if a.logger != nil {
		a.logger.Log(context.Background(), slog.LevelDebug, "destroying",
			slog.String("kind", string(e.kind)))
	}
	e.destroy()
}
