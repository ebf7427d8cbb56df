// Package nfevent provides the event recording infrastructure for
// netfs-unlock. The engine reports everything it does as structured events;
// the caller decides which handlers, if any, turn those events into output.
package nfevent

import "log/slog"

// Event is the common interface implemented by all netfs-unlock events.
type Event interface {
	// Component identifies the component that generated the event.
	Component() string

	// Level returns the level of the event.
	Level() slog.Level

	// Message returns a description of the event.
	Message() string

	// Attrs returns a set of structured logging attributes for the event.
	Attrs() []slog.Attr
}
