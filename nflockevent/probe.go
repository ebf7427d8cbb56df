// Package nflockevent defines the events recorded by the lock engine.
package nflockevent

import (
	"fmt"
	"log/slog"

	"github.com/gentlemanautomaton/structformat"
	"github.com/google/uuid"
	"github.com/netfsutil/netfs-unlock/nflock"
)

// FileProbe is an event that records the observed lock state of a file.
type FileProbe struct {
	Operation uuid.UUID
	Path      string
	State     nflock.State
}

// Component identifies the component that generated the event.
func (e FileProbe) Component() string {
	return "probe"
}

// Level returns the level of the event.
func (e FileProbe) Level() slog.Level {
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e FileProbe) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Path)

	switch e.State.Status {
	case nflock.LockedBySelf:
		builder.WriteStandard("The file is locked by the calling process through another handle.")
	case nflock.LockedByOther:
		builder.WriteStandard(fmt.Sprintf("The file is locked (%s).", e.State.Holder))
	default:
		builder.WriteStandard("The file is not locked.")
	}

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e FileProbe) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("path", e.Path),
		slog.String("status", string(e.State.Status)),
	}
	if e.State.Holder.Known() {
		attrs = append(attrs, slog.Int("holder-pid", int(e.State.Holder.PID)))
	}
	return attrs
}
