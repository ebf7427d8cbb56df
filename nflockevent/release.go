package nflockevent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gentlemanautomaton/structformat"
	"github.com/google/uuid"
	"github.com/netfsutil/netfs-unlock/nflock"
)

// ReleaseAttempt is an event that occurs immediately before an unlock
// request is issued. The unlock is the only state-mutating request the
// engine makes, so every attempt is recorded at its point of occurrence
// rather than batched with the outcome.
type ReleaseAttempt struct {
	Operation  uuid.UUID
	Path       string
	Attempt    int
	MaxRetries int
	Blocking   bool
	DryRun     bool
}

// Component identifies the component that generated the event.
func (e ReleaseAttempt) Component() string {
	return "release"
}

// Level returns the level of the event.
func (e ReleaseAttempt) Level() slog.Level {
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e ReleaseAttempt) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Path)

	switch {
	case e.DryRun:
		builder.WriteStandard("A whole-file unlock request would be issued here (dry run).")
	case e.Blocking:
		builder.WriteStandard(fmt.Sprintf("Issuing a whole-file unlock request, waiting for conflicting holders (attempt %d of %d).", e.Attempt, e.MaxRetries))
	default:
		builder.WriteStandard(fmt.Sprintf("Issuing a whole-file unlock request (attempt %d of %d).", e.Attempt, e.MaxRetries))
	}

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e ReleaseAttempt) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("path", e.Path),
		slog.Group("attempt", "number", e.Attempt, "max", e.MaxRetries),
		slog.Bool("blocking", e.Blocking),
		slog.Bool("dry-run", e.DryRun),
	}
}

// FileRelease is an event that occurs when a release operation concludes.
type FileRelease struct {
	Operation   uuid.UUID
	Path        string
	Attempts    int
	Holder      nflock.HolderHint
	DryRun      bool
	StillLocked bool
	Started     time.Time
	Stopped     time.Time
	Err         error
}

// Component identifies the component that generated the event.
func (e FileRelease) Component() string {
	return "release"
}

// Level returns the level of the event.
func (e FileRelease) Level() slog.Level {
	if e.Err != nil {
		return slog.LevelError
	}
	if e.StillLocked {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e FileRelease) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Path)

	duration := e.Duration().Round(time.Millisecond)

	switch {
	case e.Err != nil:
		builder.WriteStandard(fmt.Sprintf("The release failed due to an error: %s.", e.Err))
	case e.StillLocked:
		builder.WriteStandard(fmt.Sprintf("The file is still locked after %d release %s (%s).", e.Attempts, plural(e.Attempts, "attempt", "attempts"), e.Holder))
	case e.DryRun:
		builder.WriteStandard("A conflicting lock would have been released (dry run).")
	case e.Attempts == 0:
		builder.WriteStandard("The file is not locked, so there is nothing to release.")
	default:
		builder.WriteStandard(fmt.Sprintf("The lock was released after %d %s in %s.", e.Attempts, plural(e.Attempts, "attempt", "attempts"), duration))
	}

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e FileRelease) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("path", e.Path),
		slog.Int("attempts", e.Attempts),
		slog.Bool("still-locked", e.StillLocked),
		slog.Bool("dry-run", e.DryRun),
		slog.Duration("duration", e.Duration()),
	}
	if e.Holder.Known() {
		attrs = append(attrs, slog.Int("holder-pid", int(e.Holder.PID)))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// Duration returns the duration of the release operation.
func (e FileRelease) Duration() time.Duration {
	return e.Stopped.Sub(e.Started)
}
