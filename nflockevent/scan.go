package nflockevent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gentlemanautomaton/structformat"
	"github.com/google/uuid"
)

// ScanStarted is an event that occurs when a directory scan begins.
type ScanStarted struct {
	Operation uuid.UUID
	Dir       string
	Recursive bool
}

// Component identifies the component that generated the event.
func (e ScanStarted) Component() string {
	return "scan"
}

// Level returns the level of the event.
func (e ScanStarted) Level() slog.Level {
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e ScanStarted) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Dir)

	if e.Recursive {
		builder.WriteStandard("Scanning the directory tree for locked files.")
	} else {
		builder.WriteStandard("Scanning the directory for locked files.")
	}

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e ScanStarted) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("dir", e.Dir),
		slog.Bool("recursive", e.Recursive),
	}
}

// FileSkipped is an event that occurs when a scan passes over an entry that
// cannot be processed.
type FileSkipped struct {
	Operation uuid.UUID
	Path      string
	Reason    string
}

// Component identifies the component that generated the event.
func (e FileSkipped) Component() string {
	return "scan"
}

// Level returns the level of the event.
func (e FileSkipped) Level() slog.Level {
	return slog.LevelWarn
}

// Message returns a description of the event.
func (e FileSkipped) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Path)
	builder.WriteStandard(fmt.Sprintf("Skipping: %s.", e.Reason))

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e FileSkipped) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("path", e.Path),
		slog.String("reason", e.Reason),
	}
}

// ScanCompleted is an event that occurs when a directory scan concludes.
type ScanCompleted struct {
	Operation   uuid.UUID
	Dir         string
	Recursive   bool
	Examined    int
	Released    int
	StillLocked int
	Skipped     int
	Started     time.Time
	Stopped     time.Time
	Err         error
}

// Component identifies the component that generated the event.
func (e ScanCompleted) Component() string {
	return "scan"
}

// Level returns the level of the event.
func (e ScanCompleted) Level() slog.Level {
	if e.Err != nil {
		return slog.LevelError
	}
	if e.StillLocked > 0 {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e ScanCompleted) Message() string {
	var builder structformat.Builder

	duration := e.Duration().Round(time.Millisecond)

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Dir)

	if e.Err != nil {
		builder.WriteStandard(fmt.Sprintf("The scan stopped due to an error: %s.", e.Err))
	} else {
		builder.WriteStandard(fmt.Sprintf("Examined %d %s in %s: %d released, %d still locked, %d skipped.", e.Examined, plural(e.Examined, "file", "files"), duration, e.Released, e.StillLocked, e.Skipped))
	}

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e ScanCompleted) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("dir", e.Dir),
		slog.Bool("recursive", e.Recursive),
		slog.Int("examined", e.Examined),
		slog.Int("released", e.Released),
		slog.Int("still-locked", e.StillLocked),
		slog.Int("skipped", e.Skipped),
		slog.Duration("duration", e.Duration()),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// Duration returns the duration of the scan.
func (e ScanCompleted) Duration() time.Duration {
	return e.Stopped.Sub(e.Started)
}
