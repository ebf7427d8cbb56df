package nflockevent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gentlemanautomaton/structformat"
	"github.com/google/uuid"
	"github.com/netfsutil/netfs-unlock/filehash"
)

// FileStaged is an event that occurs when a locked file has been copied to
// a local staging directory.
type FileStaged struct {
	Operation   uuid.UUID
	Path        string
	StagingPath string
	FileSize    int64
	Started     time.Time
	Stopped     time.Time
	Err         error
}

// Component identifies the component that generated the event.
func (e FileStaged) Component() string {
	return "restore"
}

// Level returns the level of the event.
func (e FileStaged) Level() slog.Level {
	if e.Err != nil {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e FileStaged) Message() string {
	var builder structformat.Builder

	duration := e.Duration().Round(time.Millisecond * 10)

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Path)

	if e.Err != nil {
		builder.WriteStandard(fmt.Sprintf("The copy to local staging at %s failed due to an error: %s.", e.StagingPath, e.Err))
	} else {
		builder.WriteStandard(fmt.Sprintf("The file was copied to local staging in %s (%s mbps).", duration, e.BitrateInMbps()))
	}

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e FileStaged) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("path", e.Path),
		slog.String("staging-path", e.StagingPath),
		slog.Int64("file-size", e.FileSize),
		slog.Duration("duration", e.Duration()),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// Duration returns the duration of the staging copy.
func (e FileStaged) Duration() time.Duration {
	return e.Stopped.Sub(e.Started)
}

// BitrateInMbps returns the bitrate of the staging copy in mebibits per
// second.
func (e FileStaged) BitrateInMbps() string {
	return bitrate(e.FileSize, e.Duration())
}

// FileRestored is an event that occurs when a staged copy has been written
// back beside the original file and renamed over it.
type FileRestored struct {
	Operation uuid.UUID
	Path      string
	TempPath  string
	FileSize  int64
	Digest    filehash.Value
	Started   time.Time
	Stopped   time.Time
	Err       error
}

// Component identifies the component that generated the event.
func (e FileRestored) Component() string {
	return "restore"
}

// Level returns the level of the event.
func (e FileRestored) Level() slog.Level {
	if e.Err != nil {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e FileRestored) Message() string {
	var builder structformat.Builder

	duration := e.Duration().Round(time.Millisecond * 10)

	builder.WritePrimary(operation(e.Operation))
	builder.WritePrimary(e.Path)

	if e.Err != nil {
		builder.WriteStandard(fmt.Sprintf("The restore failed due to an error: %s.", e.Err))
	} else {
		builder.WriteStandard(fmt.Sprintf("The file was rebuilt in place in %s (%s mbps).", duration, e.BitrateInMbps()))
	}

	return builder.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e FileRestored) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", e.Operation.String()),
		slog.String("path", e.Path),
		slog.String("temp-path", e.TempPath),
		slog.Int64("file-size", e.FileSize),
		slog.String("digest", e.Digest.String()),
		slog.Duration("duration", e.Duration()),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// Duration returns the duration of the restore.
func (e FileRestored) Duration() time.Duration {
	return e.Stopped.Sub(e.Started)
}

// BitrateInMbps returns the bitrate of the copy-back in mebibits per second.
func (e FileRestored) BitrateInMbps() string {
	return bitrate(e.FileSize, e.Duration())
}
