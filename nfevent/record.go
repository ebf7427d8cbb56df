package nfevent

import (
	"log/slog"
	"time"
)

// Record is a record of an event within netfs-unlock. It is the interface
// implemented by all event records.
type Record interface {
	Time() time.Time
	ToLog() slog.Record
	Event
}

// RecordOf holds information about an event of type T together with the
// time at which it occurred.
type RecordOf[T Event] struct {
	time  time.Time
	pc    uintptr
	Event T
}

// NewRecord returns a record for the given event and program counter.
//
// The program counter is used to build source line information for slog
// records.
func NewRecord[T Event](at time.Time, pc uintptr, event T) RecordOf[T] {
	return RecordOf[T]{
		time:  at,
		pc:    pc,
		Event: event,
	}
}

// Time returns the time of the event.
func (r RecordOf[T]) Time() time.Time {
	return r.time
}

// Component identifies the component that generated the event.
func (r RecordOf[T]) Component() string {
	return r.Event.Component()
}

// Level returns the level of the event.
func (r RecordOf[T]) Level() slog.Level {
	return r.Event.Level()
}

// Message returns a description of the event.
func (r RecordOf[T]) Message() string {
	return r.Event.Message()
}

// Attrs returns a set of structured logging attributes for the event.
func (r RecordOf[T]) Attrs() []slog.Attr {
	return r.Event.Attrs()
}

// ToLog returns the event record as a structured logging record.
func (r RecordOf[T]) ToLog() slog.Record {
	out := slog.NewRecord(r.time, r.Event.Level(), r.Event.Message(), r.pc)
	out.AddAttrs(r.Event.Attrs()...)
	return out
}
