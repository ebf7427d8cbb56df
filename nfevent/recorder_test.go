package nfevent_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/netfsutil/netfs-unlock/nfevent"
)

// testEvent is a minimal event used to exercise recorders and handlers.
type testEvent struct {
	level   slog.Level
	message string
}

func (e testEvent) Component() string { return "test" }

func (e testEvent) Level() slog.Level { return e.level }

func (e testEvent) Message() string { return e.message }

func (e testEvent) Attrs() []slog.Attr {
	return []slog.Attr{slog.String("component", e.Component())}
}

// failingHandler always fails to process events.
type failingHandler struct {
	err error
}

func (h failingHandler) Name() string { return "failing" }

func (h failingHandler) Handle(nfevent.Record) error { return h.err }

func TestRecorderWithoutHandler(t *testing.T) {
	var recorder nfevent.Recorder
	if err := recorder.Record(testEvent{message: "dropped"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRecorderWithBasicHandler(t *testing.T) {
	var buf bytes.Buffer
	recorder := nfevent.Recorder{
		Handler: nfevent.NewBasicHandler(&buf, slog.LevelInfo),
	}

	if err := recorder.Record(testEvent{level: slog.LevelInfo, message: "something happened"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "something happened") {
		t.Errorf("output %q does not contain the event message", out)
	}
}

func TestBasicHandlerMinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	recorder := nfevent.Recorder{
		Handler: nfevent.NewBasicHandler(&buf, slog.LevelWarn),
	}

	if err := recorder.Record(testEvent{level: slog.LevelInfo, message: "too quiet"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("an event below the minimum level was written: %q", buf.String())
	}

	if err := recorder.Record(testEvent{level: slog.LevelWarn, message: "loud enough"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "loud enough") {
		t.Errorf("output %q does not contain the event message", out)
	}
}

func TestRecorderWrapsHandlerErrors(t *testing.T) {
	cause := errors.New("the disk is full")
	recorder := nfevent.Recorder{Handler: failingHandler{err: cause}}

	err := recorder.Record(testEvent{message: "doomed"})
	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	var handlerErr nfevent.HandlerError
	if !errors.As(err, &handlerErr) {
		t.Fatalf("error %v is not a HandlerError", err)
	}
	if handlerErr.HandlerName != "failing" {
		t.Errorf("handler name = %q, want %q", handlerErr.HandlerName, "failing")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap the underlying cause", err)
	}
}

func TestMultiHandlerCollectsErrors(t *testing.T) {
	var buf bytes.Buffer
	cause := errors.New("the disk is full")
	recorder := nfevent.Recorder{
		Handler: nfevent.MultiHandler{
			nfevent.NewBasicHandler(&buf, slog.LevelInfo),
			failingHandler{err: cause},
		},
	}

	err := recorder.Record(testEvent{level: slog.LevelInfo, message: "partially recorded"})
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap the underlying cause", err)
	}

	// The healthy member still received the event.
	if out := buf.String(); !strings.Contains(out, "partially recorded") {
		t.Errorf("output %q does not contain the event message", out)
	}
}

func TestLoggedHandler(t *testing.T) {
	var buf bytes.Buffer
	recorder := nfevent.Recorder{
		Handler: nfevent.LoggedHandler{
			Handler: slog.NewJSONHandler(&buf, nil),
		},
	}

	if err := recorder.Record(testEvent{level: slog.LevelInfo, message: "structured"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"msg":"structured"`) {
		t.Errorf("output %q does not contain the event message", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("output %q does not contain the event attributes", out)
	}
}
