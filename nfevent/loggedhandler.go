package nfevent

import (
	"context"
	"log/slog"
)

// LoggedHandler is an event handler that sends events to a structured log
// handler.
type LoggedHandler struct {
	Handler slog.Handler
}

// Name returns a name for the handler.
func (h LoggedHandler) Name() string {
	return "structured-log"
}

// Handle processes the given event record.
func (h LoggedHandler) Handle(r Record) error {
	handler := h.Handler
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return handler.Handle(context.Background(), r.ToLog())
}
