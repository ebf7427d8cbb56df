package main

import (
	"log/slog"
	"os"

	"github.com/netfsutil/netfs-unlock/nfevent"
)

// newRecorder selects the event handlers for a command.
//
// Events always go to the command line through the basic handler. When JSON
// output is requested, structured log records are written to stderr as well.
func newRecorder(verbose, json bool) nfevent.Recorder {
	min := slog.LevelInfo
	if verbose {
		min = slog.LevelDebug
	}

	var handler nfevent.Handler = nfevent.NewBasicHandler(os.Stdout, min)
	if json {
		handler = nfevent.MultiHandler{
			handler,
			nfevent.LoggedHandler{
				Handler: slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: min}),
			},
		}
	}

	return nfevent.Recorder{Handler: handler}
}
