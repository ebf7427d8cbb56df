package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli struct {
		Release ReleaseCmd `kong:"cmd,help='Probes a file for a stale advisory lock and forcibly clears it.'"`
		Restore RestoreCmd `kong:"cmd,help='Rebuilds locked files in place so that stale lock records no longer apply.'"`
		Show    ShowCmd    `kong:"cmd,help='Shows the current advisory lock state of files without altering it.'"`
		Version VersionCmd `kong:"cmd,help='Display netfs-unlock version information.'"`
	}

	parser := kong.Must(&cli,
		kong.Description("Releases stale advisory byte-range locks left behind on network file systems."),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.UsageOnError())

	app, parseErr := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(parseErr)

	appErr := app.Run()

	// A lock that survived every release attempt is reported with its own
	// exit status, so operators can tell it apart from an operation that
	// could not even be attempted.
	var still stillLockedError
	if errors.As(appErr, &still) {
		fmt.Fprintf(os.Stderr, "netfs-unlock: %v\n", appErr)
		os.Exit(2)
	}

	app.FatalIfErrorf(appErr)
}

// stillLockedError is returned by commands when conflicting locks survive
// the operation, so that main can map it to a distinct exit code.
type stillLockedError struct {
	count int
}

// Error returns a string describing the error.
func (e stillLockedError) Error() string {
	if e.count == 1 {
		return "1 file is still locked"
	}
	return fmt.Sprintf("%d files are still locked", e.count)
}
