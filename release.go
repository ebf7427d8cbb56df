package main

import (
	"context"
	"time"

	"github.com/netfsutil/netfs-unlock/nfengine"
	"github.com/netfsutil/netfs-unlock/nflock"
)

// ReleaseCmd releases stale advisory locks on a file or on the files within
// a directory.
//
// The release is forced: no check is made that the lock's holder is actually
// gone, because holder information for remote locks is unreliable. Pointing
// this command at a file that a live process legitimately holds locked can
// corrupt that process's data.
type ReleaseCmd struct {
	File         string        `kong:"short='f',xor='target',required,help='Path to the locked file.'"`
	Dir          string        `kong:"optional,short='d',xor='target',help='Path to a directory containing locked files.'"`
	Recursive    bool          `kong:"optional,short='r',help='Recurse into subdirectories.'"`
	Blocking     bool          `kong:"optional,help='Wait for conflicting holders instead of forcing an immediate release.'"`
	Retries      int           `kong:"optional,default='1',help='Number of release attempts before giving up.'"`
	RetryBackoff time.Duration `kong:"optional,name='retry-backoff',default='500ms',help='Delay between release attempts.'"`
	DryRun       bool          `kong:"optional,name='dry-run',help='Report the intended action without changing lock state.'"`
	Verbose      bool          `kong:"optional,short='v',help='Show debug messages on the command line.'"`
	JSON         bool          `kong:"optional,name='json',help='Also emit events as structured JSON log records on stderr.'"`
}

// Run executes the netfs-unlock release command.
func (cmd ReleaseCmd) Run(ctx context.Context) error {
	engine := nfengine.NewReleaseEngine(nfengine.Options{
		Release: nflock.ReleaseOptions{
			Blocking:     cmd.Blocking,
			MaxRetries:   cmd.Retries,
			RetryBackoff: cmd.RetryBackoff,
			DryRun:       cmd.DryRun,
		},
		Events: newRecorder(cmd.Verbose, cmd.JSON),
	})

	if cmd.File != "" {
		result, err := engine.ReleaseFile(ctx, cmd.File)
		if err != nil {
			return err
		}
		if result.Outcome == nflock.StillLocked {
			return stillLockedError{count: 1}
		}
		return nil
	}

	summary, err := engine.ReleaseTree(ctx, cmd.Dir, cmd.Recursive)
	if err != nil {
		return err
	}
	if summary.StillLocked > 0 {
		return stillLockedError{count: summary.StillLocked}
	}
	return nil
}
