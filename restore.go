package main

import (
	"context"

	"github.com/netfsutil/netfs-unlock/nfengine"
	"github.com/netfsutil/netfs-unlock/nflock"
)

// RestoreCmd rebuilds locked files in place: each locked file is copied to
// local staging, copied back beside the original and atomically renamed over
// it, so that a stale lock record bound to the old inode no longer applies.
type RestoreCmd struct {
	File      string `kong:"short='f',xor='target',required,help='Path to the locked file.'"`
	Dir       string `kong:"optional,short='d',xor='target',help='Path to a directory containing locked files.'"`
	Recursive bool   `kong:"optional,short='r',help='Recurse into subdirectories.'"`
	DryRun    bool   `kong:"optional,name='dry-run',help='Report the intended action without touching any file.'"`
	Verbose   bool   `kong:"optional,short='v',help='Show debug messages on the command line.'"`
	JSON      bool   `kong:"optional,name='json',help='Also emit events as structured JSON log records on stderr.'"`
}

// Run executes the netfs-unlock restore command.
func (cmd RestoreCmd) Run(ctx context.Context) error {
	engine := nfengine.NewReleaseEngine(nfengine.Options{
		Release: nflock.ReleaseOptions{
			MaxRetries: 1,
			DryRun:     cmd.DryRun,
		},
		Events: newRecorder(cmd.Verbose, cmd.JSON),
	})

	if cmd.File != "" {
		_, err := engine.RestoreFile(ctx, cmd.File)
		return err
	}

	_, err := engine.RestoreTree(ctx, cmd.Dir, cmd.Recursive)
	return err
}
