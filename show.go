package main

import (
	"context"
	"fmt"

	"github.com/netfsutil/netfs-unlock/nfengine"
	"github.com/netfsutil/netfs-unlock/nflock"
)

// ShowCmd shows the advisory lock state of files without altering it.
type ShowCmd struct {
	Paths []string `kong:"arg,required,help='Files to examine.'"`
}

// Run executes the netfs-unlock show command.
func (cmd ShowCmd) Run(ctx context.Context) error {
	// The engine records nothing here; this command prints its own report.
	engine := nfengine.NewReleaseEngine(nfengine.Options{})

	var failed int
	for _, path := range cmd.Paths {
		fmt.Printf("---- %s ----\n", path)

		state, err := engine.ProbeFile(path)
		if err != nil {
			fmt.Printf("  Status:  %v\n", err)
			failed++
			continue
		}

		switch state.Status {
		case nflock.Unlocked:
			fmt.Printf("  Status:  Unlocked\n")
		case nflock.LockedBySelf:
			fmt.Printf("  Status:  Locked\n")
			fmt.Printf("  Holder:  this process, via another handle\n")
		case nflock.LockedByOther:
			fmt.Printf("  Status:  Locked\n")
			fmt.Printf("  Holder:  %s\n", state.Holder)
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to examine %d of %d files", failed, len(cmd.Paths))
	}
	return nil
}
