package main

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// VersionCmd displays version information for the netfs-unlock binary.
type VersionCmd struct{}

// Run executes the netfs-unlock version command.
func (cmd VersionCmd) Run() error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("build information is not available")
	}

	fmt.Printf("netfs-unlock %s (%s)\n", info.Main.Version, info.GoVersion)
	return nil
}
