package nfengine

import (
	"github.com/netfsutil/netfs-unlock/nfevent"
	"github.com/netfsutil/netfs-unlock/nflock"
)

// Options hold a set of options for the release engine.
type Options struct {
	// Release governs how release operations behave.
	Release nflock.ReleaseOptions

	// Events receives the events recorded by the engine. If its handler is
	// nil, events are discarded.
	Events nfevent.Recorder
}
