// Package nflock defines the domain types used by netfs-unlock: the
// observable lock state of a file, the options that govern a release
// operation, and the outcomes and errors that operations report.
package nflock

import "fmt"

// Status describes the lock state of a file as observed by a probe.
type Status string

// Lock statuses.
const (
	// Unlocked indicates that no conflicting byte-range lock is present on
	// the file.
	Unlocked Status = "unlocked"

	// LockedBySelf indicates that the calling process holds a lock on the
	// file through another file handle.
	LockedBySelf Status = "locked-by-self"

	// LockedByOther indicates that a conflicting lock is held outside the
	// calling process, or by a holder the platform cannot attribute.
	LockedByOther Status = "locked-by-other"
)

// State is the result of probing a file's lock state.
type State struct {
	Status Status
	Holder HolderHint
}

// Conflicting returns true if the state describes a held lock.
func (s State) Conflicting() bool {
	return s.Status != Unlocked && s.Status != ""
}

// HolderHint carries whatever identifying information the platform surfaced
// about a lock's holder.
//
// It is diagnostic metadata only. For locks held by remote clients, or held
// through open file descriptions, the process ID is absent or meaningless,
// so the hint must never be used to decide whether a release is safe.
type HolderHint struct {
	PID int32
}

// Known reports whether the hint names a process on the local machine.
func (h HolderHint) Known() bool {
	return h.PID > 0
}

// String returns a string describing the holder.
func (h HolderHint) String() string {
	if !h.Known() {
		return "unknown holder"
	}
	return fmt.Sprintf("pid %d", h.PID)
}
