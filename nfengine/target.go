package nfengine

import (
	"fmt"
	"os"

	"github.com/netfsutil/netfs-unlock/nflock"
)

// controller performs the platform lock queries for a target.
type controller interface {
	probe(file *os.File) (nflock.State, error)
	release(file *os.File, blocking bool) error
}

// LockTarget is an open handle to a file whose lock state is being examined.
//
// Probing and unlocking go through the same underlying handle. Issuing the
// unlock through a different handle than the one that established the view
// of the lock is undefined under POSIX advisory locking, so a target never
// mixes handles.
type LockTarget struct {
	path string
	file *os.File
	ctrl controller
}

// OpenTarget opens the file at path for lock inspection and release.
//
// It is the caller's responsibility to close the returned target when
// finished with it.
func OpenTarget(path string) (*LockTarget, error) {
	return openTargetWith(path, fcntlController{})
}

func openTargetWith(path string, ctrl controller) (*LockTarget, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the target file: %w", err)
	}
	return &LockTarget{
		path: path,
		file: file,
		ctrl: ctrl,
	}, nil
}

// Path returns the path of the target file.
func (t *LockTarget) Path() string {
	return t.path
}

// Probe returns the current lock state of the target. It never blocks and
// never alters existing locks.
func (t *LockTarget) Probe() (nflock.State, error) {
	state, err := t.ctrl.probe(t.file)
	if err != nil {
		return nflock.State{}, nflock.ProbeError{Path: t.path, Err: err}
	}
	return state, nil
}

// Unlock issues a whole-file unlock request through the target's handle.
func (t *LockTarget) Unlock(blocking bool) error {
	return t.ctrl.release(t.file, blocking)
}

// Close releases the target's file handle.
func (t *LockTarget) Close() error {
	return t.file.Close()
}
