//go:build linux

package nfengine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/netfsutil/netfs-unlock/nflock"
	"golang.org/x/sys/unix"
)

// fcntlController performs lock probes and releases with fcntl byte-range
// locking.
//
// Probes use open-file-description lock queries (F_OFD_GETLK) so that locks
// held by the calling process through other handles are still reported;
// classic F_GETLK hides the caller's own locks. Releases use classic
// process-associated requests (F_SETLK/F_SETLKW), which is the kind of lock
// record a filer leaves behind for a defunct handle.
type fcntlController struct{}

// wholeFile returns a lock description covering the entire file. A length
// of zero extends the range to EOF, so bytes appended after the query are
// covered as well.
func wholeFile(lockType int16) unix.Flock_t {
	return unix.Flock_t{
		Type:   lockType,
		Whence: io.SeekStart,
		Start:  0,
		Len:    0,
	}
}

func (fcntlController) probe(file *os.File) (nflock.State, error) {
	fl := wholeFile(unix.F_WRLCK)
	if err := unix.FcntlFlock(file.Fd(), unix.F_OFD_GETLK, &fl); err != nil {
		return nflock.State{}, mapLockErr(err)
	}

	if fl.Type == unix.F_UNLCK {
		return nflock.State{Status: nflock.Unlocked}, nil
	}

	state := nflock.State{
		Status: nflock.LockedByOther,
		Holder: nflock.HolderHint{PID: fl.Pid},
	}
	if int(fl.Pid) == os.Getpid() {
		state.Status = nflock.LockedBySelf
	}
	return state, nil
}

func (fcntlController) release(file *os.File, blocking bool) error {
	cmd := unix.F_SETLK
	if blocking {
		cmd = unix.F_SETLKW
	}

	fl := wholeFile(unix.F_UNLCK)
	if err := unix.FcntlFlock(file.Fd(), cmd, &fl); err != nil {
		return mapLockErr(err)
	}
	return nil
}

// mapLockErr translates fcntl errors into the engine's error taxonomy.
// EINVAL is included because kernels that predate open-file-description
// locks reject the probe command with it.
func mapLockErr(err error) error {
	switch {
	case errors.Is(err, unix.ENOLCK),
		errors.Is(err, unix.EOPNOTSUPP),
		errors.Is(err, unix.ENOSYS),
		errors.Is(err, unix.EINVAL):
		return fmt.Errorf("%w: %s", nflock.ErrUnsupported, err)
	}
	return err
}
