//go:build !linux

package nfengine

import (
	"os"

	"github.com/netfsutil/netfs-unlock/nflock"
)

// fcntlController is a placeholder on platforms without the byte-range lock
// queries the engine relies on. The NFS clients this tool targets run on
// Linux.
type fcntlController struct{}

func (fcntlController) probe(file *os.File) (nflock.State, error) {
	return nflock.State{}, nflock.ErrUnsupported
}

func (fcntlController) release(file *os.File, blocking bool) error {
	return nflock.ErrUnsupported
}
