//go:build unix

package fileid

import (
	"io/fs"
	"syscall"
)

// FromFileInfo returns the identity of the file described by fi. It returns
// false if the platform does not surface device and inode numbers.
func FromFileInfo(fi fs.FileInfo) (ID, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return ID{}, false
	}
	return ID{Device: uint64(st.Dev), Inode: uint64(st.Ino)}, true
}
