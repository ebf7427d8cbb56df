//go:build !unix

package fileid

import "io/fs"

// FromFileInfo returns the identity of the file described by fi. It returns
// false if the platform does not surface device and inode numbers.
func FromFileInfo(fi fs.FileInfo) (ID, bool) {
	return ID{}, false
}
