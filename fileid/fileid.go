// Package fileid identifies files by device and inode, which allows
// directory scans to recognize locations they have already visited.
package fileid

// ID identifies a file on a particular device.
type ID struct {
	Device uint64
	Inode  uint64
}

// Set is a set of file IDs.
type Set map[ID]struct{}

// Contains returns true if the given id is present in the set.
func (set Set) Contains(id ID) bool {
	_, present := set[id]
	return present
}

// Add adds the given id to the set. If it is already present, it takes
// no action.
func (set Set) Add(id ID) {
	set[id] = struct{}{}
}

// Remove removes the given id from the set. If it is not present, it takes
// no action.
func (set Set) Remove(id ID) {
	delete(set, id)
}
