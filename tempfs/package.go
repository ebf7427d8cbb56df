// Package tempfs manages the local staging directories used while restoring
// locked files.
package tempfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options hold a set of options for staging directories.
type Options struct {
	// DeleteOnClose requests that staging directories and their contents
	// are deleted when the directory is closed.
	DeleteOnClose bool
}

// StagingDir is a local staging directory for files being restored.
//
// It is a temporary directory created via os.MkdirTemp. Its name will have
// "netfs-unlock-" as a prefix.
type StagingDir struct {
	path string
	dir  *os.Root
	opts Options
}

// OpenStagingDir opens a temporary directory to receive staged copies of
// files.
//
// It is the caller's responsibility to close the returned directory when
// finished with it.
//
// The options can be used to request that the returned directory is deleted
// when closed.
func OpenStagingDir(opts Options) (StagingDir, error) {
	dirPath, err := os.MkdirTemp("", "netfs-unlock-")
	if err != nil {
		return StagingDir{}, err
	}

	// Sanity check the directory path before it becomes a candidate for an
	// os.RemoveAll call later on.
	if !strings.Contains(dirPath, "netfs-unlock-") {
		return StagingDir{}, fmt.Errorf("the os.MkdirTemp call failed to create a directory with the expected format: %s", dirPath)
	}

	// Open the root of the newly created temp directory.
	dir, err := os.OpenRoot(dirPath)
	if err != nil {
		os.RemoveAll(dirPath)
		return StagingDir{}, err
	}

	return StagingDir{
		path: dirPath,
		dir:  dir,
		opts: opts,
	}, nil
}

// Path returns the path to the staging directory at the time of its
// creation.
func (d StagingDir) Path() string {
	return d.path
}

// FilePath returns the path of the named file within the staging directory.
func (d StagingDir) FilePath(name string) string {
	return filepath.Join(d.path, name)
}

// WriteFile reads data from r and writes it to the named file within the
// staging directory. It continues until the reader returns io.EOF or an
// error is encountered.
func (d StagingDir) WriteFile(name string, r io.Reader) (written int64, err error) {
	file, err := d.dir.Create(name)
	if err != nil {
		return 0, fmt.Errorf("failed to create staging file: %w", err)
	}
	defer file.Close()

	return io.Copy(file, r)
}

// Open opens the named file within the staging directory for reading.
func (d StagingDir) Open(name string) (*os.File, error) {
	return d.dir.Open(name)
}

// Close releases any file system resources consumed by the directory.
//
// If the directory was created with the DeleteOnClose option, calling this
// function will cause the directory and all of its contents to be deleted.
func (d StagingDir) Close() error {
	// Simple closure.
	if !d.opts.DeleteOnClose {
		return d.dir.Close()
	}

	// Close and delete.
	err1 := d.dir.Close()
	err2 := os.RemoveAll(d.path)

	return errors.Join(err1, err2)
}
