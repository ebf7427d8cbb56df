package nfengine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/netfsutil/netfs-unlock/filehash"
	"github.com/netfsutil/netfs-unlock/nflock"
	"github.com/netfsutil/netfs-unlock/nflockevent"
	"github.com/netfsutil/netfs-unlock/tempfs"
)

// RestoreFile rebuilds the file at path so that a stale lock record bound to
// its inode no longer applies: the file is copied to a local staging
// directory, unlocked there, copied back beside the original and atomically
// renamed over it.
//
// If the file is not locked, nothing is rewritten and the outcome is
// Released. In dry-run mode the intended action is reported and nothing is
// touched.
func (engine ReleaseEngine) RestoreFile(ctx context.Context, path string) (nflock.Result, error) {
	started := time.Now()

	target, err := OpenTarget(path)
	if err != nil {
		return engine.fail(path, started, 0, err)
	}
	defer target.Close()

	state, err := target.Probe()
	if err != nil {
		return engine.fail(path, started, 0, err)
	}
	engine.events.Record(nflockevent.FileProbe{
		Operation: engine.id,
		Path:      target.Path(),
		State:     state,
	})

	if !state.Conflicting() {
		return nflock.Result{Outcome: nflock.Released}, nil
	}

	if engine.opts.DryRun {
		engine.events.Record(nflockevent.FileRelease{
			Operation: engine.id,
			Path:      target.Path(),
			Holder:    state.Holder,
			DryRun:    true,
			Started:   started,
			Stopped:   time.Now(),
		})
		return nflock.Result{Outcome: nflock.Released, Holder: state.Holder}, nil
	}

	if err := ctx.Err(); err != nil {
		return engine.fail(path, started, 0, err)
	}

	if err := engine.restoreTarget(target); err != nil {
		return nflock.Result{Outcome: nflock.Failed}, err
	}

	return nflock.Result{Outcome: nflock.Released, Attempts: 1, Holder: state.Holder}, nil
}

// restoreTarget performs the copy-out, copy-back and rename dance for a
// locked target.
func (engine ReleaseEngine) restoreTarget(target *LockTarget) error {
	base := filepath.Base(target.Path())

	staging, err := tempfs.OpenStagingDir(tempfs.Options{DeleteOnClose: true})
	if err != nil {
		return fmt.Errorf("unable to open a staging directory: %w", err)
	}
	defer staging.Close()

	// Copy the locked file to local staging, hashing as we go.
	var (
		digest   filehash.Value
		fileSize int64
	)
	stageStarted := time.Now()
	err = func() error {
		source, err := os.Open(target.Path())
		if err != nil {
			return err
		}
		defer source.Close()

		hasher := filehash.New()
		fileSize, err = staging.WriteFile(base, io.TeeReader(source, hasher))
		if err != nil {
			return err
		}
		digest = filehash.Value(hasher.Sum(nil))
		return nil
	}()
	engine.events.Record(nflockevent.FileStaged{
		Operation:   engine.id,
		Path:        target.Path(),
		StagingPath: staging.FilePath(base),
		FileSize:    fileSize,
		Started:     stageStarted,
		Stopped:     time.Now(),
		Err:         err,
	})
	if err != nil {
		return fmt.Errorf("unable to stage the file: %w", err)
	}

	// Unlock the staged copy before it is written back.
	if err := engine.unlockStaged(staging.FilePath(base)); err != nil {
		return err
	}

	// Write the staged copy back beside the original, verify it, and rename
	// it over the original.
	restoreStarted := time.Now()
	tempPath := filepath.Join(filepath.Dir(target.Path()), fmt.Sprintf(".tmp.%s.netfs-unlock", base))
	err = func() error {
		staged, err := staging.Open(base)
		if err != nil {
			return err
		}
		defer staged.Close()

		perm := os.FileMode(0644)
		if fi, err := os.Stat(target.Path()); err == nil {
			perm = fi.Mode().Perm()
		}

		dest, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
		if err != nil {
			return err
		}
		if _, err := io.Copy(dest, staged); err != nil {
			dest.Close()
			return err
		}
		if err := dest.Close(); err != nil {
			return err
		}

		// Verify the written copy before it replaces the original.
		written, err := os.Open(tempPath)
		if err != nil {
			return err
		}
		sum, err := filehash.Sum(written)
		written.Close()
		if err != nil {
			return err
		}
		if !filehash.Equal(digest, sum) {
			return fmt.Errorf("the restored copy of \"%s\" does not match the staged digest %s", base, digest)
		}

		return os.Rename(tempPath, target.Path())
	}()
	if err != nil {
		os.Remove(tempPath)
	}
	engine.events.Record(nflockevent.FileRestored{
		Operation: engine.id,
		Path:      target.Path(),
		TempPath:  tempPath,
		FileSize:  fileSize,
		Digest:    digest,
		Started:   restoreStarted,
		Stopped:   time.Now(),
		Err:       err,
	})
	if err != nil {
		return fmt.Errorf("unable to restore the file: %w", err)
	}
	return nil
}

// unlockStaged clears any lock state that followed the content into the
// staged copy.
func (engine ReleaseEngine) unlockStaged(path string) error {
	staged, err := OpenTarget(path)
	if err != nil {
		return err
	}
	defer staged.Close()

	if err := staged.Unlock(false); err != nil {
		return nflock.ReleaseError{Path: path, Attempt: 1, Err: err}
	}
	return nil
}
