package nfengine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/netfsutil/netfs-unlock/fileid"
	"github.com/netfsutil/netfs-unlock/nflock"
	"github.com/netfsutil/netfs-unlock/nflockevent"
)

// ScanSummary tallies the files examined during a directory scan.
type ScanSummary struct {
	Examined    int
	Released    int
	StillLocked int
	Skipped     int
}

// fileOp is the per-file operation a scan applies to each regular file.
type fileOp func(ctx context.Context, path string) (nflock.Result, error)

// ReleaseTree applies ReleaseFile to every regular file within dir,
// optionally recursing into subdirectories.
//
// The first failing file stops the scan; the returned summary reflects the
// files processed up to that point.
func (engine ReleaseEngine) ReleaseTree(ctx context.Context, dir string, recursive bool) (ScanSummary, error) {
	return engine.scan(ctx, dir, recursive, engine.ReleaseFile)
}

// RestoreTree applies RestoreFile to every regular file within dir,
// optionally recursing into subdirectories.
func (engine ReleaseEngine) RestoreTree(ctx context.Context, dir string, recursive bool) (ScanSummary, error) {
	return engine.scan(ctx, dir, recursive, engine.RestoreFile)
}

func (engine ReleaseEngine) scan(ctx context.Context, dir string, recursive bool, op fileOp) (ScanSummary, error) {
	engine.events.Record(nflockevent.ScanStarted{
		Operation: engine.id,
		Dir:       dir,
		Recursive: recursive,
	})

	started := time.Now()
	summary, err := engine.walk(ctx, dir, recursive, op)

	engine.events.Record(nflockevent.ScanCompleted{
		Operation:   engine.id,
		Dir:         dir,
		Recursive:   recursive,
		Examined:    summary.Examined,
		Released:    summary.Released,
		StillLocked: summary.StillLocked,
		Skipped:     summary.Skipped,
		Started:     started,
		Stopped:     time.Now(),
		Err:         err,
	})

	return summary, err
}

// walk performs a breadth-first traversal of dir, applying op to every
// regular file it encounters.
func (engine ReleaseEngine) walk(ctx context.Context, dir string, recursive bool, op fileOp) (ScanSummary, error) {
	var summary ScanSummary

	info, err := os.Stat(dir)
	if err != nil {
		return summary, err
	}
	if !info.IsDir() {
		return summary, fmt.Errorf("\"%s\" is not a directory", dir)
	}

	// Track visited directories by identity so that links back into the
	// tree cannot cause an endless walk.
	visited := make(fileid.Set)
	if id, ok := fileid.FromFileInfo(info); ok {
		visited.Add(id)
	}

	queue := []string{dir}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		current := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(current)
		if err != nil {
			return summary, err
		}

		for _, entry := range entries {
			path := filepath.Join(current, entry.Name())

			// Stat follows symbolic links, so links are treated as whatever
			// they point at.
			info, err := os.Stat(path)
			if err != nil {
				summary.Skipped++
				engine.events.Record(nflockevent.FileSkipped{
					Operation: engine.id,
					Path:      path,
					Reason:    err.Error(),
				})
				continue
			}

			if info.IsDir() {
				if !recursive {
					summary.Skipped++
					engine.events.Record(nflockevent.FileSkipped{
						Operation: engine.id,
						Path:      path,
						Reason:    "directories require the recursive option",
					})
					continue
				}
				if id, ok := fileid.FromFileInfo(info); ok {
					if visited.Contains(id) {
						continue
					}
					visited.Add(id)
				}
				queue = append(queue, path)
				continue
			}

			if !info.Mode().IsRegular() {
				summary.Skipped++
				engine.events.Record(nflockevent.FileSkipped{
					Operation: engine.id,
					Path:      path,
					Reason:    "not a regular file",
				})
				continue
			}

			summary.Examined++
			result, err := op(ctx, path)
			if err != nil {
				return summary, err
			}
			switch result.Outcome {
			case nflock.Released:
				summary.Released++
			case nflock.StillLocked:
				summary.StillLocked++
			}
		}
	}

	return summary, nil
}
