// Package nfengine implements the lock probe-and-release engine of
// netfs-unlock.
//
// The engine operates on the local process's view of lock state for one
// target file at a time. It makes no attempt to verify that a conflicting
// holder is stale before releasing: forcing a release while a live process
// legitimately holds the lock is a correctness hazard that is deliberately
// left to operator judgment, because the holder hint surfaced by the
// platform is unreliable for remote locks.
package nfengine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/netfsutil/netfs-unlock/nfevent"
	"github.com/netfsutil/netfs-unlock/nflock"
	"github.com/netfsutil/netfs-unlock/nflockevent"
)

// ReleaseEngine probes files for conflicting advisory byte-range locks and
// releases them.
type ReleaseEngine struct {
	id     uuid.UUID
	opts   nflock.ReleaseOptions
	events nfevent.Recorder
}

// NewReleaseEngine returns a release engine with the given options.
//
// Each engine carries a random operation ID that is attached to every event
// it records, so interleaved log streams can be told apart.
func NewReleaseEngine(opts Options) ReleaseEngine {
	return ReleaseEngine{
		id:     uuid.New(),
		opts:   opts.Release,
		events: opts.Events,
	}
}

// OperationID returns the engine's operation ID.
func (engine ReleaseEngine) OperationID() uuid.UUID {
	return engine.id
}

// ProbeFile reports the current lock state of the file at path without
// altering it.
func (engine ReleaseEngine) ProbeFile(path string) (nflock.State, error) {
	target, err := OpenTarget(path)
	if err != nil {
		return nflock.State{}, err
	}
	defer target.Close()

	state, err := target.Probe()
	if err != nil {
		return nflock.State{}, err
	}

	engine.events.Record(nflockevent.FileProbe{
		Operation: engine.id,
		Path:      target.Path(),
		State:     state,
	})

	return state, nil
}

// ReleaseFile attempts to transition the file at path to an unlocked state
// and confirms the transition.
//
// The returned result reports the terminal outcome. The error is non-nil
// only when the outcome is Failed; concluding that the file is still locked
// after all attempts is a legitimate outcome, not an error.
func (engine ReleaseEngine) ReleaseFile(ctx context.Context, path string) (nflock.Result, error) {
	started := time.Now()

	if err := engine.opts.Validate(); err != nil {
		return engine.fail(path, started, 0, err)
	}

	target, err := OpenTarget(path)
	if err != nil {
		return engine.fail(path, started, 0, err)
	}
	defer target.Close()

	return engine.releaseTarget(ctx, target, started)
}

// releaseTarget runs the probe, unlock and verify loop against an open
// target. Every probe and unlock goes through the target's single handle.
func (engine ReleaseEngine) releaseTarget(ctx context.Context, target *LockTarget, started time.Time) (nflock.Result, error) {
	state, err := target.Probe()
	if err != nil {
		return engine.fail(target.Path(), started, 0, err)
	}
	engine.events.Record(nflockevent.FileProbe{
		Operation: engine.id,
		Path:      target.Path(),
		State:     state,
	})

	// Releasing an already unlocked file is a no-op.
	if !state.Conflicting() {
		engine.events.Record(nflockevent.FileRelease{
			Operation: engine.id,
			Path:      target.Path(),
			Started:   started,
			Stopped:   time.Now(),
		})
		return nflock.Result{Outcome: nflock.Released}, nil
	}

	holder := state.Holder

	if engine.opts.DryRun {
		engine.events.Record(nflockevent.ReleaseAttempt{
			Operation:  engine.id,
			Path:       target.Path(),
			Attempt:    1,
			MaxRetries: engine.opts.MaxRetries,
			Blocking:   engine.opts.Blocking,
			DryRun:     true,
		})
		engine.events.Record(nflockevent.FileRelease{
			Operation: engine.id,
			Path:      target.Path(),
			Holder:    holder,
			DryRun:    true,
			Started:   started,
			Stopped:   time.Now(),
		})
		return nflock.Result{Outcome: nflock.Released, Holder: holder}, nil
	}

	for attempt := 1; ; attempt++ {
		// The unlock request is the only state-mutating action in the
		// engine, so each attempt is recorded at its point of occurrence.
		engine.events.Record(nflockevent.ReleaseAttempt{
			Operation:  engine.id,
			Path:       target.Path(),
			Attempt:    attempt,
			MaxRetries: engine.opts.MaxRetries,
			Blocking:   engine.opts.Blocking,
		})

		if err := target.Unlock(engine.opts.Blocking); err != nil {
			err = nflock.ReleaseError{Path: target.Path(), Attempt: attempt, Err: err}
			return engine.fail(target.Path(), started, attempt, err)
		}

		state, err = target.Probe()
		if err != nil {
			return engine.fail(target.Path(), started, attempt, err)
		}

		if !state.Conflicting() {
			engine.events.Record(nflockevent.FileRelease{
				Operation: engine.id,
				Path:      target.Path(),
				Attempts:  attempt,
				Holder:    holder,
				Started:   started,
				Stopped:   time.Now(),
			})
			return nflock.Result{Outcome: nflock.Released, Attempts: attempt, Holder: holder}, nil
		}
		holder = state.Holder

		if attempt >= engine.opts.MaxRetries {
			engine.events.Record(nflockevent.FileRelease{
				Operation:   engine.id,
				Path:        target.Path(),
				Attempts:    attempt,
				Holder:      holder,
				StillLocked: true,
				Started:     started,
				Stopped:     time.Now(),
			})
			return nflock.Result{Outcome: nflock.StillLocked, Attempts: attempt, Holder: holder}, nil
		}

		if err := engine.backoff(ctx); err != nil {
			return engine.fail(target.Path(), started, attempt, err)
		}
	}
}

// fail records a failed operation and returns the failure result.
func (engine ReleaseEngine) fail(path string, started time.Time, attempts int, err error) (nflock.Result, error) {
	engine.events.Record(nflockevent.FileRelease{
		Operation: engine.id,
		Path:      path,
		Attempts:  attempts,
		Started:   started,
		Stopped:   time.Now(),
		Err:       err,
	})
	return nflock.Result{Outcome: nflock.Failed, Attempts: attempts}, err
}

// backoff waits for the configured retry delay or until ctx is cancelled.
func (engine ReleaseEngine) backoff(ctx context.Context) error {
	d := engine.opts.RetryBackoff
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
