package nflock

import (
	"errors"
	"time"
)

// ReleaseOptions govern how a release operation behaves.
type ReleaseOptions struct {
	// Blocking asks the platform to wait for conflicting holders to release
	// naturally instead of forcing an immediate release.
	Blocking bool

	// MaxRetries is the number of unlock attempts that will be issued before
	// the operation concludes with a still-locked outcome. It must be at
	// least 1.
	MaxRetries int

	// RetryBackoff is the delay between unlock attempts.
	RetryBackoff time.Duration

	// DryRun reports the intended action without issuing any request that
	// mutates lock state.
	DryRun bool
}

// Validate returns an error if the options are unusable.
func (opts ReleaseOptions) Validate() error {
	if opts.MaxRetries < 1 {
		return errors.New("the number of release attempts must be at least 1")
	}
	if opts.RetryBackoff < 0 {
		return errors.New("the retry backoff must not be negative")
	}
	return nil
}
