package nflock

// Outcome is the terminal result of a release operation.
type Outcome string

// Release outcomes.
const (
	// Released indicates that the file ended the operation without a
	// conflicting lock. Releasing an already unlocked file also reports
	// this outcome.
	Released Outcome = "released"

	// StillLocked indicates that a conflicting lock remained after all
	// release attempts were exhausted.
	StillLocked Outcome = "still-locked"

	// Failed indicates that the operation could not be carried out at all,
	// such as when the file cannot be opened or the unlock request itself
	// reports an error.
	Failed Outcome = "failed"
)

// Result describes how a release operation concluded.
type Result struct {
	// Outcome is the terminal outcome of the operation.
	Outcome Outcome

	// Attempts is the number of unlock requests that were actually issued.
	// It is zero when the file was already unlocked or when running in
	// dry-run mode.
	Attempts int

	// Holder is the last holder hint observed for the file's lock, if any.
	Holder HolderHint
}
