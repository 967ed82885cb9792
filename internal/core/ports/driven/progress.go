package driven

// ProgressReporter observes long-running batch work.
// Implementations must not affect results; a nil reporter is never passed
// to adapters, services substitute a no-op.
type ProgressReporter interface {
	// Start begins a new stage with a known number of steps.
	Start(stage string, total int)

	// Update reports the number of completed steps so far.
	Update(completed int)

	// Finish ends the current stage.
	Finish()
}
