package services

import "errors"

// Service-level errors surfaced to handlers
var (
	// ErrInvalidSource is returned when a submitted source URL fails
	// syntactic validation. No record is created.
	ErrInvalidSource = errors.New("invalid source url")

	// ErrGenerationNotFound is the unified outcome for reads and cancels
	// when the job is absent, owned by someone else, or not in a
	// cancelable state. Callers cannot distinguish these cases.
	ErrGenerationNotFound = errors.New("generation not found or cannot be canceled")

	// ErrInvalidProgress is returned when a reported progress value is
	// outside [0, 100].
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")

	// ErrProgressRegression is returned when a worker reports a progress
	// value lower than the stored one while the job is still processing.
	// The record is never mutated by such a report.
	ErrProgressRegression = errors.New("progress cannot decrease")
)
