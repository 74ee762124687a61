package types

import "errors"

// Sentinel kinds shared across the prediction pipeline. These allow
// errors.Is from callers regardless of which layer produced the failure.
var (
	// ErrValidation marks malformed user input rejected before any I/O.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the remote provider has no data for the given
	// username or contest.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means the remote provider was unreachable, timed out,
	// or returned a malformed payload.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrModelUnavailable means the prediction engine is not initialized.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrPredictionFailed marks a numeric failure inside the scaler or model.
	ErrPredictionFailed = errors.New("prediction failed")
)
