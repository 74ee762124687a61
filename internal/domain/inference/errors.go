package inference

import "errors"

// Sentinel kinds for inference errors.
var (
	ErrNotLoaded      = errors.New("model or scaler not loaded")
	ErrBadArtifact    = errors.New("invalid model artifact")
	ErrShapeMismatch  = errors.New("input shape mismatch")
	ErrNumericFailure = errors.New("numeric failure during prediction")
)
