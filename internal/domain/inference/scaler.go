package inference

import (
	"fmt"
	"math"
)

// Scaler applies the feature-wise normalization fitted during training:
// (x - mean) / scale per component.
type Scaler struct {
	mean  []float64
	scale []float64
}

// NewScaler builds a scaler from fitted mean/scale arrays.
func NewScaler(mean, scale []float64) (*Scaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, fmt.Errorf("%w: mean/scale length mismatch (%d vs %d)", ErrBadArtifact, len(mean), len(scale))
	}
	for i, s := range scale {
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: scale[%d] is %v", ErrBadArtifact, i, s)
		}
	}
	return &Scaler{mean: mean, scale: scale}, nil
}

// Features returns the number of features the scaler was fitted on.
func (s *Scaler) Features() int { return len(s.mean) }

// Transform normalizes one raw feature row.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.mean) {
		return nil, fmt.Errorf("%w: got %d features, scaler fitted on %d", ErrShapeMismatch, len(row), len(s.mean))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
