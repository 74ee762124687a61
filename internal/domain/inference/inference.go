// Package inference wraps the trained scaler and model artifacts behind a
// single vector-in, scalar-out prediction contract.
package inference

import (
	"context"
	"fmt"
	"math"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/feature"
)

// Engine predicts a rating change from one feature vector.
type Engine interface {
	// Predict returns the predicted rating delta, honoring ctx for
	// cancellation.
	Predict(ctx context.Context, vec feature.Vector) (float64, error)
}

// Model implements Engine over a fitted scaler and a trained network.
type Model struct {
	scaler  *Scaler
	network Network
}

// NewModel pairs a scaler with a network. Both are required.
func NewModel(scaler *Scaler, network Network) (*Model, error) {
	if scaler == nil || network == nil {
		return nil, ErrNotLoaded
	}
	if scaler.Features() != feature.Size {
		return nil, fmt.Errorf("%w: scaler fitted on %d features, pipeline emits %d", ErrBadArtifact, scaler.Features(), feature.Size)
	}
	return &Model{scaler: scaler, network: network}, nil
}

// Predict scales the raw vector, reshapes it to the rank the network
// declares, and returns the first scalar of the single-row result. The
// dense architecture takes the scaled row as-is (batch x features); the
// legacy recurrent architecture gets a singleton timestep axis inserted
// (batch x 1 x features).
func (m *Model) Predict(ctx context.Context, vec feature.Vector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("prediction cancelled: %w", err)
	}

	scaled, err := m.scaler.Transform(vec[:])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNumericFailure, err)
	}

	var in Tensor
	switch rank := m.network.InputRank(); rank {
	case 2:
		in = row2(scaled)
	case 3:
		in = row3(scaled)
	default:
		return 0, fmt.Errorf("%w: network declares unsupported input rank %d", ErrBadArtifact, rank)
	}

	out, err := m.network.Forward(in)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNumericFailure, err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("%w: network returned empty output", ErrNumericFailure)
	}
	pred := out[0]
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		return 0, fmt.Errorf("%w: network returned %v", ErrNumericFailure, pred)
	}
	return pred, nil
}
