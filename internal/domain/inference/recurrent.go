package inference

import (
	"fmt"
	"math"
)

// RecurrentNetwork is the legacy single-timestep LSTM architecture. It
// expects rank-3 input (batch x 1 timestep x features). With one timestep
// and zero initial state the recurrent kernel contributes nothing, but it
// is kept in the artifact so weights round-trip unchanged from training.
type RecurrentNetwork struct {
	units  int
	kernel [][]float64 // features x 4*units, gate order i,f,c,o
	bias   []float64   // 4*units
	head   []DenseLayer
}

// NewRecurrentNetwork builds the LSTM cell plus its dense head.
func NewRecurrentNetwork(units int, kernel [][]float64, bias []float64, head []DenseLayer) (*RecurrentNetwork, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: recurrent units must be positive", ErrBadArtifact)
	}
	if len(bias) != 4*units {
		return nil, fmt.Errorf("%w: lstm bias has %d values, want %d", ErrBadArtifact, len(bias), 4*units)
	}
	for i, row := range kernel {
		if len(row) != 4*units {
			return nil, fmt.Errorf("%w: lstm kernel row %d has %d values, want %d", ErrBadArtifact, i, len(row), 4*units)
		}
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("%w: recurrent network has no output head", ErrBadArtifact)
	}
	return &RecurrentNetwork{units: units, kernel: kernel, bias: bias, head: head}, nil
}

// InputRank reports the expected input rank.
func (n *RecurrentNetwork) InputRank() int { return 3 }

// Forward runs the cell over each batch row and feeds the hidden state
// through the dense head.
func (n *RecurrentNetwork) Forward(in Tensor) ([]float64, error) {
	if err := checkShape(in, -1, 1, len(n.kernel)); err != nil {
		return nil, err
	}
	batch, features := in.Shape[0], in.Shape[2]
	out := make([]float64, 0, batch)
	for b := 0; b < batch; b++ {
		row := in.Data[b*features : (b+1)*features]
		hidden := n.step(row)
		cur := hidden
		for _, l := range n.head {
			next, err := l.apply(cur)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		if len(cur) != 1 {
			return nil, fmt.Errorf("%w: head emits %d values, want 1", ErrShapeMismatch, len(cur))
		}
		out = append(out, cur[0])
	}
	return out, nil
}

// step runs one LSTM timestep with zero initial hidden and cell state.
func (n *RecurrentNetwork) step(x []float64) []float64 {
	gates := make([]float64, 4*n.units)
	copy(gates, n.bias)
	for i, v := range x {
		for j, w := range n.kernel[i] {
			gates[j] += v * w
		}
	}
	hidden := make([]float64, n.units)
	for u := 0; u < n.units; u++ {
		input := sigmoid(gates[u])
		cand := math.Tanh(gates[2*n.units+u])
		output := sigmoid(gates[3*n.units+u])
		// Cell state is input*cand since the previous cell state is zero;
		// the forget gate has nothing to forget on the first step.
		cell := input * cand
		hidden[u] = output * math.Tanh(cell)
	}
	return hidden
}
