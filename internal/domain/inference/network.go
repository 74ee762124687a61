package inference

import (
	"fmt"
	"math"
)

// Network is an opaque trained model: tensor in, one scalar out per batch
// row. InputRank declares the shape the network expects so the engine can
// dispatch between the dense (rank 2) and recurrent (rank 3) architectures.
type Network interface {
	InputRank() int
	Forward(in Tensor) ([]float64, error)
}

// DenseLayer is one fully-connected layer: out = act(W*x + b).
// Weights are stored input-major: weights[i][j] connects input i to unit j.
type DenseLayer struct {
	Weights    [][]float64
	Bias       []float64
	Activation string
}

func (l DenseLayer) apply(in []float64) ([]float64, error) {
	if len(l.Weights) != len(in) {
		return nil, fmt.Errorf("%w: layer expects %d inputs, got %d", ErrShapeMismatch, len(l.Weights), len(in))
	}
	out := make([]float64, len(l.Bias))
	copy(out, l.Bias)
	for i, row := range l.Weights {
		if len(row) != len(out) {
			return nil, fmt.Errorf("%w: weight row %d has %d units, bias has %d", ErrShapeMismatch, i, len(row), len(out))
		}
		for j, w := range row {
			out[j] += in[i] * w
		}
	}
	return activate(out, l.Activation)
}

func activate(v []float64, name string) ([]float64, error) {
	switch name {
	case "", "linear":
		return v, nil
	case "relu":
		for i, x := range v {
			if x < 0 {
				v[i] = 0
			}
		}
		return v, nil
	case "tanh":
		for i, x := range v {
			v[i] = math.Tanh(x)
		}
		return v, nil
	case "sigmoid":
		for i, x := range v {
			v[i] = sigmoid(x)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unknown activation %q", ErrBadArtifact, name)
	}
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// DenseNetwork is the feed-forward architecture. It expects rank-2 input
// (batch x features).
type DenseNetwork struct {
	layers []DenseLayer
}

// NewDenseNetwork builds a dense network from its layer stack.
func NewDenseNetwork(layers []DenseLayer) (*DenseNetwork, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: dense network has no layers", ErrBadArtifact)
	}
	return &DenseNetwork{layers: layers}, nil
}

// InputRank reports the expected input rank.
func (n *DenseNetwork) InputRank() int { return 2 }

// Forward runs the layer stack over each batch row.
func (n *DenseNetwork) Forward(in Tensor) ([]float64, error) {
	if err := checkShape(in, -1, len(n.layers[0].Weights)); err != nil {
		return nil, err
	}
	batch, features := in.Shape[0], in.Shape[1]
	out := make([]float64, 0, batch)
	for b := 0; b < batch; b++ {
		row := in.Data[b*features : (b+1)*features]
		y, err := n.forwardRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, nil
}

func (n *DenseNetwork) forwardRow(row []float64) (float64, error) {
	cur := row
	for _, l := range n.layers {
		next, err := l.apply(cur)
		if err != nil {
			return 0, err
		}
		cur = next
	}
	if len(cur) != 1 {
		return 0, fmt.Errorf("%w: final layer emits %d values, want 1", ErrShapeMismatch, len(cur))
	}
	return cur[0], nil
}
