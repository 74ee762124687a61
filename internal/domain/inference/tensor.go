package inference

import "fmt"

// Tensor is a minimal dense row-major array. The prediction engine only
// ever builds rank-2 (batch x features) or rank-3 (batch x 1 x features)
// tensors, matching the two trained model architectures.
type Tensor struct {
	Shape []int
	Data  []float64
}

// Rank returns the number of axes.
func (t Tensor) Rank() int { return len(t.Shape) }

// row2 builds a single-row rank-2 tensor.
func row2(row []float64) Tensor {
	return Tensor{Shape: []int{1, len(row)}, Data: row}
}

// row3 builds a single-row rank-3 tensor with a singleton timestep axis.
func row3(row []float64) Tensor {
	return Tensor{Shape: []int{1, 1, len(row)}, Data: row}
}

// checkShape verifies the tensor has the expected shape.
func checkShape(t Tensor, want ...int) error {
	if len(t.Shape) != len(want) {
		return fmt.Errorf("%w: got rank %d, want %d", ErrShapeMismatch, len(t.Shape), len(want))
	}
	for i, dim := range want {
		if dim >= 0 && t.Shape[i] != dim {
			return fmt.Errorf("%w: axis %d is %d, want %d", ErrShapeMismatch, i, t.Shape[i], dim)
		}
	}
	return nil
}
