package nn

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// MLP is a feed-forward classifier: a chain of Linear layers with ReLU
// between them and a LogSoftmax after the last, so the output is
// per-class log-probabilities ready for a negative log-likelihood loss.
type MLP[B tensor.Backend] struct {
	net *Sequential[B]

	inFeatures  int
	outFeatures int
}

// NewMLP creates a feed-forward network from layer sizes. sizes[0] is the
// input width, sizes[len-1] the number of classes; everything between is
// a hidden layer. At least input and output sizes are required.
//
// NewMLP(backend, 784, 500, 10) builds 784 -> 500 -> ReLU -> 10 -> LogSoftmax.
func NewMLP[B tensor.Backend](b B, sizes ...int) (*MLP[B], error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("mlp: need at least input and output sizes, got %v", sizes)
	}
	for _, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("mlp: layer sizes must be positive, got %v", sizes)
		}
	}

	var modules []Module[B]
	for i := 0; i < len(sizes)-1; i++ {
		modules = append(modules, NewLinear[B](sizes[i], sizes[i+1], b))
		if i < len(sizes)-2 {
			modules = append(modules, NewReLU[B]())
		}
	}
	modules = append(modules, NewLogSoftmax[B]())

	return &MLP[B]{
		net:         NewSequential(modules...),
		inFeatures:  sizes[0],
		outFeatures: sizes[len(sizes)-1],
	}, nil
}

// Forward computes log-probabilities [batch_size, num_classes] for a
// flattened input [batch_size, in_features].
func (m *MLP[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return m.net.Forward(input)
}

// Parameters returns all layer parameters in order.
func (m *MLP[B]) Parameters() []*Parameter[B] { return m.net.Parameters() }

// InFeatures returns the expected flattened input width.
func (m *MLP[B]) InFeatures() int { return m.inFeatures }

// OutFeatures returns the number of output classes.
func (m *MLP[B]) OutFeatures() int { return m.outFeatures }
