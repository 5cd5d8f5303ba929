// Package ops defines the differentiable operations recorded by the gradient
// tape during the forward pass.
//
// Each operation stores its input and output tensors and knows how to turn
// the gradient of its output into gradients for its inputs (reverse-mode
// chain rule).
package ops

import "github.com/drift-ml/drift/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Operations are recorded during the forward pass and replayed in reverse
// during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input tensor, in the order of Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
