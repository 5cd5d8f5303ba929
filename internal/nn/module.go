// Package nn provides neural network building blocks: layers, activations,
// parameter containers, and loss functions. Modules compose into networks
// whose forward passes are recorded by an autodiff-capable backend.
package nn

import "github.com/drift-ml/drift/internal/tensor"

// Module is a neural network component with a forward pass and trainable
// parameters. Stateless modules such as activations return no parameters.
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the module's trainable parameters.
	Parameters() []*Parameter[B]
}
