package nn

import "github.com/drift-ml/drift/internal/tensor"

// Parameter is a named trainable tensor together with its most recent
// gradient. The gradient is nil until SetGrad is called after a backward
// pass, and goes back to nil on ZeroGrad; gradients never accumulate
// across steps.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.RawTensor
}

// NewParameter creates a named parameter wrapping the given tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter's name.
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the parameter's value tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }

// Grad returns the gradient from the most recent backward pass, or nil if
// no gradient has been set.
func (p *Parameter[B]) Grad() *tensor.RawTensor { return p.grad }

// SetGrad stores the gradient for this parameter.
func (p *Parameter[B]) SetGrad(grad *tensor.RawTensor) { p.grad = grad }

// ZeroGrad discards the stored gradient.
func (p *Parameter[B]) ZeroGrad() { p.grad = nil }
