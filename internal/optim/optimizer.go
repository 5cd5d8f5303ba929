// Package optim provides gradient-descent optimizers that update model
// parameters in place from the gradients of a backward pass.
package optim

import (
	"errors"
	"fmt"

	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
)

// ErrConfig reports an invalid optimizer configuration, such as a
// non-positive learning rate.
var ErrConfig = errors.New("invalid optimizer configuration")

// Optimizer updates parameters from the gradients of a backward pass.
type Optimizer[B tensor.Backend] interface {
	// Step applies one update using the gradients in grads, keyed by the
	// parameter's raw tensor. Parameters without a gradient are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error

	// ZeroGrad discards stored gradients on all managed parameters.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float32
}

// gradientFor looks up a parameter's gradient in the backward result and
// checks the shape matches before the update touches any data.
func gradientFor[B tensor.Backend](p *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) ([]float32, error) {
	grad, ok := grads[p.Tensor().Raw()]
	if !ok {
		return nil, nil
	}
	if !grad.Shape().Equal(p.Tensor().Shape()) {
		return nil, fmt.Errorf("optimizer: gradient shape %v does not match parameter %q shape %v",
			grad.Shape(), p.Name(), p.Tensor().Shape())
	}
	return grad.AsFloat32(), nil
}
