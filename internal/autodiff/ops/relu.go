package ops

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// ReLUOp represents a rectified linear unit activation: output = max(0, x).
//
// Backward: d(ReLU(x))/dx = 1 where x > 0, else 0. The gradient is the
// output gradient masked by the positive entries of the input.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward computes the input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad, err := tensor.NewRaw(op.input.Shape(), tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("relu backward: %v", err))
	}

	in := op.input.AsFloat32()
	g := outputGrad.AsFloat32()
	out := grad.AsFloat32()
	for i, v := range in {
		if v > 0 {
			out[i] = g[i]
		}
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// ReLUForward computes max(0, x) element-wise.
func ReLUForward(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("relu: %v", err))
	}

	in := x.AsFloat32()
	out := result.AsFloat32()
	for i, v := range in {
		if v > 0 {
			out[i] = v
		}
	}
	return result
}
