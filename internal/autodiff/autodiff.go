// Package autodiff provides reverse-mode automatic differentiation as a
// decorator over any tensor backend. The wrapped backend performs the
// actual computation; the wrapper records each operation on a gradient
// tape so Backward can later compute gradients for every participating
// tensor.
package autodiff

import (
	"github.com/drift-ml/drift/internal/autodiff/ops"
	"github.com/drift-ml/drift/internal/tensor"
)

// Backend wraps a tensor backend with gradient tracking. All tensor
// operations delegate to the inner backend, then record themselves on the
// tape when recording is enabled.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *Tape
}

// New creates an autodiff backend wrapping the given inner backend.
func New[B tensor.Backend](inner B) *Backend[B] {
	return &Backend[B]{inner: inner, tape: NewTape()}
}

// Tape returns the gradient tape.
func (b *Backend[B]) Tape() *Tape { return b.tape }

// Inner returns the wrapped backend.
func (b *Backend[B]) Inner() B { return b.inner }

// Name returns the backend name.
func (b *Backend[B]) Name() string { return "Autodiff(" + b.inner.Name() + ")" }

// Add performs element-wise addition and records the operation.
func (b *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *Backend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// MulScalar multiplies by a constant and records the operation.
func (b *Backend[B]) MulScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	result := b.inner.MulScalar(x, s)
	b.tape.Record(ops.NewMulScalarOp(x, result, s))
	return result
}

// Reshape changes the tensor shape and records the operation.
func (b *Backend[B]) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(x, shape)
	b.tape.Record(ops.NewReshapeOp(x, result))
	return result
}

// Transpose permutes tensor axes and records the operation.
func (b *Backend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	result := b.inner.Transpose(x, axes...)
	if len(axes) == 0 {
		axes = defaultTransposeAxes(len(x.Shape()))
	}
	b.tape.Record(ops.NewTransposeOp(x, result, axes))
	return result
}

// ReLU applies max(0, x) element-wise and records the operation.
func (b *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := ops.ReLUForward(x)
	b.tape.Record(ops.NewReLUOp(x, result))
	return result
}

// LogSoftmax applies row-wise log-softmax to a 2D tensor and records the
// operation.
func (b *Backend[B]) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	result := ops.LogSoftmaxForward(x)
	b.tape.Record(ops.NewLogSoftmaxOp(x, result))
	return result
}

// NLL computes the mean negative log-likelihood of log-probabilities at
// the target class indices and records the operation.
func (b *Backend[B]) NLL(logProbs, targets *tensor.RawTensor) *tensor.RawTensor {
	result := ops.NLLForward(logProbs, targets)
	b.tape.Record(ops.NewNLLOp(logProbs, targets, result))
	return result
}

// CrossEntropy computes the mean cross-entropy of raw logits against the
// target class indices and records the operation.
func (b *Backend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	result := ops.CrossEntropyForward(logits, targets)
	b.tape.Record(ops.NewCrossEntropyOp(logits, targets, result))
	return result
}

// defaultTransposeAxes reverses all dimensions, matching the backend's
// behavior when Transpose is called without explicit axes.
func defaultTransposeAxes(ndim int) []int {
	axes := make([]int, ndim)
	for i := range axes {
		axes[i] = ndim - 1 - i
	}
	return axes
}
