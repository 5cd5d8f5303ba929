package ops

import (
	"fmt"
	"math"

	"github.com/drift-ml/drift/internal/tensor"
)

// LogSoftmaxOp represents a log-softmax over the last dimension of a 2D
// tensor [batch_size, num_classes].
//
// Forward (per row, with the log-sum-exp trick):
//
//	y_i = x_i - (max(x) + log(Σ_j exp(x_j - max(x))))
//
// Backward (per row):
//
//	∂L/∂x_j = g_j - exp(y_j) * Σ_i g_i
//
// where g is the output gradient and exp(y) is the softmax of x, recovered
// from the cached forward output.
type LogSoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor // Cached log-probabilities for backward
}

// NewLogSoftmaxOp creates a new LogSoftmaxOp.
func NewLogSoftmaxOp(input, output *tensor.RawTensor) *LogSoftmaxOp {
	return &LogSoftmaxOp{input: input, output: output}
}

// Backward computes the input gradient for log-softmax.
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()
	batchSize, numClasses := shape[0], shape[1]

	grad, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("logsoftmax backward: %v", err))
	}

	logProbs := op.output.AsFloat32()
	g := outputGrad.AsFloat32()
	out := grad.AsFloat32()

	for b := 0; b < batchSize; b++ {
		row := b * numClasses

		gradSum := float32(0)
		for i := 0; i < numClasses; i++ {
			gradSum += g[row+i]
		}

		for i := 0; i < numClasses; i++ {
			softmax := float32(math.Exp(float64(logProbs[row+i])))
			out[row+i] = g[row+i] - softmax*gradSum
		}
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor [x].
func (op *LogSoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the log-probability tensor.
func (op *LogSoftmaxOp) Output() *tensor.RawTensor { return op.output }

// LogSoftmaxForward computes row-wise log-softmax for a 2D tensor
// [batch_size, num_classes].
func LogSoftmaxForward(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("logsoftmax: expected 2D input [batch, classes], got %v", shape))
	}
	batchSize, numClasses := shape[0], shape[1]

	result, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("logsoftmax: %v", err))
	}

	in := x.AsFloat32()
	out := result.AsFloat32()
	for b := 0; b < batchSize; b++ {
		row := b * numClasses
		logSoftmaxRow(in[row:row+numClasses], out[row:row+numClasses])
	}
	return result
}
