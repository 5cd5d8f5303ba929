package ops

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// CrossEntropyOp represents the cross-entropy loss over raw logits
// [batch_size, num_classes] and class indices [batch_size], reduced to a
// scalar by averaging. It fuses log-softmax and negative log-likelihood.
//
// Backward uses the fused analytic gradient:
//
//	∂loss/∂logits[b, i] = gradScale * (softmax(logits)[b, i] - onehot[b, i]) / B
type CrossEntropyOp struct {
	logits  *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewCrossEntropyOp creates a new CrossEntropyOp.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Backward computes the gradient with respect to the logits.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logits.Shape()
	batchSize, numClasses := shape[0], shape[1]

	grad, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("cross entropy backward: %v", err))
	}

	gradScale := outputGrad.AsFloat32()[0]
	logits := op.logits.AsFloat32()
	targets := op.targets.AsInt32()
	out := grad.AsFloat32()

	scale := gradScale / float32(batchSize)
	for b := 0; b < batchSize; b++ {
		row := b * numClasses
		softmaxRow(logits[row:row+numClasses], out[row:row+numClasses])
		for i := 0; i < numClasses; i++ {
			if int32(i) == targets[b] {
				out[row+i] = (out[row+i] - 1) * scale
			} else {
				out[row+i] *= scale
			}
		}
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the logits tensor. Targets are indices, not a
// differentiable input.
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.logits} }

// Output returns the scalar loss tensor.
func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.output }

// CrossEntropyForward computes the mean cross-entropy of raw logits
// [batch_size, num_classes] against target class indices [batch_size].
// Targets must already be validated to lie in [0, num_classes).
func CrossEntropyForward(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("cross entropy: expected 2D logits [batch, classes], got %v", shape))
	}
	batchSize, numClasses := shape[0], shape[1]
	if targets.Shape().NumElements() != batchSize {
		panic(fmt.Sprintf("cross entropy: %d targets for batch of %d", targets.Shape().NumElements(), batchSize))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("cross entropy: %v", err))
	}

	z := logits.AsFloat32()
	t := targets.AsInt32()

	sum := float64(0)
	row := make([]float32, numClasses)
	for b := 0; b < batchSize; b++ {
		logSoftmaxRow(z[b*numClasses:(b+1)*numClasses], row)
		sum -= float64(row[t[b]])
	}
	result.AsFloat32()[0] = float32(sum / float64(batchSize))
	return result
}
