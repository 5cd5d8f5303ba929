package ops

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// NLLOp represents the negative log-likelihood loss over a batch of
// log-probabilities [batch_size, num_classes] and class indices
// [batch_size], reduced to a scalar by averaging.
//
// Forward:
//
//	loss = -1/B * Σ_b logProbs[b, targets[b]]
//
// Backward:
//
//	∂loss/∂logProbs[b, i] = -gradScale/B  if i == targets[b], else 0
type NLLOp struct {
	logProbs *tensor.RawTensor
	targets  *tensor.RawTensor
	output   *tensor.RawTensor
}

// NewNLLOp creates a new NLLOp.
func NewNLLOp(logProbs, targets, output *tensor.RawTensor) *NLLOp {
	return &NLLOp{logProbs: logProbs, targets: targets, output: output}
}

// Backward computes the gradient with respect to the log-probabilities.
// The targets are class indices and receive no gradient.
func (op *NLLOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logProbs.Shape()
	batchSize, numClasses := shape[0], shape[1]

	grad, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("nll backward: %v", err))
	}

	gradScale := outputGrad.AsFloat32()[0]
	targets := op.targets.AsInt32()
	out := grad.AsFloat32()

	scale := -gradScale / float32(batchSize)
	for b := 0; b < batchSize; b++ {
		out[b*numClasses+int(targets[b])] = scale
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the log-probability tensor. Targets are indices, not a
// differentiable input.
func (op *NLLOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.logProbs} }

// Output returns the scalar loss tensor.
func (op *NLLOp) Output() *tensor.RawTensor { return op.output }

// NLLForward computes the mean negative log-likelihood of log-probabilities
// [batch_size, num_classes] at the target class indices [batch_size].
// Targets must already be validated to lie in [0, num_classes).
func NLLForward(logProbs, targets *tensor.RawTensor) *tensor.RawTensor {
	shape := logProbs.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("nll: expected 2D log-probs [batch, classes], got %v", shape))
	}
	batchSize, numClasses := shape[0], shape[1]
	if targets.Shape().NumElements() != batchSize {
		panic(fmt.Sprintf("nll: %d targets for batch of %d", targets.Shape().NumElements(), batchSize))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("nll: %v", err))
	}

	lp := logProbs.AsFloat32()
	t := targets.AsInt32()

	sum := float32(0)
	for b := 0; b < batchSize; b++ {
		sum -= lp[b*numClasses+int(t[b])]
	}
	result.AsFloat32()[0] = sum / float32(batchSize)
	return result
}
