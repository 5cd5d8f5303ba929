package nn

import (
	"errors"
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// ErrLabelRange reports a target label outside [0, num_classes). The check
// runs before any loss computation, so a failed batch records nothing on
// the tape and leaves parameters untouched.
var ErrLabelRange = errors.New("label out of range")

type nllBackend interface {
	NLL(logProbs, targets *tensor.RawTensor) *tensor.RawTensor
}

type crossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// NLLLoss computes the mean negative log-likelihood of log-probabilities
// against integer class labels. Pair it with a model ending in LogSoftmax.
type NLLLoss[B tensor.Backend] struct{}

// NewNLLLoss creates a negative log-likelihood loss.
func NewNLLLoss[B tensor.Backend]() *NLLLoss[B] {
	return &NLLLoss[B]{}
}

// Forward computes the scalar loss for log-probabilities
// [batch_size, num_classes] and labels [batch_size].
func (l *NLLLoss[B]) Forward(output *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	if err := validateTargets(output, targets); err != nil {
		return nil, err
	}

	backend := output.Backend()
	nb, ok := any(backend).(nllBackend)
	if !ok {
		return nil, fmt.Errorf("nll loss: backend does not support NLL")
	}
	return tensor.New[float32](nb.NLL(output.Raw(), targets.Raw()), backend), nil
}

// CrossEntropyLoss computes the mean cross-entropy of raw logits against
// integer class labels, fusing log-softmax and negative log-likelihood.
// Pair it with a model that does NOT end in LogSoftmax.
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a cross-entropy loss.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{}
}

// Forward computes the scalar loss for logits [batch_size, num_classes]
// and labels [batch_size].
func (l *CrossEntropyLoss[B]) Forward(output *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	if err := validateTargets(output, targets); err != nil {
		return nil, err
	}

	backend := output.Backend()
	cb, ok := any(backend).(crossEntropyBackend)
	if !ok {
		return nil, fmt.Errorf("cross entropy loss: backend does not support CrossEntropy")
	}
	return tensor.New[float32](cb.CrossEntropy(output.Raw(), targets.Raw()), backend), nil
}

// validateTargets checks output/target shape agreement and that every
// label lies in [0, num_classes) before the backend is invoked.
func validateTargets[B tensor.Backend](output *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) error {
	shape := output.Shape()
	if len(shape) != 2 {
		return fmt.Errorf("loss: expected 2D output [batch, classes], got %v", shape)
	}
	batchSize, numClasses := shape[0], shape[1]
	if targets.NumElements() != batchSize {
		return fmt.Errorf("loss: %d labels for batch of %d", targets.NumElements(), batchSize)
	}

	for i, label := range targets.Data() {
		if label < 0 || int(label) >= numClasses {
			return fmt.Errorf("%w: label %d at index %d, want [0, %d)", ErrLabelRange, label, i, numClasses)
		}
	}
	return nil
}
