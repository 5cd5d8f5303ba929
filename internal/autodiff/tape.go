package autodiff

import (
	"fmt"

	"github.com/drift-ml/drift/internal/autodiff/ops"
	"github.com/drift-ml/drift/internal/tensor"
)

// Tape records operations during the forward pass so Backward can replay
// them in reverse to compute gradients.
//
// Recording is scoped, never ambient: a tape only records between
// StartRecording and StopRecording, and WithoutRecording temporarily
// suspends it for evaluation code that must not grow the tape. There is
// no process-wide mode to flip.
//
// Gradients are keyed by *RawTensor pointer identity, so tensors that
// participate in recorded operations must not have their buffers recycled
// before Backward runs.
type Tape struct {
	operations []ops.Operation
	recording  bool
}

// NewTape creates a new gradient tape. The tape starts out not recording.
func NewTape() *Tape {
	return &Tape{}
}

// StartRecording enables operation recording.
func (t *Tape) StartRecording() { t.recording = true }

// StopRecording disables operation recording.
func (t *Tape) StopRecording() { t.recording = false }

// IsRecording reports whether operations are currently being recorded.
func (t *Tape) IsRecording() bool { return t.recording }

// WithoutRecording runs fn with recording suspended, restoring the previous
// recording state afterwards even if fn panics.
func (t *Tape) WithoutRecording(fn func()) {
	prev := t.recording
	t.recording = false
	defer func() { t.recording = prev }()
	fn()
}

// Record appends an operation to the tape if recording is enabled.
func (t *Tape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear removes all recorded operations. Call it at the start of each
// training step so every step differentiates only its own forward pass.
func (t *Tape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *Tape) NumOps() int { return len(t.operations) }

// Backward walks the tape in reverse from loss, accumulating gradients for
// every tensor that participated in a recorded operation. It returns a
// fresh gradient map on every call; gradients are never carried over from
// a previous pass.
//
// Recording is suspended during the walk so the backward ops themselves
// are not taped.
func (t *Tape) Backward(loss *tensor.RawTensor, backend tensor.Backend) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if len(t.operations) == 0 {
		return nil, fmt.Errorf("backward: no operations recorded")
	}

	seed, err := onesLike(loss)
	if err != nil {
		return nil, fmt.Errorf("backward: %w", err)
	}

	grads := map[*tensor.RawTensor]*tensor.RawTensor{loss: seed}

	prev := t.recording
	t.recording = false
	defer func() { t.recording = prev }()

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]

		outputGrad, ok := grads[op.Output()]
		if !ok {
			// This operation's output did not contribute to the loss.
			continue
		}

		inputGrads := op.Backward(outputGrad, backend)
		for j, input := range op.Inputs() {
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads, nil
}

func onesLike(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	result, err := tensor.NewRaw(x.Shape(), tensor.Float32)
	if err != nil {
		return nil, err
	}
	data := result.AsFloat32()
	for i := range data {
		data[i] = 1
	}
	return result, nil
}
