// Package train runs the training loop: it drives batches through a model,
// computes the loss, backpropagates through the gradient tape, and applies
// optimizer updates, reporting per-epoch summaries as a lazy sequence.
package train

import (
	"fmt"
	"iter"
	"log"
	"time"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/dataset"
	"github.com/drift-ml/drift/internal/metrics"
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/optim"
	"github.com/drift-ml/drift/internal/tensor"
)

// Model is what the trainer needs from a network: a forward pass, the
// trainable parameters, and the expected flattened input width.
type Model[B tensor.Backend] interface {
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
	Parameters() []*nn.Parameter[B]
	InFeatures() int
}

// Loss reduces model output and integer labels to a scalar loss tensor.
type Loss[B tensor.Backend] interface {
	Forward(output *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error)
}

// Source supplies batches. Each call to Batches starts a fresh pass over
// the data.
type Source[B tensor.Backend] interface {
	Batches() iter.Seq[dataset.Batch[B]]
	NumBatches() int
}

// Epoch summarizes one full pass over the training data.
type Epoch struct {
	Index    int
	MeanLoss float64
	Batches  int
}

// Trainer owns one training run: model, loss, optimizer, and data source,
// all sharing an autodiff-capable backend.
type Trainer[B autodiff.Capable] struct {
	model     Model[B]
	loss      Loss[B]
	optimizer optim.Optimizer[B]
	source    Source[B]
	backend   B
	window    *metrics.Window
}

// New creates a trainer. All components are required.
func New[B autodiff.Capable](model Model[B], loss Loss[B], optimizer optim.Optimizer[B], source Source[B], backend B) (*Trainer[B], error) {
	if model == nil {
		return nil, fmt.Errorf("%w: model is required", ErrConfiguration)
	}
	if loss == nil {
		return nil, fmt.Errorf("%w: loss is required", ErrConfiguration)
	}
	if optimizer == nil {
		return nil, fmt.Errorf("%w: optimizer is required", ErrConfiguration)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: data source is required", ErrConfiguration)
	}
	if len(model.Parameters()) == 0 {
		return nil, fmt.Errorf("%w: model has no trainable parameters", ErrConfiguration)
	}

	return &Trainer[B]{
		model:     model,
		loss:      loss,
		optimizer: optimizer,
		source:    source,
		backend:   backend,
		window:    metrics.NewWindow(),
	}, nil
}

// Epochs returns a lazy sequence of numEpochs epoch summaries. Each epoch
// runs only when the consumer advances to it, so the caller can stop
// early by breaking out of the range. The sequence is consume-once:
// ranging over it a second time yields an error.
//
// A batch error stops the run; the failed batch applies no parameter
// update.
func (t *Trainer[B]) Epochs(numEpochs int) iter.Seq2[Epoch, error] {
	consumed := false
	return func(yield func(Epoch, error) bool) {
		if consumed {
			yield(Epoch{}, fmt.Errorf("%w: epoch sequence already consumed", ErrConfiguration))
			return
		}
		consumed = true

		if numEpochs <= 0 {
			yield(Epoch{}, fmt.Errorf("%w: epochs must be positive, got %d", ErrConfiguration, numEpochs))
			return
		}

		for epoch := 0; epoch < numEpochs; epoch++ {
			summary, err := t.runEpoch(epoch)
			if !yield(summary, err) || err != nil {
				return
			}
		}
	}
}

// Fit drains Epochs, logging a progress line after each epoch, and
// returns the per-epoch mean losses.
func (t *Trainer[B]) Fit(numEpochs int) ([]float64, error) {
	losses := make([]float64, 0, numEpochs)
	for epoch, err := range t.Epochs(numEpochs) {
		if err != nil {
			return losses, err
		}
		losses = append(losses, epoch.MeanLoss)

		snap := t.window.Snapshot()
		log.Printf("epoch=%d batches=%d loss=%.4f loss_std=%.4f images_per_sec=%.0f data_ms=%.1f compute_ms=%.1f",
			epoch.Index, epoch.Batches, snap.MeanLoss, snap.StdLoss, snap.ImagesPerSec, snap.AvgDataMS, snap.AvgComputeMS)
	}
	return losses, nil
}

func (t *Trainer[B]) runEpoch(index int) (Epoch, error) {
	var (
		totalLoss float64
		batches   int
	)

	prev := time.Now()
	for batch := range t.source.Batches() {
		dataTime := time.Since(prev)

		computeStart := time.Now()
		loss, err := t.step(batch)
		if err != nil {
			return Epoch{Index: index, Batches: batches}, fmt.Errorf("epoch %d batch %d: %w", index, batches, err)
		}

		totalLoss += loss
		batches++
		t.window.Record(batch.Size, dataTime, time.Since(computeStart), loss)
		prev = time.Now()
	}

	if batches == 0 {
		return Epoch{Index: index}, fmt.Errorf("%w: data source produced no batches", ErrConfiguration)
	}
	return Epoch{Index: index, MeanLoss: totalLoss / float64(batches), Batches: batches}, nil
}

// step runs one training step: validate, forward, backward, update.
// Validation failures return before anything is recorded on the tape, so
// parameters stay untouched.
func (t *Trainer[B]) step(batch dataset.Batch[B]) (float64, error) {
	inputs, err := t.flatten(batch.Inputs)
	if err != nil {
		return 0, err
	}

	tape := t.backend.Tape()
	tape.Clear()
	t.optimizer.ZeroGrad()

	tape.StartRecording()
	defer tape.StopRecording()

	output := t.model.Forward(inputs)
	loss, err := t.loss.Forward(output, batch.Labels)
	if err != nil {
		return 0, err
	}

	grads, err := autodiff.Backward(loss, t.backend)
	if err != nil {
		return 0, err
	}
	tape.StopRecording()

	for _, p := range t.model.Parameters() {
		if grad, ok := grads[p.Tensor().Raw()]; ok {
			p.SetGrad(grad)
		}
	}
	if err := t.optimizer.Step(grads); err != nil {
		return 0, err
	}

	return float64(loss.Item()), nil
}

// flatten reshapes batch inputs to [batch_size, width] and checks the
// width against the model. Runs outside recording; the input carries no
// gradient.
func (t *Trainer[B]) flatten(inputs *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	shape := inputs.Shape()
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: scalar input", ErrShapeMismatch)
	}

	batchSize := shape[0]
	width := inputs.NumElements() / batchSize
	if width != t.model.InFeatures() {
		return nil, fmt.Errorf("%w: input width %d, model expects %d", ErrShapeMismatch, width, t.model.InFeatures())
	}

	if len(shape) != 2 {
		return inputs.Reshape(batchSize, width), nil
	}
	return inputs, nil
}
