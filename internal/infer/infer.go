// Package infer runs trained models for prediction and evaluation. All
// forward passes run with gradient recording suspended, so inference
// never grows the tape or disturbs training state.
package infer

import (
	"errors"
	"fmt"
	"math"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/tensor"
	"github.com/drift-ml/drift/internal/train"
)

// ErrDimension reports model output whose class dimension does not match
// what the caller expects.
var ErrDimension = errors.New("class dimension mismatch")

// Prediction is the model's answer for one input row.
type Prediction struct {
	// Class is the argmax class index.
	Class int

	// Probs holds the per-class probabilities, summing to 1.
	Probs []float32
}

// Predict runs the model on a batch of flattened inputs and returns one
// prediction per row. The model is expected to output log-probabilities;
// Predict exponentiates them. numClasses guards the output width.
func Predict[B autodiff.Capable](model train.Model[B], inputs *tensor.Tensor[float32, B], numClasses int, backend B) ([]Prediction, error) {
	shape := inputs.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("predict: expected 2D input [batch, features], got %v", shape)
	}
	if shape[1] != model.InFeatures() {
		return nil, fmt.Errorf("%w: input width %d, model expects %d", train.ErrShapeMismatch, shape[1], model.InFeatures())
	}

	var output *tensor.Tensor[float32, B]
	backend.Tape().WithoutRecording(func() {
		output = model.Forward(inputs)
	})

	outShape := output.Shape()
	if len(outShape) != 2 || outShape[1] != numClasses {
		return nil, fmt.Errorf("%w: model output %v, want [%d, %d]", ErrDimension, outShape, shape[0], numClasses)
	}

	logProbs := output.Data()
	preds := make([]Prediction, outShape[0])
	for b := range preds {
		row := logProbs[b*numClasses : (b+1)*numClasses]

		probs := make([]float32, numClasses)
		best := 0
		for i, lp := range row {
			probs[i] = float32(math.Exp(float64(lp)))
			if lp > row[best] {
				best = i
			}
		}
		preds[b] = Prediction{Class: best, Probs: probs}
	}
	return preds, nil
}

// Accuracy evaluates the model over every batch of a data source and
// returns the fraction of correctly classified examples.
func Accuracy[B autodiff.Capable](model train.Model[B], source train.Source[B], numClasses int, backend B) (float64, error) {
	var correct, total int
	for batch := range source.Batches() {
		preds, err := Predict(model, batch.Inputs, numClasses, backend)
		if err != nil {
			return 0, err
		}

		labels := batch.Labels.Data()
		for i, p := range preds {
			if int32(p.Class) == labels[i] {
				correct++
			}
		}
		total += batch.Size
	}

	if total == 0 {
		return 0, fmt.Errorf("accuracy: data source produced no batches")
	}
	return float64(correct) / float64(total), nil
}
