// Copyright 2026 Drift ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package infer runs trained models for prediction and evaluation with
// gradient recording suspended.
package infer

import (
	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/infer"
	"github.com/drift-ml/drift/internal/tensor"
	"github.com/drift-ml/drift/internal/train"
)

// ErrDimension reports model output whose class dimension does not match
// what the caller expects.
var ErrDimension = infer.ErrDimension

// Prediction is the model's answer for one input row.
type Prediction = infer.Prediction

// Predict runs the model on a batch of flattened inputs and returns one
// prediction per row.
func Predict[B autodiff.Capable](model train.Model[B], inputs *tensor.Tensor[float32, B], numClasses int, backend B) ([]Prediction, error) {
	return infer.Predict(model, inputs, numClasses, backend)
}

// Accuracy evaluates the model over every batch of a data source and
// returns the fraction of correctly classified examples.
func Accuracy[B autodiff.Capable](model train.Model[B], source train.Source[B], numClasses int, backend B) (float64, error) {
	return infer.Accuracy(model, source, numClasses, backend)
}
