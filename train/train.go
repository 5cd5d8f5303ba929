// Copyright 2026 Drift ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs training loops over models, losses, optimizers, and
// data sources.
package train

import (
	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/optim"
	"github.com/drift-ml/drift/internal/tensor"
	"github.com/drift-ml/drift/internal/train"
)

// Sentinel errors.
var (
	ErrConfiguration = train.ErrConfiguration
	ErrShapeMismatch = train.ErrShapeMismatch
)

// Model is what the trainer needs from a network.
type Model[B tensor.Backend] = train.Model[B]

// Loss reduces model output and labels to a scalar loss tensor.
type Loss[B tensor.Backend] = train.Loss[B]

// Source supplies batches.
type Source[B tensor.Backend] = train.Source[B]

// Epoch summarizes one full pass over the training data.
type Epoch = train.Epoch

// Trainer owns one training run.
type Trainer[B autodiff.Capable] = train.Trainer[B]

// New creates a trainer.
//
// Example:
//
//	trainer, err := train.New(model, loss, opt, loader, backend)
//	losses, err := trainer.Fit(5)
func New[B autodiff.Capable](model Model[B], loss Loss[B], optimizer optim.Optimizer[B], source Source[B], backend B) (*Trainer[B], error) {
	return train.New(model, loss, optimizer, source, backend)
}
