// Copyright 2026 Drift ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers, containers, and losses.
package nn

import (
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named trainable tensor with its gradient.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// SeedInit reseeds weight initialization for reproducible models.
func SeedInit(seed int64) { nn.SeedInit(seed) }

// Layers

// Linear is a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier initialization.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer := nn.NewLinear(784, 500, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// ReLU is the rectified linear unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// LogSoftmax is a row-wise log-softmax activation.
type LogSoftmax[B tensor.Backend] = nn.LogSoftmax[B]

// NewLogSoftmax creates a LogSoftmax activation module.
func NewLogSoftmax[B tensor.Backend]() *LogSoftmax[B] {
	return nn.NewLogSoftmax[B]()
}

// Containers

// Sequential chains modules, feeding each output into the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// MLP is a feed-forward classifier ending in LogSoftmax.
type MLP[B tensor.Backend] = nn.MLP[B]

// NewMLP creates a feed-forward network from layer sizes.
//
// Example:
//
//	model, err := nn.NewMLP(backend, 784, 500, 10)
func NewMLP[B tensor.Backend](backend B, sizes ...int) (*MLP[B], error) {
	return nn.NewMLP(backend, sizes...)
}

// Losses

// ErrLabelRange reports a target label outside [0, num_classes).
var ErrLabelRange = nn.ErrLabelRange

// NLLLoss is the mean negative log-likelihood loss over log-probabilities.
type NLLLoss[B tensor.Backend] = nn.NLLLoss[B]

// NewNLLLoss creates a negative log-likelihood loss.
func NewNLLLoss[B tensor.Backend]() *NLLLoss[B] {
	return nn.NewNLLLoss[B]()
}

// CrossEntropyLoss is the mean cross-entropy loss over raw logits.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewCrossEntropyLoss creates a cross-entropy loss.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss[B]()
}
