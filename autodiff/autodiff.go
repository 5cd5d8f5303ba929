// Copyright 2026 Drift ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend with a gradient tape that records operations
// during the forward pass, then replays them in reverse to compute
// gradients.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//
//	backend.Tape().StartRecording()
//	y := x.MatMul(w).Add(b)
//	grads, err := autodiff.Backward(loss, backend)
package autodiff

import (
	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/tensor"
)

// Backend is the autodiff-enabled backend wrapping an inner backend B.
type Backend[B tensor.Backend] = autodiff.Backend[B]

// New creates an autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// Tape records operations for automatic differentiation.
type Tape = autodiff.Tape

// NewTape creates a new gradient tape.
func NewTape() *Tape {
	return autodiff.NewTape()
}

// Capable is a backend that carries a gradient tape.
type Capable = autodiff.Capable

// Backward computes gradients of a scalar loss for every tensor that
// participated in recorded operations.
func Backward[T tensor.DType, B Capable](t *tensor.Tensor[T, B], backend B) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	return autodiff.Backward(t, backend)
}
