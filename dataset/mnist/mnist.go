// Copyright 2026 Drift ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mnist loads the MNIST handwritten digit dataset and batches it
// for training and evaluation.
package mnist

import (
	"github.com/drift-ml/drift/internal/dataset"
	"github.com/drift-ml/drift/internal/dataset/mnist"
	"github.com/drift-ml/drift/internal/tensor"
)

// Standard MNIST dimensions.
const (
	ImageSize  = mnist.ImageSize
	NumClasses = mnist.NumClasses
)

// Data holds a loaded split: normalized pixel rows and matching labels.
type Data = mnist.Data

// Batch is one mini-batch of examples.
type Batch[B tensor.Backend] = dataset.Batch[B]

// Load reads an MNIST split ("train" or "test") from IDX files in dir.
// limit > 0 caps the number of examples.
func Load(dir, split string, limit int) (*Data, error) {
	return mnist.Load(dir, split, limit)
}

// LoadCSV reads Kaggle-style MNIST CSV with the label in the first column.
func LoadCSV(path string, limit int) (*Data, error) {
	return mnist.LoadCSV(path, limit)
}

// Synthetic generates n random examples with the standard MNIST shape.
func Synthetic(n int, seed int64) *Data {
	return mnist.Synthetic(n, seed)
}

// Loader batches a dataset, reshuffling each pass when enabled.
type Loader[B tensor.Backend] = mnist.Loader[B]

// NewLoader creates a loader over data with the given batch size.
//
// Example:
//
//	loader, err := mnist.NewLoader(data, backend, 64, true, 42)
//	for batch := range loader.Batches() { ... }
func NewLoader[B tensor.Backend](data *Data, backend B, batchSize int, shuffle bool, seed int64) (*Loader[B], error) {
	return mnist.NewLoader(data, backend, batchSize, shuffle, seed)
}
