// Package dataset defines the batch type shared by data loaders, the
// training loop, and evaluation.
package dataset

import "github.com/drift-ml/drift/internal/tensor"

// Batch is one mini-batch of training or evaluation data. Inputs holds
// flattened feature rows [batch_size, num_features]; Labels holds the
// matching class indices [batch_size].
type Batch[B tensor.Backend] struct {
	Inputs *tensor.Tensor[float32, B]
	Labels *tensor.Tensor[int32, B]
	Size   int
}
