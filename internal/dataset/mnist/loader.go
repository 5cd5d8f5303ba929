package mnist

import (
	"fmt"
	"iter"
	"math/rand"

	"github.com/drift-ml/drift/internal/dataset"
	"github.com/drift-ml/drift/internal/tensor"
)

// Loader batches a dataset for training or evaluation. When shuffling is
// enabled, each call to Batches reshuffles the example order using the
// loader's seeded source, so epochs see different orders but a fixed seed
// reproduces the whole run.
type Loader[B tensor.Backend] struct {
	data      *Data
	backend   B
	batchSize int
	shuffle   bool
	rng       *rand.Rand
	width     int
}

// NewLoader creates a loader over data with the given batch size.
func NewLoader[B tensor.Backend](data *Data, backend B, batchSize int, shuffle bool, seed int64) (*Loader[B], error) {
	if data.NumSamples() == 0 {
		return nil, fmt.Errorf("loader: empty dataset")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("loader: batch size must be positive, got %d", batchSize)
	}

	return &Loader[B]{
		data:      data,
		backend:   backend,
		batchSize: batchSize,
		shuffle:   shuffle,
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // G404: reproducible shuffling
		width:     len(data.Images[0]),
	}, nil
}

// NumSamples returns the number of examples in the underlying dataset.
func (l *Loader[B]) NumSamples() int { return l.data.NumSamples() }

// NumBatches returns the number of batches per pass, counting a partial
// final batch.
func (l *Loader[B]) NumBatches() int {
	return (l.data.NumSamples() + l.batchSize - 1) / l.batchSize
}

// Width returns the flattened feature width of each example.
func (l *Loader[B]) Width() int { return l.width }

// Batches returns one pass over the dataset as a sequence of batches. The
// final batch may be smaller than the configured batch size. The sequence
// can be ranged over multiple times; each pass reshuffles when shuffling
// is enabled.
func (l *Loader[B]) Batches() iter.Seq[dataset.Batch[B]] {
	return func(yield func(dataset.Batch[B]) bool) {
		n := l.data.NumSamples()
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		if l.shuffle {
			l.rng.Shuffle(n, func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		for start := 0; start < n; start += l.batchSize {
			end := min(start+l.batchSize, n)
			if !yield(l.makeBatch(order[start:end])) {
				return
			}
		}
	}
}

func (l *Loader[B]) makeBatch(indices []int) dataset.Batch[B] {
	size := len(indices)

	inputs := tensor.Zeros[float32](tensor.Shape{size, l.width}, l.backend)
	labels := tensor.Zeros[int32](tensor.Shape{size}, l.backend)

	inData := inputs.Data()
	labelData := labels.Data()
	for i, idx := range indices {
		copy(inData[i*l.width:(i+1)*l.width], l.data.Images[idx])
		labelData[i] = l.data.Labels[idx]
	}

	return dataset.Batch[B]{Inputs: inputs, Labels: labels, Size: size}
}
