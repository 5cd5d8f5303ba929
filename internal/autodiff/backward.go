package autodiff

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// Capable is a backend that carries a gradient tape. The training loop and
// loss modules are written against this interface so any backend wrapped
// by New satisfies it.
type Capable interface {
	tensor.Backend
	Tape() *Tape
}

// Backward computes gradients of a scalar loss with respect to every
// tensor that participated in recorded operations. It seeds the loss
// gradient with ones and walks the tape in reverse, returning a fresh
// gradient map keyed by raw tensor pointer.
func Backward[T tensor.DType, B Capable](loss *tensor.Tensor[T, B], backend B) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if loss.NumElements() != 1 {
		return nil, fmt.Errorf("backward: loss must be a scalar, got shape %v", loss.Shape())
	}
	return backend.Tape().Backward(loss.Raw(), backend)
}
