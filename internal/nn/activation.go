package nn

import "github.com/drift-ml/drift/internal/tensor"

// reluBackend and logSoftmaxBackend are the backend capabilities the
// activation modules need beyond the core tensor operations. The autodiff
// wrapper provides both.
type reluBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
}

type logSoftmaxBackend interface {
	LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies max(0, x) element-wise. It has no parameters.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies the activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	rb, ok := any(backend).(reluBackend)
	if !ok {
		panic("relu: backend does not support ReLU")
	}
	return tensor.New[float32](rb.ReLU(input.Raw()), backend)
}

// Parameters returns nil; ReLU has no trainable state.
func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// LogSoftmax applies a row-wise log-softmax over the last dimension of a
// 2D input. It has no parameters.
type LogSoftmax[B tensor.Backend] struct{}

// NewLogSoftmax creates a LogSoftmax activation module.
func NewLogSoftmax[B tensor.Backend]() *LogSoftmax[B] {
	return &LogSoftmax[B]{}
}

// Forward applies the activation.
func (s *LogSoftmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	sb, ok := any(backend).(logSoftmaxBackend)
	if !ok {
		panic("logsoftmax: backend does not support LogSoftmax")
	}
	return tensor.New[float32](sb.LogSoftmax(input.Raw()), backend)
}

// Parameters returns nil; LogSoftmax has no trainable state.
func (s *LogSoftmax[B]) Parameters() []*Parameter[B] { return nil }
