package nn

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// Linear is a fully connected layer: y = x @ Wᵀ + b.
//
// The weight is stored as [out_features, in_features] and transposed in
// the forward pass. The bias is stored as [1, out_features] so it
// broadcasts over the batch dimension.
type Linear[B tensor.Backend] struct {
	weight *Parameter[B]
	bias   *Parameter[B]

	inFeatures  int
	outFeatures int
}

// NewLinear creates a fully connected layer with Xavier-initialized
// weights and zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, b B) *Linear[B] {
	weight := XavierUniform(tensor.Shape{outFeatures, inFeatures}, inFeatures, outFeatures, b)
	bias := tensor.Zeros[float32](tensor.Shape{1, outFeatures}, b)

	return &Linear[B]{
		weight:      NewParameter(fmt.Sprintf("linear_%dx%d.weight", outFeatures, inFeatures), weight),
		bias:        NewParameter(fmt.Sprintf("linear_%dx%d.bias", outFeatures, inFeatures), bias),
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
	}
}

// Forward computes y = x @ Wᵀ + b for input [batch_size, in_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.MatMul(l.weight.Tensor().T()).Add(l.bias.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// InFeatures returns the expected input width.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output width.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }
