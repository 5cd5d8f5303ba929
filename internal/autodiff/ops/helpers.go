package ops

import (
	"fmt"
	"math"

	"github.com/drift-ml/drift/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// Needed when broadcasting was used in the forward pass: gradients for a
// broadcast input are summed along the broadcast dimensions.
//
// Example:
//
//	Forward: bias[1, 4] + x[3, 4] -> y[3, 4]
//	Backward: grad_y[3, 4] -> grad_bias[1, 4] (sum along dim 0)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, _ tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone when shapes already match so accumulated gradients never alias.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Broadcasting aligns shapes from the right: sum away extra leading
	// dimensions first.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDimension(result, 0)
		result = dropLeadingDim(result)
	}

	// Then sum along dimensions where the target is 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] > 1 {
			result = sumAlongDimension(result, d)
		}
	}

	if !result.Shape().Equal(targetShape) {
		panic(fmt.Sprintf("reduceBroadcast: cannot reduce %v to %v", gradShape, targetShape))
	}

	return result
}

// sumAlongDimension sums a float32 tensor along dim, keeping the dimension
// with size 1.
func sumAlongDimension(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDimension: invalid dimension %d for shape %v", dim, shape))
	}

	outShape := shape.Clone()
	outShape[dim] = 1

	result, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("sumAlongDimension: %v", err))
	}

	src := t.AsFloat32()
	dst := result.AsFloat32()
	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i, v := range src {
		rem := i
		outIdx := 0
		for d := 0; d < len(shape); d++ {
			coord := rem / inStrides[d]
			rem %= inStrides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		dst[outIdx] += v
	}

	return result
}

// dropLeadingDim removes a leading dimension of size 1.
func dropLeadingDim(t *tensor.RawTensor) *tensor.RawTensor {
	shape := t.Shape()
	if len(shape) == 0 || shape[0] != 1 {
		panic(fmt.Sprintf("dropLeadingDim: shape %v has no leading size-1 dimension", shape))
	}

	result, err := tensor.NewRaw(shape[1:].Clone(), t.DType())
	if err != nil {
		panic(fmt.Sprintf("dropLeadingDim: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}

// logSoftmaxRow computes log(softmax(z)) for one row using the log-sum-exp
// trick: log_softmax(z) = z - (max(z) + log(sum(exp(z - max(z))))).
func logSoftmaxRow(z, out []float32) {
	maxVal := z[0]
	for _, v := range z[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	sumExp := 0.0
	for _, v := range z {
		sumExp += math.Exp(float64(v - maxVal))
	}
	logSumExp := float64(maxVal) + math.Log(sumExp)

	for i, v := range z {
		out[i] = v - float32(logSumExp)
	}
}

// softmaxRow computes softmax(z) for one row with max-shifting for
// numerical stability.
func softmaxRow(z, out []float32) {
	maxVal := z[0]
	for _, v := range z[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	sumExp := float32(0)
	for i, v := range z {
		out[i] = float32(math.Exp(float64(v - maxVal)))
		sumExp += out[i]
	}
	for i := range out {
		out[i] /= sumExp
	}
}
