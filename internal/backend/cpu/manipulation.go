package cpu

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// Reshape returns a tensor with the same data and a new shape.
// The number of elements must not change.
func (c *Backend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			x.Shape(), x.NumElements(), newShape, newShape.NumElements()))
	}

	result, err := tensor.NewRaw(newShape, x.DType())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	copy(result.Data(), x.Data())
	return result
}

// Transpose permutes the dimensions of a tensor.
// If axes is empty, all dimensions are reversed.
func (c *Backend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: got %d axes for %d dimensions", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for shape %v", axes, shape))
		}
		seen[ax] = true
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, x.DType())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	if x.DType() != tensor.Float32 {
		panic("transpose: only float32 tensors are supported")
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		rem := i
		srcIdx := 0
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * inStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}

	return result
}

// MulScalar multiplies every element by a scalar.
func (c *Backend) MulScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic("mulscalar: only float32 tensors are supported")
	}

	result, err := tensor.NewRaw(x.Shape(), tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("mulscalar: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	for i, v := range src {
		dst[i] = v * s
	}
	return result
}
