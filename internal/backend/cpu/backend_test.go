package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func TestAdd(t *testing.T) {
	backend := cpu.New()

	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	result := backend.Add(a, b)
	assert.Equal(t, []float32{11, 22, 33, 44}, result.AsFloat32())
}

func TestAdd_BroadcastBias(t *testing.T) {
	backend := cpu.New()

	// [2, 3] + [1, 3]: the bias row is added to every batch row.
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := backend.Add(x, bias)
	assert.Equal(t, tensor.Shape{2, 3}, result.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, result.AsFloat32())
}

func TestSubMulDiv(t *testing.T) {
	backend := cpu.New()

	a := fromSlice(t, []float32{6, 8, 10}, tensor.Shape{3})
	b := fromSlice(t, []float32{2, 4, 5}, tensor.Shape{3})

	assert.Equal(t, []float32{4, 4, 5}, backend.Sub(a, b).AsFloat32())
	assert.Equal(t, []float32{12, 32, 50}, backend.Mul(a, b).AsFloat32())
	assert.Equal(t, []float32{3, 2, 2}, backend.Div(a, b).AsFloat32())
}

func TestAdd_ShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()

	a := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	b := fromSlice(t, []float32{1, 2}, tensor.Shape{2})

	assert.Panics(t, func() { backend.Add(a, b) })
}

func TestMatMul(t *testing.T) {
	backend := cpu.New()

	// [2, 3] @ [3, 2]
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	assert.Equal(t, tensor.Shape{2, 2}, result.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, result.AsFloat32())
}

func TestMatMul_InnerDimMismatchPanics(t *testing.T) {
	backend := cpu.New()

	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	assert.Panics(t, func() { backend.MatMul(a, b) })
}

func TestMulScalar(t *testing.T) {
	backend := cpu.New()

	x := fromSlice(t, []float32{1, -2, 3}, tensor.Shape{3})
	assert.Equal(t, []float32{2, -4, 6}, backend.MulScalar(x, 2).AsFloat32())
}

func TestReshape(t *testing.T) {
	backend := cpu.New()

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	r := backend.Reshape(x, tensor.Shape{3, 2})
	assert.Equal(t, tensor.Shape{3, 2}, r.Shape())
	assert.Equal(t, x.AsFloat32(), r.AsFloat32())

	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{4, 2}) })
}

func TestTranspose2D(t *testing.T) {
	backend := cpu.New()

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	xt := backend.Transpose(x, 1, 0)
	assert.Equal(t, tensor.Shape{3, 2}, xt.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, xt.AsFloat32())

	// No axes reverses all dimensions.
	rev := backend.Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2}, rev.Shape())
	assert.Equal(t, xt.AsFloat32(), rev.AsFloat32())
}

func TestTranspose_InvalidAxesPanics(t *testing.T) {
	backend := cpu.New()

	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	assert.Panics(t, func() { backend.Transpose(x, 0, 0) })
	assert.Panics(t, func() { backend.Transpose(x, 0, 2) })
}

func TestName(t *testing.T) {
	assert.Equal(t, "CPU", cpu.New().Name())
}
