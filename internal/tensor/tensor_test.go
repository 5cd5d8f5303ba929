package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/tensor"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 24, tensor.Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, tensor.Shape{1}.NumElements())
	assert.Equal(t, 1, tensor.Shape{}.NumElements())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, tensor.Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, tensor.Shape{5}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	shape, broadcast, err := tensor.BroadcastShapes(tensor.Shape{4, 10}, tensor.Shape{1, 10})
	require.NoError(t, err)
	assert.True(t, broadcast)
	assert.Equal(t, tensor.Shape{4, 10}, shape)

	shape, broadcast, err = tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{2, 3})
	require.NoError(t, err)
	assert.False(t, broadcast)
	assert.Equal(t, tensor.Shape{2, 3}, shape)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{2, 4})
	assert.Error(t, err)
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, float32(6), x.At(1, 2))

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{2, 3}, backend)
	assert.Error(t, err)
}

func TestZerosOnesFull(t *testing.T) {
	backend := cpu.New()

	z := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	for _, v := range z.Data() {
		assert.Equal(t, float32(0), v)
	}

	o := tensor.Ones[int32](tensor.Shape{3}, backend)
	for _, v := range o.Data() {
		assert.Equal(t, int32(1), v)
	}

	f := tensor.Full[float32](tensor.Shape{2}, 3.5, backend)
	assert.Equal(t, []float32{3.5, 3.5}, f.Data())
}

func TestRand_Range(t *testing.T) {
	backend := cpu.New()

	r := tensor.Rand(tensor.Shape{100}, backend)
	for _, v := range r.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}
}

func TestItem(t *testing.T) {
	backend := cpu.New()

	s, err := tensor.FromSlice([]float32{7.5}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	assert.Equal(t, float32(7.5), s.Item())

	assert.Panics(t, func() {
		tensor.Zeros[float32](tensor.Shape{2}, backend).Item()
	})
}

func TestSetAt(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	x.Set(9, 1, 2)
	assert.Equal(t, float32(9), x.At(1, 2))
	assert.Equal(t, float32(0), x.At(0, 0))

	assert.Panics(t, func() { x.At(2, 0) })
}

func TestClone_Independent(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	y := x.Clone()
	y.Data()[0] = 99
	assert.Equal(t, float32(1), x.Data()[0])
	assert.Equal(t, float32(99), y.Data()[0])
}

func TestNewRaw_InvalidShape(t *testing.T) {
	_, err := tensor.NewRaw(tensor.Shape{2, -1}, tensor.Float32)
	assert.Error(t, err)
}
