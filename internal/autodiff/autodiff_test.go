package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/tensor"
)

type cpuAutodiff = *autodiff.Backend[*cpu.Backend]

func newBackend() cpuAutodiff {
	return autodiff.New(cpu.New())
}

func TestTape_RecordsOnlyWhileRecording(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()

	x, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	x.Add(x)
	assert.Equal(t, 0, tape.NumOps())

	tape.StartRecording()
	x.Add(x)
	assert.Equal(t, 1, tape.NumOps())

	tape.StopRecording()
	x.Add(x)
	assert.Equal(t, 1, tape.NumOps())
}

func TestTape_WithoutRecordingRestoresState(t *testing.T) {
	tape := autodiff.NewTape()
	tape.StartRecording()

	tape.WithoutRecording(func() {
		assert.False(t, tape.IsRecording())
	})
	assert.True(t, tape.IsRecording())

	// The previous state is restored even when fn panics.
	assert.Panics(t, func() {
		tape.WithoutRecording(func() { panic("boom") })
	})
	assert.True(t, tape.IsRecording())

	tape.StopRecording()
	tape.WithoutRecording(func() {
		assert.False(t, tape.IsRecording())
	})
	assert.False(t, tape.IsRecording())
}

func TestTape_Clear(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()
	tape.StartRecording()

	x, err := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	x.Add(x)
	require.Equal(t, 1, tape.NumOps())

	tape.Clear()
	assert.Equal(t, 0, tape.NumOps())
}

func TestBackward_Simple(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x, err := tensor.FromSlice([]float32{3}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	// y = x * x, dy/dx = 2x = 6
	y := x.Mul(x)
	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	grad, ok := grads[x.Raw()]
	require.True(t, ok)
	assert.InDelta(t, 6.0, grad.AsFloat32()[0], 1e-5)
}

func TestBackward_FreshGradientsPerPass(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()
	tape.StartRecording()

	x, err := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	y := x.Mul(x)

	first, err := autodiff.Backward(y, backend)
	require.NoError(t, err)
	second, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	// Two passes over the same tape give equal gradients: nothing
	// accumulates across calls.
	assert.InDelta(t, first[x.Raw()].AsFloat32()[0], second[x.Raw()].AsFloat32()[0], 1e-6)
	assert.InDelta(t, 4.0, second[x.Raw()].AsFloat32()[0], 1e-5)
}

func TestBackward_NonScalarLossFails(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	y := x.Add(x)

	_, err = autodiff.Backward(y, backend)
	assert.Error(t, err)
}

func TestBackward_EmptyTapeFails(t *testing.T) {
	backend := newBackend()

	x, err := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	_, err = autodiff.Backward(x, backend)
	assert.Error(t, err)
}

func TestBackward_SharedInputAccumulates(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x, err := tensor.FromSlice([]float32{5}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	// y = x + x, dy/dx = 2: the two paths through the add accumulate.
	y := x.Add(x)
	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, grads[x.Raw()].AsFloat32()[0], 1e-5)
}

// TestBackward_FiniteDifference checks the analytic gradient of a small
// matmul+bias+relu chain against a numerical estimate.
func TestBackward_FiniteDifference(t *testing.T) {
	const eps = 1e-2

	forward := func(backend cpuAutodiff, wData []float32) *tensor.Tensor[float32, cpuAutodiff] {
		x, err := tensor.FromSlice([]float32{0.5, -1, 2}, tensor.Shape{1, 3}, backend)
		require.NoError(t, err)
		w, err := tensor.FromSlice(wData, tensor.Shape{3, 2}, backend)
		require.NoError(t, err)
		b, err := tensor.FromSlice([]float32{0.1, -0.2}, tensor.Shape{1, 2}, backend)
		require.NoError(t, err)

		h := tensor.New[float32](backend.ReLU(x.MatMul(w).Add(b).Raw()), backend)
		// Reduce to a scalar: sum via matmul with a ones column.
		ones, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{2, 1}, backend)
		require.NoError(t, err)
		return h.MatMul(ones)
	}

	wData := []float32{0.3, -0.4, 0.5, 0.6, -0.7, 0.8}

	backend := newBackend()
	backend.Tape().StartRecording()
	w, err := tensor.FromSlice(wData, tensor.Shape{3, 2}, backend)
	require.NoError(t, err)
	x, err := tensor.FromSlice([]float32{0.5, -1, 2}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{0.1, -0.2}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)
	onesCol, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)

	h := tensor.New[float32](backend.ReLU(x.MatMul(w).Add(b).Raw()), backend)
	loss := h.MatMul(onesCol)

	grads, err := autodiff.Backward(loss, backend)
	require.NoError(t, err)
	wGrad := grads[w.Raw()].AsFloat32()

	for i := range wData {
		plus := make([]float32, len(wData))
		minus := make([]float32, len(wData))
		copy(plus, wData)
		copy(minus, wData)
		plus[i] += eps
		minus[i] -= eps

		lossPlus := forward(newBackend(), plus).Item()
		lossMinus := forward(newBackend(), minus).Item()
		numeric := (lossPlus - lossMinus) / (2 * eps)

		assert.InDelta(t, numeric, wGrad[i], 1e-2, "dL/dw[%d]", i)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Autodiff(CPU)", newBackend().Name())
}
