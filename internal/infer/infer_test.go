package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/dataset/mnist"
	"github.com/drift-ml/drift/internal/infer"
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
	"github.com/drift-ml/drift/internal/train"
)

type cpuAutodiff = *autodiff.Backend[*cpu.Backend]

func newModel(t *testing.T, backend cpuAutodiff, sizes ...int) *nn.MLP[cpuAutodiff] {
	t.Helper()
	nn.SeedInit(42)
	model, err := nn.NewMLP(backend, sizes...)
	require.NoError(t, err)
	return model
}

func TestPredict_ProbabilitiesSumToOne(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := newModel(t, backend, 4, 8, 3)

	inputs, err := tensor.FromSlice([]float32{0.1, 0.2, 0.3, 0.4, 1, 2, 3, 4}, tensor.Shape{2, 4}, backend)
	require.NoError(t, err)

	preds, err := infer.Predict[cpuAutodiff](model, inputs, 3, backend)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	for _, p := range preds {
		require.Len(t, p.Probs, 3)
		sum := floats.Sum([]float64{float64(p.Probs[0]), float64(p.Probs[1]), float64(p.Probs[2])})
		assert.InDelta(t, 1.0, sum, 1e-5)
		assert.GreaterOrEqual(t, p.Class, 0)
		assert.Less(t, p.Class, 3)
	}
}

func TestPredict_Idempotent(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := newModel(t, backend, 4, 3)

	inputs, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 4}, backend)
	require.NoError(t, err)

	first, err := infer.Predict[cpuAutodiff](model, inputs, 3, backend)
	require.NoError(t, err)
	second, err := infer.Predict[cpuAutodiff](model, inputs, 3, backend)
	require.NoError(t, err)

	assert.Equal(t, first[0].Class, second[0].Class)
	assert.Equal(t, first[0].Probs, second[0].Probs)
}

func TestPredict_DoesNotRecord(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := newModel(t, backend, 4, 3)
	backend.Tape().StartRecording()

	inputs, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 4}, backend)
	require.NoError(t, err)

	_, err = infer.Predict[cpuAutodiff](model, inputs, 3, backend)
	require.NoError(t, err)

	assert.Equal(t, 0, backend.Tape().NumOps())
	assert.True(t, backend.Tape().IsRecording(), "recording state must be restored")
}

func TestPredict_ClassDimensionMismatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := newModel(t, backend, 4, 3)

	inputs, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 4}, backend)
	require.NoError(t, err)

	_, err = infer.Predict[cpuAutodiff](model, inputs, 5, backend)
	assert.ErrorIs(t, err, infer.ErrDimension)
}

func TestPredict_InputWidthMismatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := newModel(t, backend, 4, 3)

	inputs, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	_, err = infer.Predict[cpuAutodiff](model, inputs, 3, backend)
	assert.ErrorIs(t, err, train.ErrShapeMismatch)
}

func TestAccuracy_Bounds(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := newModel(t, backend, mnist.ImageSize, 8, mnist.NumClasses)

	data := mnist.Synthetic(40, 7)
	loader, err := mnist.NewLoader(data, backend, 16, false, 7)
	require.NoError(t, err)

	acc, err := infer.Accuracy[cpuAutodiff](model, loader, mnist.NumClasses, backend)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
}

func TestAccuracy_PerfectModelOnItsOwnPredictions(t *testing.T) {
	backend := autodiff.New(cpu.New())
	model := newModel(t, backend, 4, 2)

	// Label every row with the model's own argmax; accuracy must be 1.
	inputs := [][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	data := &mnist.Data{}
	for _, row := range inputs {
		in, err := tensor.FromSlice(row, tensor.Shape{1, 4}, backend)
		require.NoError(t, err)
		preds, err := infer.Predict[cpuAutodiff](model, in, 2, backend)
		require.NoError(t, err)

		data.Images = append(data.Images, row)
		data.Labels = append(data.Labels, int32(preds[0].Class))
	}

	loader, err := mnist.NewLoader(data, backend, 2, false, 0)
	require.NoError(t, err)

	acc, err := infer.Accuracy[cpuAutodiff](model, loader, 2, backend)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}
