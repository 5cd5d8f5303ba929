package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/optim"
	"github.com/drift-ml/drift/internal/tensor"
)

type cpuAutodiff = *autodiff.Backend[*cpu.Backend]

func newParam(t *testing.T, name string, values []float32) *nn.Parameter[cpuAutodiff] {
	t.Helper()
	backend := autodiff.New(cpu.New())
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	require.NoError(t, err)
	return nn.NewParameter(name, x)
}

func gradFor(t *testing.T, p *nn.Parameter[cpuAutodiff], values []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(p.Tensor().Shape(), tensor.Float32)
	require.NoError(t, err)
	copy(grad.AsFloat32(), values)
	return map[*tensor.RawTensor]*tensor.RawTensor{p.Tensor().Raw(): grad}
}

func TestSGD_SimpleUpdate(t *testing.T) {
	param := newParam(t, "x", []float32{2.0})
	opt, err := optim.NewSGD([]*nn.Parameter[cpuAutodiff]{param}, optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	// x_new = 2.0 - 0.1 * 1.0 = 1.9
	require.NoError(t, opt.Step(gradFor(t, param, []float32{1.0})))
	assert.InDelta(t, 1.9, param.Tensor().Data()[0], 1e-6)
}

func TestSGD_Momentum(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewSGD([]*nn.Parameter[cpuAutodiff]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	require.NoError(t, err)

	// Step 1: v = 1.0,  x = 1.0 - 0.1*1.0  = 0.9
	// Step 2: v = 1.9,  x = 0.9 - 0.1*1.9  = 0.71
	require.NoError(t, opt.Step(gradFor(t, param, []float32{1.0})))
	assert.InDelta(t, 0.9, param.Tensor().Data()[0], 1e-6)

	require.NoError(t, opt.Step(gradFor(t, param, []float32{1.0})))
	assert.InDelta(t, 0.71, param.Tensor().Data()[0], 1e-6)
}

func TestSGD_SkipsParamsWithoutGradient(t *testing.T) {
	param := newParam(t, "x", []float32{5.0})
	opt, err := optim.NewSGD([]*nn.Parameter[cpuAutodiff]{param}, optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	require.NoError(t, opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{}))
	assert.Equal(t, float32(5.0), param.Tensor().Data()[0])
}

func TestSGD_GradientShapeMismatch(t *testing.T) {
	param := newParam(t, "x", []float32{1, 2})
	opt, err := optim.NewSGD([]*nn.Parameter[cpuAutodiff]{param}, optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	bad, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32)
	require.NoError(t, err)
	err = opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): bad})
	assert.Error(t, err)
}

func TestSGD_InvalidConfig(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	params := []*nn.Parameter[cpuAutodiff]{param}

	_, err := optim.NewSGD(params, optim.SGDConfig{LR: 0})
	assert.ErrorIs(t, err, optim.ErrConfig)

	_, err = optim.NewSGD(params, optim.SGDConfig{LR: -0.1})
	assert.ErrorIs(t, err, optim.ErrConfig)

	_, err = optim.NewSGD(params, optim.SGDConfig{LR: 0.1, Momentum: 1.0})
	assert.ErrorIs(t, err, optim.ErrConfig)

	_, err = optim.NewSGD[cpuAutodiff](nil, optim.SGDConfig{LR: 0.1})
	assert.ErrorIs(t, err, optim.ErrConfig)
}

func TestZeroGrad_DiscardsGradients(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewSGD([]*nn.Parameter[cpuAutodiff]{param}, optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	grad, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	require.NoError(t, err)
	param.SetGrad(grad)

	opt.ZeroGrad()
	assert.Nil(t, param.Grad())
}

func TestAdam_MovesTowardMinimum(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewAdam([]*nn.Parameter[cpuAutodiff]{param}, optim.AdamConfig{LR: 0.1})
	require.NoError(t, err)

	// Constant positive gradient: x must decrease monotonically.
	prev := param.Tensor().Data()[0]
	for i := 0; i < 5; i++ {
		require.NoError(t, opt.Step(gradFor(t, param, []float32{1.0})))
		cur := param.Tensor().Data()[0]
		assert.Less(t, cur, prev)
		prev = cur
	}
}

func TestAdam_FirstStepIsLR(t *testing.T) {
	param := newParam(t, "x", []float32{0.0})
	opt, err := optim.NewAdam([]*nn.Parameter[cpuAutodiff]{param}, optim.AdamConfig{LR: 0.01})
	require.NoError(t, err)

	// With bias correction the first step is ~lr regardless of gradient scale.
	require.NoError(t, opt.Step(gradFor(t, param, []float32{100.0})))
	assert.InDelta(t, -0.01, param.Tensor().Data()[0], 1e-4)
}

func TestAdam_InvalidConfig(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	params := []*nn.Parameter[cpuAutodiff]{param}

	_, err := optim.NewAdam(params, optim.AdamConfig{LR: 0})
	assert.ErrorIs(t, err, optim.ErrConfig)

	_, err = optim.NewAdam[cpuAutodiff](nil, optim.AdamConfig{LR: 0.01})
	assert.ErrorIs(t, err, optim.ErrConfig)
}

func TestLR(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewSGD([]*nn.Parameter[cpuAutodiff]{param}, optim.SGDConfig{LR: 0.25})
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), opt.LR())
}
