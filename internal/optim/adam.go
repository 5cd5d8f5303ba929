package optim

import (
	"fmt"
	"math"

	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
)

// AdamConfig holds Adam hyperparameters. Zero values for Beta1, Beta2 and
// Epsilon select the usual defaults (0.9, 0.999, 1e-8).
type AdamConfig struct {
	LR      float32
	Beta1   float32
	Beta2   float32
	Epsilon float32
}

// Adam implements the Adam optimizer with bias-corrected first and second
// moment estimates.
type Adam[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	cfg    AdamConfig

	m [][]float32
	v [][]float32
	t int
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], cfg AdamConfig) (*Adam[B], error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no parameters to optimize", ErrConfig)
	}
	if cfg.LR <= 0 {
		return nil, fmt.Errorf("%w: learning rate must be positive, got %v", ErrConfig, cfg.LR)
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-8
	}
	if cfg.Beta1 < 0 || cfg.Beta1 >= 1 || cfg.Beta2 < 0 || cfg.Beta2 >= 1 {
		return nil, fmt.Errorf("%w: betas must be in [0, 1), got %v and %v", ErrConfig, cfg.Beta1, cfg.Beta2)
	}

	a := &Adam[B]{
		params: params,
		cfg:    cfg,
		m:      make([][]float32, len(params)),
		v:      make([][]float32, len(params)),
	}
	for i, p := range params {
		n := p.Tensor().NumElements()
		a.m[i] = make([]float32, n)
		a.v[i] = make([]float32, n)
	}
	return a, nil
}

// Step applies one Adam update.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	a.t++
	correction1 := 1 - float32(math.Pow(float64(a.cfg.Beta1), float64(a.t)))
	correction2 := 1 - float32(math.Pow(float64(a.cfg.Beta2), float64(a.t)))

	for i, p := range a.params {
		grad, err := gradientFor(p, grads)
		if err != nil {
			return err
		}
		if grad == nil {
			continue
		}

		data := p.Tensor().Data()
		m, v := a.m[i], a.v[i]
		for j := range data {
			g := grad[j]
			m[j] = a.cfg.Beta1*m[j] + (1-a.cfg.Beta1)*g
			v[j] = a.cfg.Beta2*v[j] + (1-a.cfg.Beta2)*g*g

			mHat := m[j] / correction1
			vHat := v[j] / correction2
			data[j] -= a.cfg.LR * mHat / (float32(math.Sqrt(float64(vHat))) + a.cfg.Epsilon)
		}
	}
	return nil
}

// ZeroGrad discards stored gradients on all parameters.
func (a *Adam[B]) ZeroGrad() {
	for _, p := range a.params {
		p.ZeroGrad()
	}
}

// LR returns the learning rate.
func (a *Adam[B]) LR() float32 { return a.cfg.LR }
