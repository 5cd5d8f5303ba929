package optim

import (
	"fmt"

	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
)

// SGDConfig holds stochastic gradient descent hyperparameters.
type SGDConfig struct {
	// LR is the learning rate. Must be positive.
	LR float32

	// Momentum in [0, 1). Zero disables momentum.
	Momentum float32
}

// SGD implements stochastic gradient descent with optional momentum:
//
//	v = momentum*v + grad
//	param -= lr * v
type SGD[B tensor.Backend] struct {
	params   []*nn.Parameter[B]
	cfg      SGDConfig
	velocity [][]float32 // Allocated lazily when momentum is enabled
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], cfg SGDConfig) (*SGD[B], error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no parameters to optimize", ErrConfig)
	}
	if cfg.LR <= 0 {
		return nil, fmt.Errorf("%w: learning rate must be positive, got %v", ErrConfig, cfg.LR)
	}
	if cfg.Momentum < 0 || cfg.Momentum >= 1 {
		return nil, fmt.Errorf("%w: momentum must be in [0, 1), got %v", ErrConfig, cfg.Momentum)
	}

	s := &SGD[B]{params: params, cfg: cfg}
	if cfg.Momentum > 0 {
		s.velocity = make([][]float32, len(params))
		for i, p := range params {
			s.velocity[i] = make([]float32, p.Tensor().NumElements())
		}
	}
	return s, nil
}

// Step applies one SGD update.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	for i, p := range s.params {
		grad, err := gradientFor(p, grads)
		if err != nil {
			return err
		}
		if grad == nil {
			continue
		}

		data := p.Tensor().Data()
		if s.cfg.Momentum > 0 {
			v := s.velocity[i]
			for j := range data {
				v[j] = s.cfg.Momentum*v[j] + grad[j]
				data[j] -= s.cfg.LR * v[j]
			}
		} else {
			for j := range data {
				data[j] -= s.cfg.LR * grad[j]
			}
		}
	}
	return nil
}

// ZeroGrad discards stored gradients on all parameters.
func (s *SGD[B]) ZeroGrad() {
	for _, p := range s.params {
		p.ZeroGrad()
	}
}

// LR returns the learning rate.
func (s *SGD[B]) LR() float32 { return s.cfg.LR }
