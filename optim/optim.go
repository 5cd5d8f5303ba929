// Copyright 2026 Drift ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers.
package optim

import (
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/optim"
	"github.com/drift-ml/drift/internal/tensor"
)

// ErrConfig reports an invalid optimizer configuration.
var ErrConfig = optim.ErrConfig

// Optimizer updates parameters from the gradients of a backward pass.
type Optimizer[B tensor.Backend] = optim.Optimizer[B]

// SGDConfig holds stochastic gradient descent hyperparameters.
type SGDConfig = optim.SGDConfig

// SGD implements stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// NewSGD creates an SGD optimizer over the given parameters.
//
// Example:
//
//	opt, err := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1, Momentum: 0.9})
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], cfg SGDConfig) (*SGD[B], error) {
	return optim.NewSGD(params, cfg)
}

// AdamConfig holds Adam hyperparameters.
type AdamConfig = optim.AdamConfig

// Adam implements the Adam optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], cfg AdamConfig) (*Adam[B], error) {
	return optim.NewAdam(params, cfg)
}
