package neuralnet

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Optimizer applies one update to params from grads of the same shapes.
type Optimizer interface {
	Step(params, grads []*mat.Dense) error
}

// Adam defaults.
const (
	DefaultLearningRate = 0.001
	DefaultBeta1        = 0.9
	DefaultBeta2        = 0.999
	DefaultEpsilon      = 1e-8
)

// AdamConfig holds Adam hyperparameters. Zero fields take the defaults.
type AdamConfig struct {
	LR      float64
	Beta1   float64
	Beta2   float64
	Epsilon float64
}

// Adam implements adaptive moment estimation with bias correction:
//
//	m = β1·m + (1-β1)·g
//	v = β2·v + (1-β2)·g²
//	p -= lr · m̂ / (√v̂ + ε),  m̂ = m/(1-β1^t), v̂ = v/(1-β2^t)
//
// An Adam binds to the first parameter set it steps and keeps one pair of
// moment matrices per parameter. All parameters share the step counter.
type Adam struct {
	lr, beta1, beta2, eps float64

	t      int
	params []*mat.Dense
	m, v   []*mat.Dense
}

// NewAdam returns an Adam with zero moments.
func NewAdam(cfg AdamConfig) *Adam {
	if cfg.LR == 0 {
		cfg.LR = DefaultLearningRate
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = DefaultBeta1
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = DefaultBeta2
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	return &Adam{lr: cfg.LR, beta1: cfg.Beta1, beta2: cfg.Beta2, eps: cfg.Epsilon}
}

// Steps is the number of updates applied so far.
func (a *Adam) Steps() int { return a.t }

// Step updates every parameter in place.
func (a *Adam) Step(params, grads []*mat.Dense) error {
	if err := a.bind(params); err != nil {
		return err
	}
	if err := checkGrads(params, grads); err != nil {
		return err
	}

	a.t++
	bc1 := 1 - math.Pow(a.beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.beta2, float64(a.t))

	for k, p := range params {
		r, c := p.Dims()
		g, m, v := grads[k], a.m[k], a.v[k]
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				gij := g.At(i, j)
				mij := a.beta1*m.At(i, j) + (1-a.beta1)*gij
				vij := a.beta2*v.At(i, j) + (1-a.beta2)*gij*gij
				m.Set(i, j, mij)
				v.Set(i, j, vij)
				p.Set(i, j, p.At(i, j)-a.lr*(mij/bc1)/(math.Sqrt(vij/bc2)+a.eps))
			}
		}
	}
	return nil
}

func (a *Adam) bind(params []*mat.Dense) error {
	if a.params == nil {
		a.params = append([]*mat.Dense(nil), params...)
		a.m = make([]*mat.Dense, len(params))
		a.v = make([]*mat.Dense, len(params))
		for k, p := range params {
			r, c := p.Dims()
			a.m[k] = mat.NewDense(r, c, nil)
			a.v[k] = mat.NewDense(r, c, nil)
		}
		return nil
	}
	if len(params) != len(a.params) {
		return ErrOptimizerRebound
	}
	for k := range params {
		if params[k] != a.params[k] {
			return ErrOptimizerRebound
		}
	}
	return nil
}

// SGDConfig holds plain gradient descent settings.
type SGDConfig struct {
	LR    float64
	Decay float64 // multiplies LR after every step; zero means no decay
}

// SGD implements stochastic gradient descent with multiplicative
// learning-rate decay.
type SGD struct {
	Lr    float64
	Decay float64
}

// NewSGD returns an SGD optimizer.
func NewSGD(cfg SGDConfig) *SGD {
	if cfg.LR == 0 {
		cfg.LR = DefaultLearningRate
	}
	if cfg.Decay == 0 {
		cfg.Decay = 1
	}
	return &SGD{Lr: cfg.LR, Decay: cfg.Decay}
}

// Step applies p -= lr·g and then decays the learning rate.
func (o *SGD) Step(params, grads []*mat.Dense) error {
	if err := checkGrads(params, grads); err != nil {
		return err
	}
	for k, p := range params {
		var step mat.Dense
		step.Scale(o.Lr, grads[k])
		p.Sub(p, &step)
	}
	o.Lr *= o.Decay
	return nil
}

func checkGrads(params, grads []*mat.Dense) error {
	if len(params) != len(grads) {
		return errors.Errorf("optimizer: %d parameters but %d gradients", len(params), len(grads))
	}
	for k, p := range params {
		r, c := p.Dims()
		if err := checkShape("optimizer", grads[k], r, c); err != nil {
			return errors.Wrapf(err, "parameter %d", k)
		}
	}
	return nil
}
