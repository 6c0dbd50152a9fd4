package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Activation is the closed set of nonlinearities a layer can apply.
type Activation int

const (
	ReLU Activation = iota
	// Softmax normalizes each column into a probability distribution.
	// It is only valid on the output layer, paired with CrossEntropy.
	Softmax
)

func (a Activation) String() string {
	switch a {
	case ReLU:
		return "relu"
	case Softmax:
		return "softmax"
	}
	return "unknown"
}

// Activate applies a to the pre-activation matrix z (units × samples).
func (a Activation) Activate(z mat.Matrix) *mat.Dense {
	r, c := z.Dims()
	out := mat.NewDense(r, c, nil)
	switch a {
	case ReLU:
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Max(v, 0)
		}, z)
	case Softmax:
		col := make([]float64, r)
		for j := 0; j < c; j++ {
			mat.Col(col, j, z)
			softmax(col)
			out.SetCol(j, col)
		}
	}
	return out
}

// Derivative returns the elementwise derivative at pre-activation x.
// Softmax has no elementwise derivative; its gradient is folded into
// CrossEntropy.Gradient, so calling it there panics.
func (a Activation) Derivative(x float64) float64 {
	switch a {
	case ReLU:
		if x > 0 {
			return 1
		}
		return 0
	}
	panic("neuralnet: no elementwise derivative for " + a.String())
}

// softmax rewrites v in place, shifted by its max for stability.
func softmax(v []float64) {
	hi := v[0]
	for _, x := range v[1:] {
		if x > hi {
			hi = x
		}
	}
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - hi)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
