package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LossFunction computes the training loss and its gradient.
type LossFunction interface {
	// Compute returns the mean loss over the columns of output.
	Compute(output, target mat.Matrix) float64
	// Gradient returns ∂L/∂z for the output layer pre-activation z.
	Gradient(output, target mat.Matrix) *mat.Dense
}

// CrossEntropy implements categorical cross-entropy over softmax outputs.
type CrossEntropy struct{}

const minProb = 1e-15

// Compute returns the mean cross-entropy across samples.
func (ce CrossEntropy) Compute(output, target mat.Matrix) float64 {
	r, c := output.Dims()
	losses := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			t := target.At(i, j)
			if t == 0 {
				continue
			}
			losses[j] -= t * math.Log(math.Max(output.At(i, j), minProb))
		}
	}
	return floats.Sum(losses) / float64(c)
}

// Gradient returns (output - target) / N, the combined softmax and
// cross-entropy derivative with respect to the softmax input.
func (ce CrossEntropy) Gradient(output, target mat.Matrix) *mat.Dense {
	_, c := output.Dims()
	var grad mat.Dense
	grad.Sub(output, target)
	grad.Scale(1/float64(c), &grad)
	return &grad
}
