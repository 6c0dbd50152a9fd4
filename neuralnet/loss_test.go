package neuralnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestCrossEntropyCompute(t *testing.T) {
	output := mat.NewDense(2, 2, []float64{
		0.5, 0.25,
		0.5, 0.75,
	})
	target := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	want := (-math.Log(0.5) - math.Log(0.75)) / 2
	assert.InDelta(t, want, CrossEntropy{}.Compute(output, target), 1e-12)
}

func TestCrossEntropyClampsZeroProbability(t *testing.T) {
	output := mat.NewDense(2, 1, []float64{0, 1})
	target := mat.NewDense(2, 1, []float64{1, 0})
	loss := CrossEntropy{}.Compute(output, target)
	assert.False(t, math.IsInf(loss, 0))
	assert.InDelta(t, -math.Log(1e-15), loss, 1e-9)
}

func TestCrossEntropyGradient(t *testing.T) {
	output := mat.NewDense(2, 2, []float64{
		0.5, 0.2,
		0.5, 0.8,
	})
	target := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	want := mat.NewDense(2, 2, []float64{
		-0.25, 0.1,
		0.25, -0.1,
	})
	got := CrossEntropy{}.Gradient(output, target)
	assert.True(t, mat.EqualApprox(want, got, 1e-12), "got %v", mat.Formatted(got))
}
