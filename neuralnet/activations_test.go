package neuralnet

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestReLUActivate(t *testing.T) {
	z := mat.NewDense(1, 3, []float64{-1, 0, 2})
	got := ReLU.Activate(z)
	want := mat.NewDense(1, 3, []float64{0, 0, 2})
	if !mat.Equal(got, want) {
		t.Errorf("ReLU.Activate = %v; want %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestReLUDerivative(t *testing.T) {
	for _, tt := range []struct{ x, want float64 }{{-1, 0}, {0, 0}, {1e-9, 1}, {3, 1}} {
		if got := ReLU.Derivative(tt.x); got != tt.want {
			t.Errorf("ReLU.Derivative(%v) = %v; want %v", tt.x, got, tt.want)
		}
	}
}

func TestSoftmaxColumns(t *testing.T) {
	z := mat.NewDense(2, 3, []float64{
		0, 1000, -5,
		0, 1000, 5,
	})
	got := Softmax.Activate(z)
	for j := 0; j < 3; j++ {
		sum := got.At(0, j) + got.At(1, j)
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("column %d sums to %v", j, sum)
		}
	}
	if got.At(0, 0) != 0.5 || got.At(0, 1) != 0.5 {
		t.Errorf("equal logits should split evenly, got %v", mat.Formatted(got))
	}
	if got.At(1, 2) <= got.At(0, 2) {
		t.Errorf("larger logit should dominate, got %v", mat.Formatted(got))
	}
}

func TestSoftmaxDerivativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Softmax.Derivative did not panic")
		}
	}()
	Softmax.Derivative(1)
}
