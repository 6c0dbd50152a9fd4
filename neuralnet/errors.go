package neuralnet

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoForwardCache is returned by Backward when Forward has not been
	// run on the same batch.
	ErrNoForwardCache = errors.New("backward called without a cached forward pass")
	// ErrOptimizerRebound is returned when an optimizer is stepped with a
	// parameter set other than the one it was first bound to.
	ErrOptimizerRebound = errors.New("optimizer is bound to a different parameter set")
	// ErrBatchMismatch is returned by Backward when x is not the batch the
	// cached forward pass ran on.
	ErrBatchMismatch = errors.New("backward batch differs from the cached forward batch")
)

// ShapeMismatchError reports inconsistent matrix dimensions.
type ShapeMismatchError struct {
	Op        string
	Want, Got [2]int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: want %dx%d, got %dx%d",
		e.Op, e.Want[0], e.Want[1], e.Got[0], e.Got[1])
}

func checkShape(op string, m mat.Matrix, rows, cols int) error {
	r, c := m.Dims()
	if (rows >= 0 && r != rows) || (cols >= 0 && c != cols) {
		want := [2]int{rows, cols}
		if rows < 0 {
			want[0] = r
		}
		if cols < 0 {
			want[1] = c
		}
		return &ShapeMismatchError{Op: op, Want: want, Got: [2]int{r, c}}
	}
	return nil
}
