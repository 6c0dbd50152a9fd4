package dataset

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Materialize packs ds into a NumFeatures×N feature matrix and a
// NumClasses×N one-hot label matrix. Column i of both belongs to ds[i].
func Materialize(ds Dataset) (x, y *mat.Dense, err error) {
	if len(ds) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	n := len(ds)
	x = mat.NewDense(NumFeatures, n, nil)
	y = mat.NewDense(NumClasses, n, nil)
	for i, s := range ds {
		if s.Label < 0 || s.Label >= NumClasses {
			return nil, nil, errors.Errorf("sample %d: label %d out of range", i, s.Label)
		}
		for j, v := range s.Features {
			x.Set(j, i, v)
		}
		y.Set(s.Label, i, 1)
	}
	return x, y, nil
}
