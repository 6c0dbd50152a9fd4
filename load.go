package main

import (
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"censusnet/dataset"
)

func loadCensus(filePath string) (dataset.Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ds, err := dataset.Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", filePath)
	}
	return ds, nil
}

// prepare runs the encoded samples through normalization, one shuffle and
// the optional holdout split, then packs both parts into matrices.
func prepare(ds dataset.Dataset, cfg *Config) (train, test *split, err error) {
	policy, err := cfg.degeneratePolicy()
	if err != nil {
		return nil, nil, err
	}
	norm, err := dataset.Normalize(ds, policy)
	if err != nil {
		return nil, nil, err
	}
	shuffled := dataset.Shuffle(norm, dataset.NewRand(cfg.ShuffleSeed))
	trainDS, testDS := dataset.Split(shuffled, cfg.Holdout)

	if train, err = materialize(trainDS); err != nil {
		return nil, nil, errors.Wrap(err, "training set")
	}
	if len(testDS) > 0 {
		if test, err = materialize(testDS); err != nil {
			return nil, nil, errors.Wrap(err, "holdout set")
		}
	}
	return train, test, nil
}

type split struct {
	X, Y *mat.Dense
}

func materialize(ds dataset.Dataset) (*split, error) {
	x, y, err := dataset.Materialize(ds)
	if err != nil {
		return nil, err
	}
	return &split{X: x, Y: y}, nil
}
