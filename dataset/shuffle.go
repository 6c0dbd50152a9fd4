package dataset

import (
	"math/rand"
	"time"
)

// NewRand returns a generator for Shuffle. A zero seed picks one from the
// clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Shuffle returns a uniformly permuted copy of ds (Fisher-Yates).
func Shuffle(ds Dataset, rng *rand.Rand) Dataset {
	out := make(Dataset, len(ds))
	copy(out, ds)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Split cuts ds into a training prefix and a holdout suffix holding
// roughly fraction of the samples. Shuffle first if ds is ordered.
func Split(ds Dataset, fraction float64) (train, test Dataset) {
	if fraction <= 0 {
		return ds, nil
	}
	if fraction >= 1 {
		return nil, ds
	}
	cut := len(ds) - int(float64(len(ds))*fraction)
	return ds[:cut], ds[cut:]
}
