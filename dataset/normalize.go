package dataset

// DegeneratePolicy decides what happens to a feature column whose minimum
// equals its maximum.
type DegeneratePolicy int

const (
	// DegenerateZero maps every value of a constant column to 0.
	DegenerateZero DegeneratePolicy = iota
	// DegenerateFail rejects the dataset with a *DegenerateFeatureError.
	DegenerateFail
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateZero:
		return "zero"
	case DegenerateFail:
		return "fail"
	}
	return "unknown"
}

// Normalizer holds per-feature bounds computed from one dataset snapshot.
type Normalizer struct {
	Min, Max [NumFeatures]float64
	Policy   DegeneratePolicy
}

// FitNormalizer computes component-wise min and max over ds, starting both
// accumulators from the first sample.
func FitNormalizer(ds Dataset, policy DegeneratePolicy) (*Normalizer, error) {
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	n := &Normalizer{Min: ds[0].Features, Max: ds[0].Features, Policy: policy}
	for _, s := range ds[1:] {
		for j, v := range s.Features {
			if v < n.Min[j] {
				n.Min[j] = v
			}
			if v > n.Max[j] {
				n.Max[j] = v
			}
		}
	}
	if policy == DegenerateFail {
		for j := range n.Min {
			if n.Max[j] == n.Min[j] {
				return nil, &DegenerateFeatureError{Feature: j, Value: n.Min[j]}
			}
		}
	}
	return n, nil
}

// Transform returns a rescaled copy of ds; ds itself is left untouched.
// Values outside the fitted bounds land outside [0, 1].
func (n *Normalizer) Transform(ds Dataset) Dataset {
	out := make(Dataset, len(ds))
	for i, s := range ds {
		out[i].Label = s.Label
		for j, v := range s.Features {
			span := n.Max[j] - n.Min[j]
			if span == 0 {
				continue
			}
			out[i].Features[j] = (v - n.Min[j]) / span
		}
	}
	return out
}

// Normalize fits a Normalizer on ds and applies it.
func Normalize(ds Dataset, policy DegeneratePolicy) (Dataset, error) {
	n, err := FitNormalizer(ds, policy)
	if err != nil {
		return nil, err
	}
	return n.Transform(ds), nil
}
