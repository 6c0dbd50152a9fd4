// Package dataset turns census-income rows into normalized feature and
// one-hot label matrices.
package dataset

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

const (
	// NumFeatures is the width of every encoded sample.
	NumFeatures = 14
	// NumFields is the number of tokens in a raw record: features plus label.
	NumFields = NumFeatures + 1
	// NumClasses is the height of the one-hot label matrix.
	NumClasses = 2
	// PositiveMarker marks the high-income bracket in the label field.
	PositiveMarker = ">50K"
	// hashBuckets is the modulus categorical hashes are reduced by.
	hashBuckets = 1000
)

var categorical = [NumFeatures]bool{
	1: true, 3: true, 5: true, 6: true, 7: true, 8: true, 9: true, 13: true,
}

// Sample is one encoded record.
type Sample struct {
	Features [NumFeatures]float64
	Label    int
}

// Dataset is an ordered sequence of samples.
type Dataset []Sample

// IsCategorical reports whether feature position i holds a free-text token.
func IsCategorical(i int) bool {
	return i >= 0 && i < NumFeatures && categorical[i]
}

// EncodeCategorical maps a token into [0, 1) with 32-bit FNV-1a reduced
// modulo 1000. The value is the same on every platform.
func EncodeCategorical(token string) float64 {
	h := fnv.New32a()
	h.Write([]byte(token))
	return float64(h.Sum32()%hashBuckets) / hashBuckets
}

// Encode converts the tokens of one record into a Sample. Tokens are
// trimmed of surrounding whitespace before hashing or parsing.
func Encode(tokens []string) (Sample, error) {
	var s Sample
	if len(tokens) != NumFields {
		return s, &SchemaError{Fields: len(tokens)}
	}
	for i := 0; i < NumFeatures; i++ {
		tok := strings.TrimSpace(tokens[i])
		if categorical[i] {
			s.Features[i] = EncodeCategorical(tok)
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return s, &ParseError{Field: i, Token: tok, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return s, &ParseError{Field: i, Token: tok, Err: ErrNonFinite}
		}
		s.Features[i] = v
	}
	if strings.Contains(tokens[NumFeatures], PositiveMarker) {
		s.Label = 1
	}
	return s, nil
}
