package dataset

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyDataset is returned when normalization, materialization or
// training is attempted on zero samples.
var ErrEmptyDataset = errors.New("dataset is empty")

// ErrNonFinite is the cause of a ParseError for NaN or infinite tokens.
var ErrNonFinite = errors.New("value is not finite")

// SchemaError reports a record with the wrong number of fields.
type SchemaError struct {
	Line   int // 1-based line in the input, 0 when unknown
	Fields int
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: got %d fields, want %d", e.Line, e.Fields, NumFields)
	}
	return fmt.Sprintf("got %d fields, want %d", e.Fields, NumFields)
}

// ParseError reports a numeric field that could not be parsed.
type ParseError struct {
	Line  int
	Field int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: field %d: cannot parse %q: %v", e.Line, e.Field, e.Token, e.Err)
	}
	return fmt.Sprintf("field %d: cannot parse %q: %v", e.Field, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DegenerateFeatureError reports a feature column whose min equals its max.
type DegenerateFeatureError struct {
	Feature int
	Value   float64
}

func (e *DegenerateFeatureError) Error() string {
	return fmt.Sprintf("feature %d is constant (%g), cannot rescale", e.Feature, e.Value)
}
