package dataset

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// Read decodes a census CSV stream. The first line is a header and is
// discarded. Any malformed row aborts the whole read.
func Read(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyDataset
		}
		return nil, errors.Wrap(err, "reading header")
	}

	var ds Dataset
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading record")
		}
		line, _ := cr.FieldPos(0)
		s, err := Encode(record)
		if err != nil {
			return nil, withLine(err, line)
		}
		ds = append(ds, s)
	}
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}

func withLine(err error, line int) error {
	var se *SchemaError
	if errors.As(err, &se) {
		se.Line = line
		return se
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Line = line
		return pe
	}
	return errors.Wrapf(err, "line %d", line)
}
