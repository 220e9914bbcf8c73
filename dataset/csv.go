package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

type csvConfig struct {
	classColumn string
	nominal     map[string]bool
	comma       rune
}

// CSVOption configures LoadCSV.
type CSVOption func(*csvConfig)

// WithClassColumn names the class column. The default is the last column.
func WithClassColumn(name string) CSVOption {
	return func(c *csvConfig) { c.classColumn = name }
}

// WithNominalColumns forces columns to be nominal even if every value parses
// as a number.
func WithNominalColumns(names ...string) CSVOption {
	return func(c *csvConfig) {
		for _, n := range names {
			c.nominal[n] = true
		}
	}
}

// WithComma sets the field delimiter.
func WithComma(r rune) CSVOption {
	return func(c *csvConfig) { c.comma = r }
}

// LoadCSV reads a header row followed by data rows. A column is numeric when
// every value parses as a float; otherwise it is nominal with labels in order
// of first appearance. The class column is always nominal.
func LoadCSV(r io.Reader, opts ...CSVOption) (*Dataset, error) {
	cfg := &csvConfig{nominal: map[string]bool{}, comma: ','}
	for _, opt := range opts {
		opt(cfg)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, scigoErrors.Wrap(err, "dataset.LoadCSV")
	}
	if len(records) < 2 {
		return nil, scigoErrors.Wrap(scigoErrors.ErrEmptyData, "dataset.LoadCSV")
	}

	header := records[0]
	body := records[1:]
	classIndex := len(header) - 1
	if cfg.classColumn != "" {
		classIndex = -1
		for j, h := range header {
			if strings.TrimSpace(h) == cfg.classColumn {
				classIndex = j
			}
		}
		if classIndex < 0 {
			return nil, scigoErrors.NewValidationError("classColumn", "not found in header", cfg.classColumn)
		}
	}

	attrs := make([]Attribute, len(header))
	rows := make([][]float64, len(body))
	for i := range rows {
		rows[i] = make([]float64, len(header))
	}

	for j, h := range header {
		name := strings.TrimSpace(h)
		numeric := j != classIndex && !cfg.nominal[name]
		if numeric {
			for i, rec := range body {
				v, perr := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
				if perr != nil {
					numeric = false
					break
				}
				rows[i][j] = v
			}
		}
		if numeric {
			attrs[j] = NumericAttribute(name)
			continue
		}

		index := map[string]int{}
		var labels []string
		for i, rec := range body {
			s := strings.TrimSpace(rec[j])
			k, ok := index[s]
			if !ok {
				k = len(labels)
				index[s] = k
				labels = append(labels, s)
			}
			rows[i][j] = float64(k)
		}
		attrs[j] = NominalAttribute(name, labels...)
	}

	ds, err := New(attrs, classIndex, rows)
	if err != nil {
		return nil, scigoErrors.Wrapf(err, "dataset.LoadCSV: %d rows", len(body))
	}
	return ds, nil
}
