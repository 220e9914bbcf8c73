// Package dataset holds labeled tabular data: named, typed attributes with one
// designated class attribute, stored row-major in a gonum matrix.
//
// Nominal attributes store the index of their value in Attribute.Values, so
// every cell is a float64 and the whole table fits in one *mat.Dense.
package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

// AttributeKind is the type of an attribute.
type AttributeKind int

const (
	// Numeric attributes hold real values.
	Numeric AttributeKind = iota
	// Nominal attributes hold an index into Attribute.Values.
	Nominal
)

func (k AttributeKind) String() string {
	if k == Nominal {
		return "nominal"
	}
	return "numeric"
}

// Attribute describes one column.
type Attribute struct {
	Name   string
	Kind   AttributeKind
	Values []string // nominal labels, nil for numeric attributes
}

// NumericAttribute returns a numeric attribute named name.
func NumericAttribute(name string) Attribute {
	return Attribute{Name: name, Kind: Numeric}
}

// NominalAttribute returns a nominal attribute with the given labels.
func NominalAttribute(name string, values ...string) Attribute {
	return Attribute{Name: name, Kind: Nominal, Values: append([]string(nil), values...)}
}

// IsNominal reports whether the attribute is nominal.
func (a Attribute) IsNominal() bool { return a.Kind == Nominal }

// Dataset is an immutable labeled table.
type Dataset struct {
	attributes []Attribute
	classIndex int
	data       *mat.Dense
}

// New builds a Dataset from rows. Each row holds one value per attribute,
// class included.
func New(attrs []Attribute, classIndex int, rows [][]float64) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, scigoErrors.Wrap(scigoErrors.ErrEmptyData, "dataset.New")
	}
	data := mat.NewDense(len(rows), len(attrs), nil)
	for i, row := range rows {
		if len(row) != len(attrs) {
			return nil, scigoErrors.NewDimensionError("dataset.New", len(attrs), len(row), 1)
		}
		data.SetRow(i, row)
	}
	return FromMatrix(attrs, classIndex, data)
}

// FromMatrix builds a Dataset that takes ownership of data.
func FromMatrix(attrs []Attribute, classIndex int, data *mat.Dense) (*Dataset, error) {
	if len(attrs) == 0 {
		return nil, scigoErrors.NewValueError("dataset.FromMatrix", "no attributes")
	}
	if data == nil || data.IsEmpty() {
		return nil, scigoErrors.Wrap(scigoErrors.ErrEmptyData, "dataset.FromMatrix")
	}
	rows, cols := data.Dims()
	if rows == 0 {
		return nil, scigoErrors.Wrap(scigoErrors.ErrEmptyData, "dataset.FromMatrix")
	}
	if cols != len(attrs) {
		return nil, scigoErrors.NewDimensionError("dataset.FromMatrix", len(attrs), cols, 1)
	}
	if classIndex < 0 || classIndex >= len(attrs) {
		return nil, scigoErrors.NewValidationError("classIndex", fmt.Sprintf("must be in [0, %d)", len(attrs)), classIndex)
	}
	if !attrs[classIndex].IsNominal() || len(attrs[classIndex].Values) == 0 {
		return nil, scigoErrors.NewValueError("dataset.FromMatrix",
			fmt.Sprintf("class attribute %q must be nominal with at least one value", attrs[classIndex].Name))
	}
	if err := scigoErrors.CheckMatrix("dataset.FromMatrix", data); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(attrs))
	for j, a := range attrs {
		if seen[a.Name] {
			return nil, scigoErrors.NewValueError("dataset.FromMatrix", fmt.Sprintf("duplicate attribute name %q", a.Name))
		}
		seen[a.Name] = true
		if !a.IsNominal() {
			continue
		}
		for i := 0; i < rows; i++ {
			v := data.At(i, j)
			if v != math.Trunc(v) || v < 0 || int(v) >= len(a.Values) {
				return nil, scigoErrors.NewValueError("dataset.FromMatrix",
					fmt.Sprintf("row %d: value %v is not a valid index for nominal attribute %q", i, v, a.Name))
			}
		}
	}

	cp := make([]Attribute, len(attrs))
	copy(cp, attrs)
	return &Dataset{attributes: cp, classIndex: classIndex, data: data}, nil
}

// NumInstances returns the number of rows.
func (d *Dataset) NumInstances() int {
	r, _ := d.data.Dims()
	return r
}

// NumAttributes returns the number of attributes, class included.
func (d *Dataset) NumAttributes() int { return len(d.attributes) }

// NumFeatures returns the number of non-class attributes.
func (d *Dataset) NumFeatures() int { return len(d.attributes) - 1 }

// Attribute returns attribute i.
func (d *Dataset) Attribute(i int) Attribute { return d.attributes[i] }

// Attributes returns a copy of the attribute list.
func (d *Dataset) Attributes() []Attribute {
	out := make([]Attribute, len(d.attributes))
	copy(out, d.attributes)
	return out
}

// ClassIndex returns the index of the class attribute.
func (d *Dataset) ClassIndex() int { return d.classIndex }

// ClassAttribute returns the class attribute.
func (d *Dataset) ClassAttribute() Attribute { return d.attributes[d.classIndex] }

// NumClasses returns the number of class labels.
func (d *Dataset) NumClasses() int { return len(d.ClassAttribute().Values) }

// FeatureIndices returns the attribute index of every feature column, in
// the column order used by Features.
func (d *Dataset) FeatureIndices() []int {
	out := make([]int, 0, d.NumFeatures())
	for j := range d.attributes {
		if j != d.classIndex {
			out = append(out, j)
		}
	}
	return out
}

// Features returns a copy of the data without the class column.
func (d *Dataset) Features() *mat.Dense {
	idx := d.FeatureIndices()
	n := d.NumInstances()
	if len(idx) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(n, len(idx), nil)
	for p, j := range idx {
		for i := 0; i < n; i++ {
			out.Set(i, p, d.data.At(i, j))
		}
	}
	return out
}

// Labels returns the class column as an n×1 matrix.
func (d *Dataset) Labels() *mat.Dense {
	n := d.NumInstances()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, d.data.At(i, d.classIndex))
	}
	return out
}

// Column returns a copy of attribute j's values.
func (d *Dataset) Column(j int) []float64 {
	return mat.Col(nil, j, d.data)
}

// Instance returns a copy of row i, class included.
func (d *Dataset) Instance(i int) []float64 {
	return mat.Row(nil, i, d.data)
}

// Reduce returns a dataset holding the attributes in keep, in ascending
// order, plus the class attribute. keep must not contain the class index.
func (d *Dataset) Reduce(keep []int) (*Dataset, error) {
	mask := make([]bool, len(d.attributes))
	for _, j := range keep {
		if j < 0 || j >= len(d.attributes) {
			return nil, scigoErrors.NewValidationError("keep", "attribute index out of range", j)
		}
		if j == d.classIndex {
			return nil, scigoErrors.NewValidationError("keep", "must not contain the class attribute", j)
		}
		mask[j] = true
	}
	mask[d.classIndex] = true

	var cols []int
	var attrs []Attribute
	newClass := 0
	for j, m := range mask {
		if !m {
			continue
		}
		if j == d.classIndex {
			newClass = len(cols)
		}
		cols = append(cols, j)
		attrs = append(attrs, d.attributes[j])
	}

	n := d.NumInstances()
	data := mat.NewDense(n, len(cols), nil)
	for p, j := range cols {
		for i := 0; i < n; i++ {
			data.Set(i, p, d.data.At(i, j))
		}
	}
	return &Dataset{attributes: attrs, classIndex: newClass, data: data}, nil
}

// IndexOf returns the index of the attribute called name, or -1.
func (d *Dataset) IndexOf(name string) int {
	for j, a := range d.attributes {
		if a.Name == name {
			return j
		}
	}
	return -1
}
