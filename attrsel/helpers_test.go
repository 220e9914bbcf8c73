package attrsel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scigo-attrsel/dataset"
)

// redundantDataset has four numeric attributes and a binary class. a is
// informative, b is an exact copy of a, c and d are noise.
func redundantDataset(t *testing.T, n int, seed int64) *dataset.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	attrs := []dataset.Attribute{
		dataset.NumericAttribute("a"),
		dataset.NumericAttribute("b"),
		dataset.NumericAttribute("c"),
		dataset.NumericAttribute("d"),
		dataset.NominalAttribute("class", "neg", "pos"),
	}
	rows := make([][]float64, n)
	for i := range rows {
		a := rng.Float64()
		label := 0.0
		if a > 0.5 {
			label = 1
		}
		rows[i] = []float64{a, a, rng.Float64(), rng.Float64(), label}
	}
	ds, err := dataset.New(attrs, 4, rows)
	require.NoError(t, err)
	return ds
}

// shiftedDataset has three numeric attributes where only "z" (index 2)
// determines the class.
func shiftedDataset(t *testing.T, n int, seed int64) *dataset.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	attrs := []dataset.Attribute{
		dataset.NumericAttribute("x"),
		dataset.NumericAttribute("y"),
		dataset.NumericAttribute("z"),
		dataset.NominalAttribute("class", "low", "high"),
	}
	rows := make([][]float64, n)
	for i := range rows {
		z := rng.NormFloat64()
		label := 0.0
		if z > 0 {
			label = 1
		}
		rows[i] = []float64{rng.NormFloat64(), rng.Float64(), z, label}
	}
	ds, err := dataset.New(attrs, 3, rows)
	require.NoError(t, err)
	return ds
}

// singleAttributeDataset has one numeric attribute and a class.
func singleAttributeDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	attrs := []dataset.Attribute{
		dataset.NumericAttribute("only"),
		dataset.NominalAttribute("class", "a", "b"),
	}
	ds, err := dataset.New(attrs, 1, [][]float64{
		{1, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 0}, {6, 1},
	})
	require.NoError(t, err)
	return ds
}

// wideDataset has many noise attributes and one informative one at index
// informative.
func wideDataset(t *testing.T, width, informative int, seed int64) *dataset.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	attrs := make([]dataset.Attribute, width+1)
	for j := 0; j < width; j++ {
		attrs[j] = dataset.NumericAttribute(string(rune('A'+j%26)) + string(rune('a'+j/26)))
	}
	attrs[width] = dataset.NominalAttribute("class", "0", "1")
	rows := make([][]float64, 300)
	for i := range rows {
		row := make([]float64, width+1)
		for j := 0; j < width; j++ {
			row[j] = rng.Float64()
		}
		if row[informative] > 0.5 {
			row[width] = 1
		}
		rows[i] = row
	}
	ds, err := dataset.New(attrs, width, rows)
	require.NoError(t, err)
	return ds
}

// nominalDataset has a nominal copy of the class and a nominal attribute
// independent of it.
func nominalDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	attrs := []dataset.Attribute{
		dataset.NominalAttribute("copy", "n", "y"),
		dataset.NominalAttribute("coin", "heads", "tails"),
		dataset.NominalAttribute("class", "n", "y"),
	}
	class := []float64{0, 0, 1, 1, 0, 0, 1, 1}
	coin := []float64{0, 1, 0, 1, 0, 1, 0, 1}
	rows := make([][]float64, len(class))
	for i := range rows {
		rows[i] = []float64{class[i], coin[i], class[i]}
	}
	ds, err := dataset.New(attrs, 2, rows)
	require.NoError(t, err)
	return ds
}
