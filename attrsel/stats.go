package attrsel

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scigo-attrsel/dataset"
)

// DefaultBins is the number of equal-frequency bins used to discretise
// numeric attributes before entropy-based measures.
const DefaultBins = 10

// discretize maps values to equal-frequency bin codes. Equal values always
// share a code. With at most bins distinct values each value gets its own
// code.
func discretize(values []float64, bins int) []int {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	distinct := 0
	for p := 0; p < n; p++ {
		if p == 0 || values[order[p]] != values[order[p-1]] {
			distinct++
		}
	}

	codes := make([]int, n)
	code := -1
	for p := 0; p < n; p++ {
		if p == 0 || values[order[p]] != values[order[p-1]] {
			if distinct <= bins {
				code++
			} else {
				code = p * bins / n
			}
		}
		codes[order[p]] = code
	}
	return codes
}

// columnCodes returns integer codes for attribute j: nominal indices as is,
// numeric values discretised.
func columnCodes(ds *dataset.Dataset, j, bins int) []int {
	col := ds.Column(j)
	if ds.Attribute(j).IsNominal() {
		codes := make([]int, len(col))
		for i, v := range col {
			codes[i] = int(v)
		}
		return codes
	}
	return discretize(col, bins)
}

// entropyBits returns the Shannon entropy in bits of the code distribution.
func entropyBits(codes []int) float64 {
	counts := map[int]float64{}
	for _, c := range codes {
		counts[c]++
	}
	return entropyOfCounts(counts, float64(len(codes)))
}

func jointEntropyBits(a, b []int) float64 {
	type pair struct{ x, y int }
	counts := map[pair]float64{}
	for i := range a {
		counts[pair{a[i], b[i]}]++
	}
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, c)
	}
	return probsEntropy(p, float64(len(a)))
}

func entropyOfCounts(counts map[int]float64, total float64) float64 {
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, c)
	}
	return probsEntropy(p, total)
}

func probsEntropy(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	floats.Scale(1/total, counts)
	return stat.Entropy(counts) / math.Ln2
}

// symmetricUncertainty returns 2·I(a;b)/(H(a)+H(b)) in [0, 1]. Two constant
// columns share no information and score 0.
func symmetricUncertainty(a, b []int) float64 {
	ha := entropyBits(a)
	hb := entropyBits(b)
	if ha+hb == 0 {
		return 0
	}
	su := 2 * (ha + hb - jointEntropyBits(a, b)) / (ha + hb)
	return clamp01(su)
}

// infoGain returns H(class) - H(class | attr) in bits.
func infoGain(attr, class []int) float64 {
	ig := entropyBits(class) + entropyBits(attr) - jointEntropyBits(attr, class)
	if ig < 0 {
		return 0
	}
	return ig
}

// absCorrelation returns |pearson(x, y)|, or 0 when either side is constant.
func absCorrelation(x, y []float64) float64 {
	if stat.StdDev(x, nil) == 0 || stat.StdDev(y, nil) == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return clamp01(math.Abs(r))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
