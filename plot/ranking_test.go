package plot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scigo-attrsel/attrsel"
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

func smallDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	rows := make([][]float64, 40)
	for i := range rows {
		x := float64(i)
		label := 0.0
		if i >= 20 {
			label = 1
		}
		rows[i] = []float64{x, float64(i % 7), float64((i * 13) % 5), label}
	}
	ds, err := dataset.New([]dataset.Attribute{
		dataset.NumericAttribute("signal"),
		dataset.NumericAttribute("mod7"),
		dataset.NumericAttribute("mod5"),
		dataset.NominalAttribute("class", "no", "yes"),
	}, 3, rows)
	require.NoError(t, err)
	return ds
}

func TestRankingChart_Ranking(t *testing.T) {
	sel, err := attrsel.Select(smallDataset(t), attrsel.NewInfoGainAttributeEval(0), attrsel.NewRanker())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RankingChart(sel, &buf, "png"))
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), buf.Bytes()[:8])
}

func TestRankingChart_Subset(t *testing.T) {
	sel, err := attrsel.Select(smallDataset(t), attrsel.NewCfsSubsetEval(), attrsel.NewBestFirst())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RankingChart(sel, &buf, "svg", WithTitle("CFS"), WithSize(300, 200)))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "CFS")
}

func TestRankingChart_Errors(t *testing.T) {
	var ve *scigoErrors.ValueError
	assert.True(t, scigoErrors.As(RankingChart(nil, &bytes.Buffer{}, "png"), &ve))

	sel, err := attrsel.Select(smallDataset(t), attrsel.NewInfoGainAttributeEval(0), attrsel.NewRanker())
	require.NoError(t, err)
	var val *scigoErrors.ValidationError
	assert.True(t, scigoErrors.As(RankingChart(sel, &bytes.Buffer{}, "bogus"), &val))
}
