// Package plot renders attribute selection results as charts.
package plot

import (
	"image/color"
	"io"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scigo-attrsel/attrsel"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

var (
	selectedColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	unselectedColor = color.RGBA{R: 190, G: 190, B: 190, A: 255}
)

type chartConfig struct {
	width, height vg.Length
	title         string
}

// ChartOption configures RankingChart.
type ChartOption func(*chartConfig)

// WithSize sets the chart dimensions.
func WithSize(width, height vg.Length) ChartOption {
	return func(c *chartConfig) {
		c.width, c.height = width, height
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) ChartOption {
	return func(c *chartConfig) {
		c.title = title
	}
}

// RankingChart writes a bar chart of sel to w in format ("png", "svg",
// "pdf", ...). Ranking selections show the score of every kept attribute in
// rank order. Subset selections show every candidate attribute with 1 for
// selected and 0 otherwise.
func RankingChart(sel *attrsel.Selection, w io.Writer, format string, opts ...ChartOption) error {
	if sel == nil {
		return scigoErrors.NewValueError("plot.RankingChart", "nil selection")
	}
	cfg := &chartConfig{width: 6 * vg.Inch, height: 4 * vg.Inch}
	for _, opt := range opts {
		opt(cfg)
	}

	p := gonumplot.New()
	p.Y.Min = 0

	var names []string
	var selected, unselected plotter.Values
	if ranking := sel.Ranking(); ranking != nil {
		if cfg.title == "" {
			cfg.title = "Attribute ranking (" + sel.Evaluator() + ")"
		}
		p.Y.Label.Text = "score"
		for _, ra := range ranking {
			names = append(names, ra.Name)
			selected = append(selected, ra.Score)
		}
	} else {
		if cfg.title == "" {
			cfg.title = "Selected attributes (" + sel.Evaluator() + " + " + sel.Search() + ")"
		}
		p.Y.Label.Text = "selected"
		p.Y.Max = 1
		chosen := make(map[string]bool)
		for _, n := range sel.SelectedNames() {
			chosen[n] = true
		}
		for _, n := range sel.FeatureNames() {
			names = append(names, n)
			if chosen[n] {
				selected = append(selected, 1)
				unselected = append(unselected, 0)
			} else {
				selected = append(selected, 0)
				unselected = append(unselected, 1)
			}
		}
	}
	if len(names) == 0 {
		return scigoErrors.NewValueError("plot.RankingChart", "nothing to draw")
	}
	p.Title.Text = cfg.title

	barWidth := vg.Points(20)
	for _, series := range []struct {
		values plotter.Values
		color  color.Color
	}{
		{selected, selectedColor},
		{unselected, unselectedColor},
	} {
		if series.values == nil {
			continue
		}
		bars, err := plotter.NewBarChart(series.values, barWidth)
		if err != nil {
			return scigoErrors.Wrap(err, "plot.RankingChart")
		}
		bars.Color = series.color
		bars.LineStyle.Width = 0
		p.Add(bars)
	}
	p.NominalX(names...)

	wt, err := p.WriterTo(cfg.width, cfg.height, format)
	if err != nil {
		return scigoErrors.NewValidationError("format", err.Error(), format)
	}
	_, err = wt.WriteTo(w)
	return err
}
