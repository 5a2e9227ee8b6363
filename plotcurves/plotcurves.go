// Package plotcurves renders per-round metric series as line charts,
// used to compare a custom objective's error-rate trajectory against
// the built-in one.
package plotcurves

import (
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

// SaveErrorCurves renders the named per-round series as lines on a
// single chart and writes it to path. The output format follows the
// file extension (.png, .svg, .pdf). Series are drawn in name order so
// the output is deterministic.
func SaveErrorCurves(title string, series map[string][]float64, path string) error {
	if len(series) == 0 {
		return mcxgbErrors.NewValueError("SaveErrorCurves", "no series to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Boosting Round"
	p.Y.Label.Text = "Error Rate"
	p.Legend.Top = true

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		values := series[name]
		if len(values) == 0 {
			return mcxgbErrors.NewValueError("SaveErrorCurves", "series '"+name+"' is empty")
		}

		pts := make(plotter.XYs, len(values))
		for round, v := range values {
			pts[round].X = float64(round)
			pts[round].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return mcxgbErrors.Wrapf(err, "creating line for series '%s'", name)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return mcxgbErrors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
