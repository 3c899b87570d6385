// Package charts renders analysis results as HTML charts (go-echarts) for
// the API and as PNG series plots (gonum/plot) for offline inspection.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hooplab/shotform/internal/analysis"
)

// SeverityHTML renders a bar chart of the run's confirmed flaw severities.
func SeverityHTML(r *analysis.Report, w io.Writer) error {
	names := make([]string, 0, len(r.Flaws))
	bars := make([]opts.BarData, 0, len(r.Flaws))
	for _, f := range r.Flaws {
		names = append(names, string(f.ID))
		bars = append(bars, opts.BarData{Value: f.Severity})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Shot Flaw Severity", Width: "900px", Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Flaw severity",
			Subtitle: fmt.Sprintf("run %s, camera %s", r.RunID, r.Profile.Angle),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "severity", Max: 50}),
	)
	bar.SetXAxis(names)
	bar.AddSeries("severity", bars)
	return bar.Render(w)
}

// FluidityHTML renders the fluidity anomalies as a scatter over frame
// numbers, one series per anomaly kind, with the overall score in the title.
func FluidityHTML(r *analysis.Report, w io.Writer) error {
	if r.Fluidity == nil {
		return fmt.Errorf("run %s has no fluidity summary", r.RunID)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Shot Fluidity", Width: "900px", Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Fluidity score %.1f / 100", r.Fluidity.Score),
			Subtitle: fmt.Sprintf("run %s", r.RunID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "severity"}),
	)

	spikes := make([]opts.ScatterData, 0, len(r.Fluidity.AccelerationSpikes))
	for _, a := range r.Fluidity.AccelerationSpikes {
		spikes = append(spikes, opts.ScatterData{Value: []interface{}{a.Frame, a.Severity}})
	}
	breaks := make([]opts.ScatterData, 0, len(r.Fluidity.RhythmBreaks))
	for _, a := range r.Fluidity.RhythmBreaks {
		breaks = append(breaks, opts.ScatterData{Value: []interface{}{a.Frame, a.Severity}})
	}
	anomalies := make([]opts.ScatterData, 0, len(r.Fluidity.VelocityAnomalies))
	for _, a := range r.Fluidity.VelocityAnomalies {
		anomalies = append(anomalies, opts.ScatterData{Value: []interface{}{a.Frame, a.Severity}})
	}

	scatter.AddSeries("acceleration spikes", spikes,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	scatter.AddSeries("rhythm breaks", breaks,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	scatter.AddSeries("velocity anomalies", anomalies,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	return scatter.Render(w)
}
