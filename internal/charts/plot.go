package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hooplab/shotform/internal/metrics"
)

var seriesColors = []color.RGBA{
	{R: 0xd6, G: 0x2b, B: 0x2b, A: 0xff},
	{R: 0x2b, G: 0x6b, B: 0xd6, A: 0xff},
	{R: 0x2b, G: 0xa8, B: 0x4a, A: 0xff},
}

// MetricSeriesPNG saves the joint-angle traces over frame number. Frames
// without a metric leave a gap in that line.
func MetricSeriesPNG(frames []metrics.FrameMetrics, outPath string) error {
	p := plot.New()
	p.Title.Text = "Joint angles"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "degrees"
	p.Legend.Top = true

	series := []struct {
		name   string
		metric metrics.Metric
	}{
		{"elbow", metrics.ElbowAngle},
		{"knee", metrics.KneeAngle},
		{"wrist", metrics.WristAngle},
	}
	for i, s := range series {
		pts := make(plotter.XYs, 0, len(frames))
		for _, f := range frames {
			if v, ok := f.Metrics.Get(s.metric); ok {
				pts = append(pts, plotter.XY{X: float64(f.Index), Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("build %s line: %w", s.name, err)
		}
		line.Width = vg.Points(1)
		line.Color = seriesColors[i%len(seriesColors)]
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save angle plot: %w", err)
	}
	return nil
}

// VelocitySeriesPNG saves the wrist vertical velocity trace.
func VelocitySeriesPNG(frames []metrics.FrameMetrics, outPath string) error {
	p := plot.New()
	p.Title.Text = "Wrist vertical velocity"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "px/s"

	pts := make(plotter.XYs, 0, len(frames))
	for _, f := range frames {
		if v, ok := f.Metrics.Get(metrics.WristVerticalVelocity); ok {
			pts = append(pts, plotter.XY{X: float64(f.Index), Y: v})
		}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build velocity line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = seriesColors[1]
	p.Add(line)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save velocity plot: %w", err)
	}
	return nil
}
