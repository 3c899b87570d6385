package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/analysis"
	"github.com/hooplab/shotform/internal/flaws"
	"github.com/hooplab/shotform/internal/metrics"
	"github.com/hooplab/shotform/internal/phases"
)

func chartReport() *analysis.Report {
	return &analysis.Report{
		RunID: uuid.New(),
		Flaws: []flaws.DetectedFlaw{
			{ID: flaws.ElbowFlare, Severity: 28, Phase: phases.Release},
			{ID: flaws.PoorWristSnap, Severity: 14, Phase: phases.FollowThrough},
		},
		Fluidity: &flaws.FluiditySummary{
			Score:              61.5,
			AccelerationSpikes: []flaws.Anomaly{{Frame: 92, Severity: 6}},
			RhythmBreaks:       []flaws.Anomaly{{Frame: 95, Severity: 8}},
		},
	}
}

func TestSeverityHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, SeverityHTML(chartReport(), &buf))

	html := buf.String()
	assert.Contains(t, html, "elbow_flare")
	assert.Contains(t, html, "poor_wrist_snap")
	assert.Contains(t, html, "Flaw severity")
}

func TestFluidityHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FluidityHTML(chartReport(), &buf))

	html := buf.String()
	assert.Contains(t, html, "61.5")
	assert.Contains(t, html, "rhythm breaks")

	r := chartReport()
	r.Fluidity = nil
	assert.Error(t, FluidityHTML(r, &bytes.Buffer{}))
}

func TestMetricSeriesPNG(t *testing.T) {
	t.Parallel()

	frames := make([]metrics.FrameMetrics, 30)
	for i := range frames {
		frames[i] = metrics.FrameMetrics{
			Index: i,
			Metrics: metrics.MetricSet{
				metrics.ElbowAngle:            120 + float64(i),
				metrics.KneeAngle:             160 - float64(i),
				metrics.WristVerticalVelocity: 50 * float64(i%5),
			},
		}
	}

	anglePath := filepath.Join(t.TempDir(), "angles.png")
	require.NoError(t, MetricSeriesPNG(frames, anglePath))
	info, err := os.Stat(anglePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	velPath := filepath.Join(t.TempDir(), "velocity.png")
	require.NoError(t, VelocitySeriesPNG(frames, velPath))
	_, err = os.Stat(velPath)
	require.NoError(t, err)
}
