package flaws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/metrics"
)

func velocityTrace(vels []float64) []metrics.FrameMetrics {
	frames := make([]metrics.FrameMetrics, len(vels))
	for i, v := range vels {
		frames[i] = metrics.FrameMetrics{
			Index:   i,
			Metrics: metrics.MetricSet{metrics.WristVerticalVelocity: v},
		}
	}
	return frames
}

func TestAnalyzeFluiditySmoothRise(t *testing.T) {
	t.Parallel()

	vels := make([]float64, 20)
	for i := range vels {
		vels[i] = 100 + 10*float64(i)
	}
	s := AnalyzeFluidity(velocityTrace(vels), 30)

	assert.GreaterOrEqual(t, s.Score, 90.0)
	assert.Empty(t, s.AccelerationSpikes)
	assert.Empty(t, s.RhythmBreaks)
}

func TestAnalyzeFluidityOscillation(t *testing.T) {
	t.Parallel()

	vels := make([]float64, 20)
	for i := range vels {
		vels[i] = 400
		if i%2 == 1 {
			vels[i] = -400
		}
	}
	s := AnalyzeFluidity(velocityTrace(vels), 30)

	assert.Less(t, s.Score, 70.0)
	assert.NotEmpty(t, s.AccelerationSpikes)
	assert.NotEmpty(t, s.RhythmBreaks)
	for _, a := range s.RhythmBreaks {
		assert.Greater(t, a.Severity, 0.0)
	}
}

func TestAnalyzeFluidityHitch(t *testing.T) {
	t.Parallel()

	// A single double-pump in an otherwise smooth rise: one reversal pair,
	// a modest score cost, no floor-out.
	vels := []float64{100, 150, 200, 250, -200, 250, 300, 350, 400, 450, 500, 550}
	s := AnalyzeFluidity(velocityTrace(vels), 30)

	require.NotEmpty(t, s.RhythmBreaks)
	assert.Less(t, s.Score, 90.0)
	assert.Greater(t, s.Score, 0.0)
}

func TestAnalyzeFluidityTooFewSamples(t *testing.T) {
	t.Parallel()

	s := AnalyzeFluidity(velocityTrace([]float64{100, 200, 300}), 30)
	assert.Equal(t, 100.0, s.Score)
	assert.Empty(t, s.AccelerationSpikes)

	s = AnalyzeFluidity(nil, 30)
	assert.Equal(t, 100.0, s.Score)
}

func TestAnalyzeFluidityVelocityAnomalies(t *testing.T) {
	t.Parallel()

	// One wild sample in a nearly flat trace stands far outside the
	// magnitude distribution.
	vels := make([]float64, 20)
	for i := range vels {
		vels[i] = 200 + float64(i%3)*5
	}
	vels[10] = 1200
	s := AnalyzeFluidity(velocityTrace(vels), 30)

	require.NotEmpty(t, s.VelocityAnomalies)
	assert.Equal(t, 10, s.VelocityAnomalies[0].Frame)
}

func TestAnalyzeFluidityScoreNeverNegative(t *testing.T) {
	t.Parallel()

	vels := make([]float64, 40)
	for i := range vels {
		vels[i] = 2000
		if i%2 == 1 {
			vels[i] = -2000
		}
	}
	s := AnalyzeFluidity(velocityTrace(vels), 60)
	assert.GreaterOrEqual(t, s.Score, 0.0)
}
