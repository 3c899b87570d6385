package phases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/metrics"
)

// seq builds a metrics sequence from parallel knee-angle and wrist-velocity
// series; a negative sentinel marks a missing value.
func seq(knee, wristVel []float64) []metrics.FrameMetrics {
	n := len(knee)
	if len(wristVel) > n {
		n = len(wristVel)
	}
	out := make([]metrics.FrameMetrics, n)
	for i := range out {
		m := metrics.MetricSet{}
		if i < len(knee) && knee[i] >= 0 {
			m[metrics.KneeAngle] = knee[i]
		}
		if i < len(wristVel) && wristVel[i] > -9000 {
			m[metrics.WristVerticalVelocity] = wristVel[i]
		}
		out[i] = metrics.FrameMetrics{Index: i, Metrics: m}
	}
	return out
}

// TestLoadDipKeyMomentAtMinimum verifies the Load/Dip key frame lands on the
// single unambiguous knee-angle minimum.
func TestLoadDipKeyMomentAtMinimum(t *testing.T) {
	t.Parallel()

	knee := make([]float64, 60)
	for i := range knee {
		knee[i] = 170
	}
	knee[41] = 100 // deepest bend at frame 41

	ps := Segment(seq(knee, nil), 30)
	load, ok := Find(ps, LoadDip)
	require.True(t, ok)
	assert.Equal(t, 41, load.KeyMoment)
	assert.Equal(t, 41, load.End)
	assert.Equal(t, 11, load.Start, "window reaches back 1s at 30fps")
	assert.LessOrEqual(t, load.Start, load.KeyMoment)
	assert.LessOrEqual(t, load.KeyMoment, load.End)
}

func TestReleaseAndFollowThroughShareKeyFrame(t *testing.T) {
	t.Parallel()

	vel := make([]float64, 50)
	for i := range vel {
		vel[i] = 10
	}
	vel[30] = 900 // peak upward wrist velocity

	ps := Segment(seq(nil, vel), 30)

	rel, ok := Find(ps, Release)
	require.True(t, ok)
	assert.Equal(t, 30, rel.KeyMoment)
	assert.Equal(t, 27, rel.Start)
	assert.Equal(t, 38, rel.End, "release window is deliberately narrow")

	ft, ok := Find(ps, FollowThrough)
	require.True(t, ok)
	assert.Equal(t, rel.KeyMoment, ft.KeyMoment, "phases overlap at the release instant")
	assert.Equal(t, 28, ft.Start)
	assert.Equal(t, 42, ft.End, "follow-through extends further after release")
}

func TestMissingMetricsOmitPhases(t *testing.T) {
	t.Parallel()

	t.Run("no knee angle drops Load/Dip", func(t *testing.T) {
		vel := []float64{1, 2, 300, 2, 1}
		ps := Segment(seq(nil, vel), 30)
		_, ok := Find(ps, LoadDip)
		assert.False(t, ok)
		_, ok = Find(ps, Release)
		assert.True(t, ok)
	})

	t.Run("no wrist velocity drops Release and Follow-Through", func(t *testing.T) {
		knee := []float64{170, 150, 120, 150, 170}
		ps := Segment(seq(knee, nil), 30)
		_, ok := Find(ps, Release)
		assert.False(t, ok)
		_, ok = Find(ps, FollowThrough)
		assert.False(t, ok)
	})

	t.Run("empty sequence yields no phases", func(t *testing.T) {
		assert.Empty(t, Segment(nil, 30))
	})
}

// TestWindowsClampedToSequence verifies bounds never escape [0, n-1].
func TestWindowsClampedToSequence(t *testing.T) {
	t.Parallel()

	knee := []float64{120, 170, 170, 170}
	vel := []float64{-9999, 5, 800, 5}
	ps := Segment(seq(knee, vel), 30)
	require.NotEmpty(t, ps)
	for _, p := range ps {
		assert.GreaterOrEqual(t, p.Start, 0, "%s start", p.Name)
		assert.Less(t, p.End, 4, "%s end", p.Name)
		assert.LessOrEqual(t, p.Start, p.KeyMoment, "%s", p.Name)
		assert.LessOrEqual(t, p.KeyMoment, p.End, "%s", p.Name)
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()

	p := Phase{Start: 10, End: 20}
	assert.Zero(t, p.Progress(10))
	assert.InDelta(t, 0.5, p.Progress(15), 1e-9)
	assert.InDelta(t, 1.0, p.Progress(20), 1e-9)
	assert.Zero(t, p.Progress(5), "clamped below")
	assert.InDelta(t, 1.0, p.Progress(25), 1e-9, "clamped above")

	single := Phase{Start: 7, End: 7}
	assert.InDelta(t, 1.0, single.Progress(7), 1e-9)
}
