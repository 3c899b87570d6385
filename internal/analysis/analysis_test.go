package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/analysis"
	"github.com/hooplab/shotform/internal/config"
	"github.com/hooplab/shotform/internal/pose"
	"github.com/hooplab/shotform/internal/testutil"
)

func shotInput() analysis.Input {
	// Long idle lead-in, then a sharp wrist rise: enough signal for the
	// pose-activity estimator to trim the dead footage and for the phase
	// segmenter to find a release.
	return analysis.Input{
		Frames:   testutil.RisingWristSequence(120, 90, 12),
		FPS:      30,
		Width:    640,
		Height:   480,
		Shooting: pose.SideRight,
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	t.Parallel()

	a := analysis.New(nil, config.DefaultDetectorFlags())
	report, err := a.Analyze(context.Background(), shotInput())
	require.NoError(t, err)

	assert.NotEqual(t, "", report.RunID.String())
	assert.False(t, report.CreatedAt.IsZero())
	assert.Equal(t, 30.0, report.FPS)

	// The idle lead-in must be trimmed, but the pre-motion buffer kept.
	assert.Greater(t, report.ShotStart.StartFrame, 0)
	assert.Less(t, report.ShotStart.StartFrame, 90)

	require.NotEmpty(t, report.Phases, "a clear wrist rise must segment at least one phase")
	for _, p := range report.Phases {
		assert.GreaterOrEqual(t, p.Start, report.ShotStart.StartFrame,
			"phase windows are absolute source-video frames")
		assert.LessOrEqual(t, p.End, 119)
		assert.GreaterOrEqual(t, p.KeyMoment, p.Start)
		assert.LessOrEqual(t, p.KeyMoment, p.End)
	}

	for _, f := range report.Flaws {
		assert.GreaterOrEqual(t, f.FrameNumber, report.ShotStart.StartFrame,
			"flaw frames are rebased to absolute numbers")
		assert.NotEmpty(t, f.CoachingTip)
	}
	assert.Len(t, report.Plan, len(report.Flaws))
	for i, step := range report.Plan {
		assert.Equal(t, i+1, step.Priority)
		assert.Equal(t, report.Flaws[i].ID, step.FlawID)
	}

	require.NotNil(t, report.Fluidity, "advanced fluidity is on by default")
	assert.GreaterOrEqual(t, report.Fluidity.Score, 0.0)
	assert.LessOrEqual(t, report.Fluidity.Score, 100.0)
}

func TestAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	a := analysis.New(nil, config.DefaultDetectorFlags())
	first, err := a.Analyze(context.Background(), shotInput())
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), shotInput())
	require.NoError(t, err)

	diff := cmp.Diff(first, second,
		cmpopts.IgnoreFields(analysis.Report{}, "RunID", "CreatedAt"))
	assert.Empty(t, diff, "identical input must produce identical analysis")
}

func TestAnalyzeInsufficientPoseDetection(t *testing.T) {
	t.Parallel()

	// 300 frames, only 3 of them posed: fatal, not an empty flaw list.
	frames := make([]pose.Frame, 300)
	body := testutil.NewBody().Frame()
	for _, i := range []int{50, 150, 250} {
		frames[i] = body
	}

	a := analysis.New(nil, config.DefaultDetectorFlags())
	_, err := a.Analyze(context.Background(), analysis.Input{Frames: frames, FPS: 30})
	require.Error(t, err)
	assert.True(t, errors.Is(err, analysis.ErrInsufficientPoseDetection))
}

func TestAnalyzeInputValidation(t *testing.T) {
	t.Parallel()

	a := analysis.New(nil, config.DefaultDetectorFlags())

	_, err := a.Analyze(context.Background(), analysis.Input{FPS: 30})
	assert.Error(t, err)

	_, err = a.Analyze(context.Background(), analysis.Input{
		Frames: testutil.Repeat(testutil.NewBody().Frame(), 10),
	})
	assert.Error(t, err, "fps is required")
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := analysis.New(nil, config.DefaultDetectorFlags())
	_, err := a.Analyze(ctx, shotInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
