package shotstart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/pose"
	"github.com/hooplab/shotform/internal/testutil"
)

func TestMovingAverage(t *testing.T) {
	t.Parallel()

	got := movingAverage([]float64{0, 0, 0, 9, 9, 9}, 3)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 3, 6, 9}, got, 1e-9)
}

// TestDetectBufferedBeforeRise feeds a long idle period followed by a sharp
// wrist rise and requires the detected start to land before the rise (buffer
// applied) but strictly after frame 0.
func TestDetectBufferedBeforeRise(t *testing.T) {
	t.Parallel()

	const fps = 30.0
	const riseFrame = 90
	frames := testutil.RisingWristSequence(150, riseFrame, 15)

	d := NewDetector(pose.SideRight, fps)
	res := d.Detect(frames, nil)

	require.Equal(t, MethodPoseActivity, res.Method)
	assert.Less(t, res.StartFrame, riseFrame, "start must precede the velocity rise")
	assert.Greater(t, res.StartFrame, 0, "long idle must not be kept in full")
	assert.GreaterOrEqual(t, res.Candidate, res.StartFrame)
	assert.InDelta(t, float64(res.Candidate-int(bufferSeconds*fps)),
		float64(res.StartFrame), 0.5, "buffer of ~0.8s should be subtracted")
}

func TestDetectNoPoseNoLumaFallsBackToZero(t *testing.T) {
	t.Parallel()

	frames := make([]pose.Frame, 40) // nothing ever detected
	d := NewDetector(pose.SideRight, 30)
	res := d.Detect(frames, nil)

	assert.Equal(t, 0, res.StartFrame)
	assert.Equal(t, MethodNone, res.Method)
	assert.Zero(t, res.Confidence)
}

func TestDetectClampsToZero(t *testing.T) {
	t.Parallel()

	// Rise almost immediately: the 0.8s buffer would go negative.
	frames := testutil.RisingWristSequence(80, 22, 15)
	d := NewDetector(pose.SideRight, 30)
	res := d.Detect(frames, nil)
	assert.GreaterOrEqual(t, res.StartFrame, 0)
}

func TestPoseActivityConfidenceIsPosedFraction(t *testing.T) {
	t.Parallel()

	frames := testutil.RisingWristSequence(100, 60, 15)
	// Knock out a fifth of the frames.
	for i := 0; i < 100; i += 5 {
		frames[i] = pose.Frame{}
	}
	d := NewDetector(pose.SideRight, 30)
	est, ok := d.poseActivity(frames)
	require.True(t, ok)
	assert.InDelta(t, 0.8, est.confidence, 0.01)
}

// makeLumas builds grayscale planes that are static until motionFrame and
// carry a moving bright block afterwards.
func makeLumas(n, motionFrame int) []Luma {
	const w, h = 64, 48
	out := make([]Luma, n)
	for i := range out {
		pix := make([]byte, w*h)
		for p := range pix {
			pix[p] = 60
		}
		if i >= motionFrame {
			// A 10x10 block sweeping across the centre row.
			offset := (i - motionFrame) * 3
			for y := h/2 - 5; y < h/2+5; y++ {
				for x := 0; x < 10; x++ {
					px := (w/2 - 15 + offset + x) % w
					if px < 0 {
						px += w
					}
					pix[y*w+px] = 220
				}
			}
		}
		out[i] = Luma{Pix: pix, Width: w, Height: h}
	}
	return out
}

func TestFrameDiffFindsMotionOnset(t *testing.T) {
	t.Parallel()

	d := NewDetector(pose.SideRight, 30)
	est, ok := d.frameDiff(makeLumas(60, 35))
	require.True(t, ok)
	assert.Equal(t, MethodFrameDiff, est.method)
	assert.InDelta(t, 35, float64(est.frame), 4)
	assert.Equal(t, diffSpikeConfidence, est.confidence)
}

func TestFrameDiffStaticSceneStillVotes(t *testing.T) {
	t.Parallel()

	d := NewDetector(pose.SideRight, 30)
	est, ok := d.frameDiff(makeLumas(40, 1000)) // never moves
	require.True(t, ok, "frame diff must never fail outright")
	assert.Equal(t, 0, est.frame)
	assert.Equal(t, diffDefaultConfidence, est.confidence)
}

func TestOpticalFlowDetectsCentreMotion(t *testing.T) {
	t.Parallel()

	d := NewDetector(pose.SideRight, 30)
	est, ok := d.opticalFlow(makeLumas(60, 35))
	if !ok {
		t.Skip("flow signal below threshold on synthetic block motion")
	}
	assert.Equal(t, MethodOpticalFlow, est.method)
	assert.LessOrEqual(t, est.confidence, flowConfidenceDiscount,
		"flow confidence is discounted relative to pose activity")
}

func TestPointFlowStaticIsZero(t *testing.T) {
	t.Parallel()

	l := makeLumas(2, 1000)
	vx, vy := pointFlow(l[0], l[1])
	assert.Zero(t, vx)
	assert.Zero(t, vy)
}
