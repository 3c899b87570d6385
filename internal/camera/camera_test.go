package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/pose"
	"github.com/hooplab/shotform/internal/testutil"
)

func TestClassifyAngles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame pose.Frame
		want  Angle
	}{
		{
			name:  "both arms visible is front view",
			frame: testutil.NewBody().Frame(),
			want:  FrontView,
		},
		{
			name: "left arm occluded is left side view",
			frame: testutil.NewBody().
				Occlude(pose.LeftWrist).Occlude(pose.LeftElbow).Frame(),
			want: LeftSideView,
		},
		{
			name: "right arm occluded is right side view",
			frame: testutil.NewBody().
				Occlude(pose.RightWrist).Occlude(pose.RightElbow).Frame(),
			want: RightSideView,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Classify(testutil.Repeat(tc.frame, 20), pose.SideRight)
			assert.Equal(t, tc.want, p.Angle)
			assert.Greater(t, p.Confidence, 0.5)
		})
	}
}

func TestClassifyAngledView(t *testing.T) {
	t.Parallel()

	// Alternate between seeing and losing the left arm: ratios land between
	// the side-view and front-view bands.
	full := testutil.NewBody().Frame()
	halved := testutil.NewBody().Occlude(pose.LeftWrist).Occlude(pose.LeftElbow).Frame()
	frames := make([]pose.Frame, 0, 24)
	for i := 0; i < 12; i++ {
		frames = append(frames, full, halved)
	}

	p := Classify(frames, pose.SideRight)
	assert.Equal(t, AngledView, p.Angle)
}

// TestClassifyNoPoseFailSafe verifies the deliberate fail-safe: no pose at
// all yields Unknown, zero confidence, and no visible features.
func TestClassifyNoPoseFailSafe(t *testing.T) {
	t.Parallel()

	frames := make([]pose.Frame, 30)
	p := Classify(frames, pose.SideRight)

	assert.Equal(t, Unknown, p.Angle)
	assert.Zero(t, p.Confidence)
	for f, vis := range p.Visible {
		assert.False(t, vis, "feature %s should be invisible", f)
	}
	assert.False(t, p.Sees(FeatureGuideHand))
}

func TestVisibleFeatures(t *testing.T) {
	t.Parallel()

	t.Run("front view for right-handed shooter", func(t *testing.T) {
		p := Classify(testutil.Repeat(testutil.NewBody().Frame(), 20), pose.SideRight)
		require.Equal(t, FrontView, p.Angle)
		assert.True(t, p.Sees(FeatureGuideHand, FeatureShootingHand, FeatureShoulders, FeatureFrontView))
		assert.False(t, p.Visible[FeatureFullBodySide])
	})

	t.Run("left side view hides the guide hand", func(t *testing.T) {
		f := testutil.NewBody().Occlude(pose.LeftWrist).Occlude(pose.LeftElbow).Frame()
		p := Classify(testutil.Repeat(f, 20), pose.SideRight)
		require.Equal(t, LeftSideView, p.Angle)
		assert.False(t, p.Visible[FeatureGuideHand], "guide (left) hand is occluded")
		assert.True(t, p.Visible[FeatureShootingHand])
		assert.True(t, p.Visible[FeatureFullBodySide])
	})

	t.Run("face profile needs nose and an ear", func(t *testing.T) {
		f := testutil.NewBody().Drop(pose.Nose).Frame()
		p := Classify(testutil.Repeat(f, 20), pose.SideRight)
		assert.False(t, p.Visible[FeatureFaceProfile])
	})
}

func TestSampleFramesMidSequence(t *testing.T) {
	t.Parallel()

	// 3 posed frames: fewer than the minimum sample, all are used.
	few := testutil.Repeat(testutil.NewBody().Frame(), 3)
	assert.Len(t, sampleFrames(few), 3)

	// 40 posed frames: the middle 50% are used.
	many := testutil.Repeat(testutil.NewBody().Frame(), 40)
	assert.Len(t, sampleFrames(many), 20)

	// Undetected frames are excluded before sampling.
	mixed := append(make([]pose.Frame, 10), many...)
	assert.Len(t, sampleFrames(mixed), 20)
}
