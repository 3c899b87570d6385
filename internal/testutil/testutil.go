// Package testutil provides shared synthetic-pose fixtures for tests.
//
// Real captures are large and noisy; these builders produce small
// deterministic sequences with known biomechanical properties so tests can
// assert exact detector behaviour.
package testutil

import "github.com/hooplab/shotform/internal/pose"

// Vis is the landmark visibility used for all synthetic frames.
const Vis = 0.95

// Body is a builder for a single synthetic stance, viewed from the shooter's
// left side by default (camera sees the right side of the body). Coordinates
// follow image conventions: y grows downward.
type Body struct {
	frame pose.Frame
}

// NewBody returns a neutral standing pose for a right-handed shooter,
// centred around x=320 in a nominal 640x480 frame.
func NewBody() *Body {
	b := &Body{frame: pose.Frame{}}
	put := func(n pose.LandmarkName, x, y float64) {
		b.frame[n] = pose.Landmark{X: x, Y: y, Visibility: Vis}
	}
	put(pose.Nose, 320, 80)
	put(pose.RightEar, 330, 82)
	put(pose.LeftEar, 310, 82)
	put(pose.LeftShoulder, 290, 140)
	put(pose.RightShoulder, 350, 140)
	put(pose.RightElbow, 352, 200)
	put(pose.RightWrist, 354, 250)
	put(pose.RightThumb, 360, 255)
	put(pose.RightIndex, 362, 258)
	put(pose.LeftElbow, 288, 200)
	put(pose.LeftWrist, 286, 250)
	put(pose.LeftThumb, 280, 255)
	put(pose.LeftIndex, 278, 258)
	put(pose.LeftHip, 300, 280)
	put(pose.RightHip, 340, 280)
	put(pose.RightKnee, 342, 360)
	put(pose.RightAnkle, 344, 440)
	put(pose.LeftKnee, 298, 360)
	put(pose.LeftAnkle, 296, 440)
	return b
}

// Move places a landmark, keeping the standard visibility.
func (b *Body) Move(n pose.LandmarkName, x, y float64) *Body {
	b.frame[n] = pose.Landmark{X: x, Y: y, Visibility: Vis}
	return b
}

// Occlude lowers a landmark's visibility below any detection threshold.
func (b *Body) Occlude(n pose.LandmarkName) *Body {
	lm := b.frame[n]
	lm.Visibility = 0.1
	b.frame[n] = lm
	return b
}

// Drop removes a landmark entirely.
func (b *Body) Drop(n pose.LandmarkName) *Body {
	delete(b.frame, n)
	return b
}

// Frame returns a copy of the built pose frame.
func (b *Body) Frame() pose.Frame {
	out := pose.Frame{}
	for k, v := range b.frame {
		out[k] = v
	}
	return out
}

// Repeat returns n copies of the frame.
func Repeat(f pose.Frame, n int) []pose.Frame {
	out := make([]pose.Frame, n)
	for i := range out {
		out[i] = f
	}
	return out
}

// KneeBendSequence returns a sequence whose knee angle dips to its minimum at
// exactly frame keyFrame by dropping the hips along a triangular profile. The
// deeper dipDepth (pixels), the smaller the knee angle at the key frame.
func KneeBendSequence(n, keyFrame int, dipDepth float64) []pose.Frame {
	out := make([]pose.Frame, n)
	for i := range out {
		var frac float64
		if i <= keyFrame {
			frac = float64(i) / float64(maxInt(keyFrame, 1))
		} else {
			frac = float64(n-1-i) / float64(maxInt(n-1-keyFrame, 1))
		}
		drop := dipDepth * frac
		b := NewBody()
		b.Move(pose.RightHip, 340+drop*0.6, 280+drop)
		b.Move(pose.LeftHip, 300+drop*0.6, 280+drop)
		out[i] = b.Frame()
	}
	return out
}

// RisingWristSequence returns idle frames followed by a sharp linear rise of
// the shooting wrist starting at riseFrame. Wrist vertical velocity is zero
// before the rise and strongly positive after it.
func RisingWristSequence(n, riseFrame int, risePerFrame float64) []pose.Frame {
	out := make([]pose.Frame, n)
	for i := range out {
		b := NewBody()
		if i >= riseFrame {
			dy := risePerFrame * float64(i-riseFrame+1)
			b.Move(pose.RightWrist, 354, 250-dy)
			b.Move(pose.RightElbow, 352, 200-dy*0.7)
		}
		out[i] = b.Frame()
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
