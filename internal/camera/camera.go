// Package camera infers which body sides and features a capture can actually
// show, so flaw detectors that need an unobservable feature are suppressed
// instead of firing on noise.
package camera

import "github.com/hooplab/shotform/internal/pose"

// Angle is the classified camera viewpoint. Side views are named for the
// side of the shooter's body the camera sees: a camera on the shooter's left
// sees the left arm unoccluded and is a right_side_view's mirror.
type Angle string

const (
	LeftSideView  Angle = "left_side_view"  // camera sees the shooter's right side
	RightSideView Angle = "right_side_view" // camera sees the shooter's left side
	FrontView     Angle = "front_view"
	AngledView    Angle = "angled_view"
	Unknown       Angle = "unknown"
)

// Feature names an observable body feature a detector may require.
type Feature string

const (
	FeatureGuideHand    Feature = "guide_hand"
	FeatureShootingHand Feature = "shooting_hand"
	FeatureFaceProfile  Feature = "face_profile"
	FeatureFullBodySide Feature = "full_body_side"
	FeatureFrontView    Feature = "front_view"
	FeatureShoulders    Feature = "shoulders"
)

// Profile is the per-video visibility classification. Computed once from a
// stable mid-sequence sample and read-only afterwards.
type Profile struct {
	Angle      Angle
	Visible    map[Feature]bool
	Confidence float64
}

// Sees reports whether every requested feature is observable.
func (p Profile) Sees(features ...Feature) bool {
	for _, f := range features {
		if !p.Visible[f] {
			return false
		}
	}
	return true
}

// Classification thresholds on per-sample visibility ratios.
const (
	landmarkVisMin    = 0.5
	sideDominantRatio = 0.7
	sideHiddenRatio   = 0.3
	frontBothRatio    = 0.5
	faceProfileRatio  = 0.5
	featureSeenRatio  = 0.5
	shoulderPairRatio = 0.4
	minSampleFrames   = 4
)

// Classify infers the visibility profile from the capture's pose frames for
// a shooter using the given hand. If no frame has a successful pose at all it
// returns Unknown with every feature false and zero confidence; that fail-safe
// disables every gated detector rather than hallucinating flaws on bad input.
func Classify(frames []pose.Frame, shooting pose.Side) Profile {
	sample := sampleFrames(frames)
	if len(sample) == 0 {
		return Profile{Angle: Unknown, Visible: noFeatures(), Confidence: 0}
	}

	var leftSeen, rightSeen, faceSeen int
	for _, f := range sample {
		if armVisible(f, pose.SideLeft) {
			leftSeen++
		}
		if armVisible(f, pose.SideRight) {
			rightSeen++
		}
		if faceProfileVisible(f) {
			faceSeen++
		}
	}
	n := float64(len(sample))
	leftRatio := float64(leftSeen) / n
	rightRatio := float64(rightSeen) / n
	faceRatio := float64(faceSeen) / n

	var angle Angle
	var confidence float64
	switch {
	case rightRatio > sideDominantRatio && leftRatio < sideHiddenRatio:
		angle, confidence = LeftSideView, rightRatio
	case leftRatio > sideDominantRatio && rightRatio < sideHiddenRatio:
		angle, confidence = RightSideView, leftRatio
	case leftRatio > frontBothRatio && rightRatio > frontBothRatio:
		angle, confidence = FrontView, minF(leftRatio, rightRatio)
	default:
		angle, confidence = AngledView, maxF(leftRatio, rightRatio)
	}

	shootRatio := rightRatio
	guideRatio := leftRatio
	if shooting == pose.SideLeft {
		shootRatio, guideRatio = leftRatio, rightRatio
	}

	visible := map[Feature]bool{
		FeatureGuideHand:    guideRatio > featureSeenRatio,
		FeatureShootingHand: shootRatio > featureSeenRatio,
		FeatureFaceProfile:  faceRatio > faceProfileRatio,
		FeatureFullBodySide: angle == LeftSideView || angle == RightSideView,
		FeatureFrontView:    angle == FrontView,
		FeatureShoulders:    leftRatio > shoulderPairRatio && rightRatio > shoulderPairRatio,
	}

	return Profile{Angle: angle, Visible: visible, Confidence: confidence}
}

// sampleFrames returns the middle 50% (by index) of frames with a successful
// pose, or all of them when fewer than minSampleFrames are available.
func sampleFrames(frames []pose.Frame) []pose.Frame {
	var posed []pose.Frame
	for _, f := range frames {
		if f.Detected() {
			posed = append(posed, f)
		}
	}
	if len(posed) < minSampleFrames {
		return posed
	}
	lo := len(posed) / 4
	hi := lo + len(posed)/2
	return posed[lo:hi]
}

func armVisible(f pose.Frame, side pose.Side) bool {
	_, wristOK := f.Get(side.Wrist(), landmarkVisMin)
	_, elbowOK := f.Get(side.Elbow(), landmarkVisMin)
	return wristOK && elbowOK
}

func faceProfileVisible(f pose.Frame) bool {
	if _, ok := f.Get(pose.Nose, landmarkVisMin); !ok {
		return false
	}
	_, leftEar := f.Get(pose.LeftEar, landmarkVisMin)
	_, rightEar := f.Get(pose.RightEar, landmarkVisMin)
	return leftEar || rightEar
}

func noFeatures() map[Feature]bool {
	return map[Feature]bool{
		FeatureGuideHand:    false,
		FeatureShootingHand: false,
		FeatureFaceProfile:  false,
		FeatureFullBodySide: false,
		FeatureFrontView:    false,
		FeatureShoulders:    false,
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
