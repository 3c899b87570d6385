package metrics

import (
	"math"

	"github.com/hooplab/shotform/internal/geom"
	"github.com/hooplab/shotform/internal/pose"
)

// minLandmarkVisibility is the estimator confidence below which a landmark is
// treated as unobserved for metric computation.
const minLandmarkVisibility = 0.5

// wristDropReference is the synthetic vertical reference length (pixels)
// hung below the wrist for the simplified wrist-snap angle.
const wristDropReference = 50.0

// Extractor derives FrameMetrics from pose frames. Velocity metrics use only
// the immediately preceding frame, so extraction is inherently sequential.
type Extractor struct {
	shooting pose.Side
	fps      float64
}

// NewExtractor creates an extractor for a shooter using the given hand.
func NewExtractor(shooting pose.Side, fps float64) *Extractor {
	return &Extractor{shooting: shooting, fps: fps}
}

// ExtractAll produces exactly one FrameMetrics per input frame, in order.
func (e *Extractor) ExtractAll(frames []pose.Frame) []FrameMetrics {
	out := make([]FrameMetrics, 0, len(frames))
	var prev *FrameMetrics
	for i, f := range frames {
		fm := e.extract(i, f, prev)
		out = append(out, fm)
		prev = &out[len(out)-1]
	}
	return out
}

// extract computes one frame's record. prev is the previous frame's record
// (nil for the first frame); it is the only temporal state used.
func (e *Extractor) extract(index int, frame pose.Frame, prev *FrameMetrics) FrameMetrics {
	fm := FrameMetrics{Index: index, Metrics: MetricSet{}}
	if !frame.Detected() {
		return fm
	}
	fm.Joints = frame

	shoot := e.shooting
	guide := shoot.Opposite()

	shoulder, hasShoulder := frame.Get(shoot.Shoulder(), minLandmarkVisibility)
	elbow, hasElbow := frame.Get(shoot.Elbow(), minLandmarkVisibility)
	wrist, hasWrist := frame.Get(shoot.Wrist(), minLandmarkVisibility)

	// Shooting-arm elbow extension.
	if hasShoulder && hasElbow && hasWrist {
		fm.Metrics.put(ElbowAngle, geom.Angle(shoulder.Point(), elbow.Point(), wrist.Point()))
	}

	// Simplified wrist snap: angle between the forearm and a synthetic
	// vertical reference hung below the wrist.
	if hasElbow && hasWrist {
		below := geom.Point{X: wrist.X, Y: wrist.Y + wristDropReference}
		fm.Metrics.put(WristAngle, geom.Angle(elbow.Point(), wrist.Point(), below))
	}

	// Knee bend, shooting side preferred, guide side as fallback.
	if knee, ok := e.kneeAngle(frame, shoot); ok {
		fm.Metrics.put(KneeAngle, knee)
	} else if knee, ok := e.kneeAngle(frame, guide); ok {
		fm.Metrics.put(KneeAngle, knee)
	}

	// Elbow flare relative to the shoulder midline.
	lShoulder, hasL := frame.Get(pose.LeftShoulder, minLandmarkVisibility)
	rShoulder, hasR := frame.Get(pose.RightShoulder, minLandmarkVisibility)
	if hasL && hasR && hasElbow && hasShoulder {
		width := geom.Distance(lShoulder.Point(), rShoulder.Point())
		if width > 1 {
			midX := (lShoulder.X + rShoulder.X) / 2
			lateral := math.Abs(elbow.X - midX)
			fm.Metrics.put(ElbowFlareRatio, lateral/width*100)
		}
		// Same deviation expressed as the angle of the upper arm from vertical.
		dx := math.Abs(elbow.X - shoulder.X)
		dy := math.Abs(elbow.Y - shoulder.Y)
		if dy > 1 {
			fm.Metrics.put(ElbowLateralAngle, math.Atan2(dx, dy)*180/math.Pi)
		}
	}

	// Guide-hand placement relative to the shooting hand.
	guideWrist, hasGuideWrist := frame.Get(guide.Wrist(), minLandmarkVisibility)
	if hasWrist && hasGuideWrist {
		// Positive vertical offset = guide hand below the shooting hand.
		fm.Metrics.put(GuideHandVerticalOffset, guideWrist.Y-wrist.Y)
		fm.Metrics.put(GuideHandHorizontalOffset, math.Abs(guideWrist.X-wrist.X))
	}

	// Guide-hand thumb deviation from its neutral perpendicular-to-forearm
	// rest position.
	guideElbow, hasGuideElbow := frame.Get(guide.Elbow(), minLandmarkVisibility)
	guideThumb, hasGuideThumb := frame.Get(guide.Thumb(), minLandmarkVisibility)
	if hasGuideWrist && hasGuideElbow && hasGuideThumb {
		a := geom.Angle(guideThumb.Point(), guideWrist.Point(), guideElbow.Point())
		fm.Metrics.put(GuideHandThumbAngle, math.Abs(90-a))
	}

	// Head rotation: nose displacement from the shoulder midline, scaled by
	// shoulder width.
	if nose, ok := frame.Get(pose.Nose, minLandmarkVisibility); ok && hasL && hasR {
		width := geom.Distance(lShoulder.Point(), rShoulder.Point())
		if width > 1 {
			midX := (lShoulder.X + rShoulder.X) / 2
			fm.Metrics.put(HeadRotationDeviation, math.Atan2(math.Abs(nose.X-midX), width)*180/math.Pi)
		}
	}

	// Shoulder line deviation from horizontal.
	if hasL && hasR {
		dx := math.Abs(lShoulder.X - rShoulder.X)
		dy := math.Abs(lShoulder.Y - rShoulder.Y)
		if dx > 1 {
			fm.Metrics.put(ShoulderSquaringDeviation, math.Atan2(dy, dx)*180/math.Pi)
		}
	}

	// Body lean: hip-midpoint to shoulder-midpoint deviation from vertical.
	lHip, hasLHip := frame.Get(pose.LeftHip, minLandmarkVisibility)
	rHip, hasRHip := frame.Get(pose.RightHip, minLandmarkVisibility)
	if hasL && hasR && hasLHip && hasRHip {
		hipMid := geom.Point{X: (lHip.X + rHip.X) / 2, Y: (lHip.Y + rHip.Y) / 2}
		shoulderMid := geom.Point{X: (lShoulder.X + rShoulder.X) / 2, Y: (lShoulder.Y + rShoulder.Y) / 2}
		dx := math.Abs(shoulderMid.X - hipMid.X)
		dy := math.Abs(hipMid.Y - shoulderMid.Y)
		if dy > 1 {
			fm.Metrics.put(BodyLeanAngle, math.Atan2(dx, dy)*180/math.Pi)
		}
	}

	// Vertical wrist velocity against the previous frame's wrist position.
	if prev != nil && prev.Posed() && hasWrist {
		if prevWrist, ok := prev.Joints.Get(shoot.Wrist(), minLandmarkVisibility); ok {
			fm.Metrics.put(WristVerticalVelocity, geom.VerticalVelocity(prevWrist.Point(), wrist.Point(), e.fps))
		}
	}

	return fm
}

func (e *Extractor) kneeAngle(frame pose.Frame, side pose.Side) (float64, bool) {
	hip, ok1 := frame.Get(side.Hip(), minLandmarkVisibility)
	knee, ok2 := frame.Get(side.Knee(), minLandmarkVisibility)
	ankle, ok3 := frame.Get(side.Ankle(), minLandmarkVisibility)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return geom.Angle(hip.Point(), knee.Point(), ankle.Point()), true
}
