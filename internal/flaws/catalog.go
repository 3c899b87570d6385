package flaws

import (
	"github.com/hooplab/shotform/internal/camera"
	"github.com/hooplab/shotform/internal/config"
	"github.com/hooplab/shotform/internal/metrics"
	"github.com/hooplab/shotform/internal/phases"
)

// Spec is the static, per-flaw-type configuration: which phases a detector
// analyses, its primary threshold, and what the camera must be able to see
// for it to run at all. The full catalog is fixed for the process lifetime.
type Spec struct {
	ID ID
	// Phases restricts analysis; nil means all phases (the whole trimmed
	// sequence).
	Phases []phases.Name
	// Threshold is the primary deviation threshold that defines "flawed".
	Threshold float64
	// RequiredFeatures must all be observable for the detector to run.
	RequiredFeatures []camera.Feature
	// EligibleAngles lists camera angles the detector can work from.
	EligibleAngles []camera.Angle
}

// Angle eligibility sets shared across the catalog.
var (
	anglesAllKnown = []camera.Angle{
		camera.LeftSideView, camera.RightSideView, camera.FrontView, camera.AngledView,
	}
	anglesSide = []camera.Angle{
		camera.LeftSideView, camera.RightSideView, camera.AngledView,
	}
	anglesFrontOnly = []camera.Angle{camera.FrontView}
	anglesAny       = []camera.Angle{
		camera.LeftSideView, camera.RightSideView, camera.FrontView,
		camera.AngledView, camera.Unknown,
	}
)

// evalContext is the evidence window an evaluator works from: the trimmed
// frame-metrics sequence and its phase segmentation.
type evalContext struct {
	frames []metrics.FrameMetrics
	phases []phases.Phase
	ideals *config.IdealShot
	fps    float64
}

func (c *evalContext) phase(name phases.Name) (phases.Phase, bool) {
	return phases.Find(c.phases, name)
}

func (c *evalContext) metric(pos int, name metrics.Metric) (float64, bool) {
	if pos < 0 || pos >= len(c.frames) {
		return 0, false
	}
	return c.frames[pos].Metrics.Get(name)
}

func (c *evalContext) metricCount(pos int) int {
	if pos < 0 || pos >= len(c.frames) {
		return 0
	}
	return len(c.frames[pos].Metrics)
}

// evaluator is one flaw detector: a typed variant carrying its own spec and
// evaluation rule. The catalog below is the closed set; adding a detector
// means adding a type here, so "which detectors exist" is statically
// enumerable and exhaustively testable.
type evaluator interface {
	Spec() Spec
	// Evaluate inspects the phase-restricted evidence and reports a
	// confirmed detection, or false when the signal failed its
	// consistency gate.
	Evaluate(ctx *evalContext) (detection, bool)
}

// Catalog returns the full detector catalog in its fixed evaluation order.
func Catalog() []evaluator {
	return []evaluator{
		elbowFlareDetector{},
		insufficientKneeBendDetector{},
		excessiveKneeBendDetector{},
		poorWristSnapDetector{},
		guideHandThumbFlickDetector{},
		guideHandUnderBallDetector{},
		guideHandOnTopDetector{},
		balanceIssuesDetector{},
		shotTimingDetector{},
		followThroughTimingDetector{},
		eyeTrackingDetector{},
		shoulderAlignmentDetector{},
		fluiditySpikeDetector{},
	}
}

type elbowFlareDetector struct{}

func (elbowFlareDetector) Spec() Spec {
	return Spec{
		ID:               ElbowFlare,
		Phases:           []phases.Name{phases.LoadDip, phases.Release},
		Threshold:        elbowLateralAngleThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureShootingHand},
		EligibleAngles:   anglesAllKnown,
	}
}

type insufficientKneeBendDetector struct{}

func (insufficientKneeBendDetector) Spec() Spec {
	return Spec{
		ID:               InsufficientKneeBend,
		Phases:           []phases.Name{phases.LoadDip},
		Threshold:        insufficientKneeThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureFullBodySide},
		EligibleAngles:   anglesSide,
	}
}

type excessiveKneeBendDetector struct{}

func (excessiveKneeBendDetector) Spec() Spec {
	return Spec{
		ID:               ExcessiveKneeBend,
		Phases:           []phases.Name{phases.LoadDip},
		Threshold:        excessiveKneeMargin,
		RequiredFeatures: []camera.Feature{camera.FeatureFullBodySide},
		EligibleAngles:   anglesSide,
	}
}

type poorWristSnapDetector struct{}

func (poorWristSnapDetector) Spec() Spec {
	return Spec{
		ID:               PoorWristSnap,
		Phases:           []phases.Name{phases.FollowThrough},
		Threshold:        wristSnapDeficitMargin,
		RequiredFeatures: []camera.Feature{camera.FeatureShootingHand},
		EligibleAngles:   anglesSide,
	}
}

type guideHandThumbFlickDetector struct{}

func (guideHandThumbFlickDetector) Spec() Spec {
	return Spec{
		ID:               GuideHandThumbFlick,
		Phases:           []phases.Name{phases.FollowThrough},
		Threshold:        thumbFlickPrimaryThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureGuideHand},
		EligibleAngles:   anglesAllKnown,
	}
}

type guideHandUnderBallDetector struct{}

func (guideHandUnderBallDetector) Spec() Spec {
	return Spec{
		ID:               GuideHandUnderBall,
		Phases:           []phases.Name{phases.Release},
		Threshold:        underBallVerticalThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureGuideHand},
		EligibleAngles:   anglesAllKnown,
	}
}

type guideHandOnTopDetector struct{}

func (guideHandOnTopDetector) Spec() Spec {
	return Spec{
		ID:               GuideHandOnTop,
		Phases:           []phases.Name{phases.LoadDip, phases.Release},
		Threshold:        onTopVerticalThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureGuideHand},
		EligibleAngles:   anglesAllKnown,
	}
}

type balanceIssuesDetector struct{}

func (balanceIssuesDetector) Spec() Spec {
	return Spec{
		ID:               BalanceIssues,
		Phases:           nil, // whole sequence
		Threshold:        balanceLeanThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureShoulders},
		EligibleAngles:   anglesAllKnown,
	}
}

type shotTimingDetector struct{}

func (shotTimingDetector) Spec() Spec {
	return Spec{
		ID:               ShotTimingInefficient,
		Phases:           []phases.Name{phases.Release},
		Threshold:        timingVelocityOutlier,
		RequiredFeatures: []camera.Feature{camera.FeatureShootingHand},
		EligibleAngles:   anglesAllKnown,
	}
}

type followThroughTimingDetector struct{}

func (followThroughTimingDetector) Spec() Spec {
	return Spec{
		ID:               FollowThroughTiming,
		Phases:           []phases.Name{phases.FollowThrough},
		Threshold:        reboundAngleThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureShootingHand},
		EligibleAngles:   anglesSide,
	}
}

type eyeTrackingDetector struct{}

func (eyeTrackingDetector) Spec() Spec {
	return Spec{
		ID:               EyeTrackingPoor,
		Phases:           []phases.Name{phases.LoadDip, phases.Release},
		Threshold:        eyeTrackingThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureFaceProfile},
		EligibleAngles:   anglesAllKnown,
	}
}

type shoulderAlignmentDetector struct{}

func (shoulderAlignmentDetector) Spec() Spec {
	return Spec{
		ID:               PoorShoulderAlignment,
		Phases:           []phases.Name{phases.LoadDip},
		Threshold:        shoulderAlignmentThreshold,
		RequiredFeatures: []camera.Feature{camera.FeatureFrontView},
		EligibleAngles:   anglesFrontOnly,
	}
}

type fluiditySpikeDetector struct{}

func (fluiditySpikeDetector) Spec() Spec {
	return Spec{
		ID:             ShotLacksFluidity,
		Phases:         []phases.Name{phases.Release},
		Threshold:      fluiditySpikeThreshold,
		EligibleAngles: anglesAny,
	}
}
