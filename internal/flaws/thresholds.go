package flaws

// Detector thresholds and severity scaling. Every constant here was tuned
// empirically against real footage rather than derived from a biomechanical
// model; treat retuning as calibration work, one line per detector.

// Elbow flare fires on any of three independent signals, each with its own
// threshold and severity curve, and is confirmed only when it persists across
// most of the Release phase.
const (
	elbowExtensionDeficitMargin = 12.0 // degrees below ideal minimum
	elbowExtensionSeverityScale = 1.8
	elbowExtensionSeverityCap   = 30.0

	elbowFlareRatioThreshold = 15.0 // percent of shoulder width
	elbowFlareRatioScale     = 1.5
	elbowFlareRatioCap       = 35.0

	elbowLateralAngleThreshold = 6.0 // degrees from vertical
	elbowLateralAngleScale     = 2.5
	elbowLateralAngleCap       = 40.0

	// The consistency gate: at least this fraction of the Release phase's
	// frame count (minimum two frames) must carry the signal.
	elbowFlareConsistencyFraction = 0.6
	elbowFlareMinFrames           = 2
	elbowFlareMinMeanSeverity     = 5.0
)

// Knee-bend detectors examine only the Load/Dip key moment; the elevated
// mean-severity floor substitutes for multi-frame consistency.
const (
	insufficientKneeThreshold = 130.0 // degrees; stricter than the nominal ideal max
	insufficientKneeScale     = 1.5
	insufficientKneeCap       = 30.0

	excessiveKneeMargin = 25.0 // degrees below ideal maximum
	excessiveKneeScale  = 1.5
	excessiveKneeCap    = 30.0

	kneeBendMinMeanSeverity = 8.0
)

const (
	wristSnapDeficitMargin   = 20.0 // degrees below ideal minimum
	wristSnapSeverityScale   = 1.8
	wristSnapSeverityCap     = 40.0
	wristSnapKeyWindow       = 2 // frames either side of the release instant
	wristSnapMinMeanSeverity = 10.0
)

// Thumb flick is the most timing-sensitive detector: it only looks at the
// final fraction of Follow-Through, after the ball has plainly left the hand,
// and accepts a single qualifying frame because a flick can be momentary.
const (
	thumbFlickPhaseWindow       = 0.9 // final 10% of Follow-Through
	thumbFlickPrimaryThreshold  = 10.0
	thumbFlickSensitivity       = 0.7 // multiplier on the primary threshold
	thumbFlickPrimaryScale      = 2.0
	thumbFlickPrimaryCap        = 30.0
	thumbFlickSubtleThreshold   = 5.0
	thumbFlickSubtleMinProgress = 0.3
	thumbFlickSubtleScale       = 1.5
	thumbFlickSubtleCap         = 20.0
	thumbFlickMinFrames         = 1
	thumbFlickMinMeanSeverity   = 3.0
)

const (
	underBallVerticalThreshold = 25.0 // px: guide hand clearly below shooting hand
	underBallVerticalScale     = 1.2
	underBallVerticalCap       = 30.0
	// Secondary "dual control" signal: hands centred and near-equal height.
	underBallDualHorizontalMax = 15.0
	underBallDualVerticalMax   = 10.0
	underBallDualBaseSeverity  = 12.0
	underBallDualScale         = 0.5
	underBallDualCap           = 25.0
	underBallKeyWindow         = 2

	onTopVerticalThreshold = -20.0 // px: guide hand clearly above
	onTopSeverityScale     = 1.2
	onTopSeverityCap       = 30.0
	// Ball-handling window: Load/Dip plus the first fraction of Release.
	onTopReleaseFraction = 0.3

	guideHandMinMeanSeverity = 12.0
)

const (
	balanceLeanThreshold = 12.0 // degrees of trunk lean from vertical
	balanceLeanScale     = 1.5
	balanceLeanCap       = 30.0

	timingVelocityOutlier = 500.0 // px/s off-peak wrist speed during Release
	timingSeverityScale   = 0.02
	timingSeverityCap     = 15.0

	reboundAngleThreshold = 15.0 // degrees of wrist-angle recovery after release
	reboundSeverityScale  = 1.0
	reboundSeverityCap    = 20.0

	eyeTrackingThreshold = 15.0 // degrees of head rotation
	eyeTrackingScale     = 1.2
	eyeTrackingCap       = 25.0

	shoulderAlignmentThreshold = 12.0 // degrees off horizontal
	shoulderAlignmentScale     = 1.5
	shoulderAlignmentCap       = 25.0

	simpleDetectorMinMeanSeverity = 3.0
)

// The per-frame fluidity detector only reacts to extreme release-phase
// velocity spikes; nuanced fluidity assessment belongs to the whole-sequence
// analyzer, which takes precedence.
const (
	fluiditySpikeThreshold    = 600.0 // px/s
	fluiditySpikeScale        = 0.05
	fluiditySpikeCap          = 20.0
	fluidityMinMeanSeverity   = 15.0
	fluidityInjectionScore    = 70.0 // analyzer scores below this inject a flaw
	fluidityInjectionScale    = 1.0
	fluidityInjectionCap      = 40.0
)

// Result capping: at most topFlawCount flaws are reported when any exceed the
// significance floor, otherwise the top fallbackFlawCount of whatever exists.
const (
	significantSeverityFloor = 8.0
	topFlawCount             = 4
	fallbackFlawCount        = 3
)
