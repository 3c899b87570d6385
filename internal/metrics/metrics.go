// Package metrics derives per-frame biomechanical measurements from raw pose
// estimates. One FrameMetrics is produced per input frame, in order, with no
// frame skipped: a failed estimation still yields a record with no joints and
// no metrics, so frame indices stay aligned with the source video.
package metrics

import "github.com/hooplab/shotform/internal/pose"

// Metric names a derived per-frame measurement.
type Metric string

const (
	ElbowAngle                Metric = "elbow_angle"
	KneeAngle                 Metric = "knee_angle"
	WristAngle                Metric = "wrist_angle_simplified"
	ElbowFlareRatio           Metric = "elbow_flare_ratio"
	ElbowLateralAngle         Metric = "elbow_lateral_angle"
	GuideHandVerticalOffset   Metric = "guide_hand_vertical_offset"
	GuideHandHorizontalOffset Metric = "guide_hand_horizontal_offset"
	GuideHandThumbAngle       Metric = "guide_hand_thumb_angle"
	HeadRotationDeviation     Metric = "head_rotation_deviation"
	ShoulderSquaringDeviation Metric = "shoulder_squaring_deviation"
	BodyLeanAngle             Metric = "body_lean_angle"
	WristVerticalVelocity     Metric = "wrist_vertical_velocity"
)

// MetricSet maps metric names to values. A metric is present only when its
// required landmarks were visible and the computed value passed its
// plausibility range; lookups therefore distinguish "absent because
// unmeasurable" from "present and zero".
type MetricSet map[Metric]float64

// Get returns the metric value and whether it was measured this frame.
func (m MetricSet) Get(name Metric) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// Has reports whether the metric was measured this frame.
func (m MetricSet) Has(name Metric) bool {
	_, ok := m[name]
	return ok
}

// FrameMetrics is the per-frame analysis record. Created once during
// extraction and immutable thereafter; every downstream stage reads it only.
type FrameMetrics struct {
	// Index is the frame's ordinal position in the source video.
	Index int
	// Joints holds the raw pose estimate, nil when estimation failed.
	Joints pose.Frame
	// Metrics holds the validated derived measurements.
	Metrics MetricSet
}

// Posed reports whether the pose estimator produced landmarks for this frame.
func (f FrameMetrics) Posed() bool {
	return f.Joints.Detected()
}

// metricRange is the physiologically-plausible value window for one metric.
// Values outside the window are dropped at extraction time, never clamped, so
// detectors see "metric absent" instead of a corrupted number.
type metricRange struct {
	min, max float64
}

var plausibleRanges = map[Metric]metricRange{
	ElbowAngle:                {60, 200},
	KneeAngle:                 {60, 200},
	WristAngle:                {0, 180},
	ElbowFlareRatio:           {0, 100},
	ElbowLateralAngle:         {0, 90},
	GuideHandVerticalOffset:   {-400, 400},
	GuideHandHorizontalOffset: {0, 400},
	GuideHandThumbAngle:       {0, 90},
	HeadRotationDeviation:     {0, 90},
	ShoulderSquaringDeviation: {0, 90},
	BodyLeanAngle:             {0, 60},
	WristVerticalVelocity:     {-6000, 6000},
}

// put stores the metric only when it falls inside its plausibility range.
func (m MetricSet) put(name Metric, v float64) {
	r, ok := plausibleRanges[name]
	if ok && (v < r.min || v > r.max) {
		return
	}
	m[name] = v
}
