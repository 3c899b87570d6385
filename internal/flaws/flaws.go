// Package flaws evaluates the catalog of shooting-form flaw detectors
// against phase-restricted frame evidence. Each detector declares its
// analysis phases, visibility requirements, and camera-angle eligibility,
// and applies its own consistency gate so single-frame pose jitter never
// becomes a confirmed flaw.
package flaws

import (
	"github.com/hooplab/shotform/internal/phases"
)

// ID uniquely keys a flaw type.
type ID string

const (
	ElbowFlare           ID = "elbow_flare"
	InsufficientKneeBend ID = "insufficient_knee_bend"
	ExcessiveKneeBend    ID = "excessive_knee_bend"
	PoorWristSnap        ID = "poor_wrist_snap"
	GuideHandThumbFlick  ID = "guide_hand_thumb_flick"
	GuideHandUnderBall   ID = "guide_hand_under_ball"
	GuideHandOnTop       ID = "guide_hand_on_top"
	BalanceIssues        ID = "balance_issues"
	ShotTimingInefficient ID = "shot_timing_inefficient"
	FollowThroughTiming  ID = "follow_through_timing"
	EyeTrackingPoor      ID = "eye_tracking_poor"
	PoorShoulderAlignment ID = "poor_shoulder_alignment"
	ShotLacksFluidity    ID = "shot_lacks_fluidity"
)

// DetectedFlaw is one confirmed flaw for one video. Immutable once created.
type DetectedFlaw struct {
	ID       ID      `json:"flaw_id"`
	Severity float64 `json:"severity"`
	// Phase names the analysis phase the flaw was confirmed in.
	Phase phases.Name `json:"phase_name"`
	// FrameNumber is the representative frame. The engine reports positions
	// within the trimmed sequence; the pipeline rebases them to absolute
	// frame numbers in the original video.
	FrameNumber     int    `json:"frame_number"`
	Description     string `json:"description"`
	CoachingTip     string `json:"coaching_tip"`
	DrillSuggestion string `json:"drill_suggestion"`
	// CameraContext notes the detected camera angle the evidence came from.
	CameraContext string `json:"camera_context"`
}

// Evidence is one frame's contribution to a flaw signal: a nonzero severity
// at a sequence position, with enough context for coaching-frame selection.
type Evidence struct {
	// Pos is the frame position within the trimmed sequence.
	Pos int
	// Severity is the frame's flaw severity (always > 0).
	Severity float64
	// Progress is the frame's fractional position within its phase.
	Progress float64
	// Phase is the phase the frame was evaluated under.
	Phase phases.Name
	// MetricCount is how many metrics were simultaneously measurable.
	MetricCount int
}

// detection is an evaluator's confirmed result before record assembly.
type detection struct {
	evidence []Evidence
	severity float64
	phase    phases.Name
}

// confirm applies the shared consistency gate: the signal must have fired on
// at least minFrames frames and its mean severity must exceed minMean.
// Returns the mean severity when confirmed.
func confirm(evidence []Evidence, minFrames int, minMean float64) (float64, bool) {
	if len(evidence) < minFrames || len(evidence) == 0 {
		return 0, false
	}
	var sum float64
	for _, e := range evidence {
		sum += e.Severity
	}
	mean := sum / float64(len(evidence))
	if mean <= minMean {
		return 0, false
	}
	return mean, true
}

func capped(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}
