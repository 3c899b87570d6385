// Package shotstart estimates where active shooting motion begins within a
// raw capture. Amateur footage carries pre-shot idle and setup motion;
// analyzing from frame 0 corrupts phase detection, so three independent
// estimators vote and the most confident wins, minus a setup buffer.
package shotstart

import (
	"github.com/hooplab/shotform/internal/monitoring"
	"github.com/hooplab/shotform/internal/pose"
)

// Method identifies which estimator produced the winning start frame.
type Method string

const (
	MethodPoseActivity Method = "pose_activity"
	MethodOpticalFlow  Method = "optical_flow"
	MethodFrameDiff    Method = "frame_diff"
	MethodNone         Method = "none"
)

// Result is the combined shot-start decision.
type Result struct {
	// StartFrame is the buffered frame offset all downstream analysis
	// begins at. Frames before it are excluded from phase segmentation
	// and flaw detection.
	StartFrame int
	// Candidate is the raw (unbuffered) frame the winning estimator chose.
	Candidate int
	// Confidence is the winning estimator's confidence in [0,1].
	Confidence float64
	// Method names the winning estimator.
	Method Method
}

// estimate is one estimator's vote.
type estimate struct {
	frame      int
	confidence float64
	method     Method
}

const (
	// maxScanFrames caps how much of the capture the estimators examine.
	maxScanFrames = 300
	// bufferSeconds is subtracted from the winning candidate so the
	// Load/Dip setup immediately preceding detected motion is kept.
	bufferSeconds = 0.8
)

// Detector runs the three start estimators and combines their votes.
type Detector struct {
	shooting pose.Side
	fps      float64
}

// NewDetector creates a detector for the given shooting hand and frame rate.
func NewDetector(shooting pose.Side, fps float64) *Detector {
	return &Detector{shooting: shooting, fps: fps}
}

// Detect estimates the shot start. Luma planes are optional: when absent the
// two pixel-based estimators abstain and only pose activity votes.
func (d *Detector) Detect(frames []pose.Frame, lumas []Luma) Result {
	var votes []estimate

	if est, ok := d.poseActivity(frames); ok {
		votes = append(votes, est)
	}
	if est, ok := d.opticalFlow(lumas); ok {
		votes = append(votes, est)
	}
	if est, ok := d.frameDiff(lumas); ok {
		votes = append(votes, est)
	}

	if len(votes) == 0 {
		monitoring.Debugf("shotstart: no estimator produced a vote, starting at frame 0")
		return Result{StartFrame: 0, Candidate: 0, Confidence: 0, Method: MethodNone}
	}

	best := votes[0]
	for _, v := range votes[1:] {
		if v.confidence > best.confidence {
			best = v
		}
	}

	buffer := int(bufferSeconds * d.fps)
	start := best.frame - buffer
	if start < 0 {
		start = 0
	}
	monitoring.Debugf("shotstart: %s chose frame %d (conf %.2f), buffered to %d",
		best.method, best.frame, best.confidence, start)

	return Result{
		StartFrame: start,
		Candidate:  best.frame,
		Confidence: best.confidence,
		Method:     best.method,
	}
}

func scanLimit(n int) int {
	if n > maxScanFrames {
		return maxScanFrames
	}
	return n
}
