package shotstart

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hooplab/shotform/internal/pose"
)

// Pose-activity estimator tuning. The activity score blends wrist and knee
// vertical speed with a flat bonus once the wrist rises above the shoulder.
const (
	activityWristWeight   = 0.5
	activityKneeWeight    = 0.3
	activityRaisedBonus   = 50.0
	activityWindow        = 5
	activityMinPosed      = 4
	activityBaselineFloor = 10.0
)

// poseActivity finds the first frame where a moving average of a per-frame
// activity score exceeds a baseline-derived threshold. Confidence is the
// fraction of scanned frames with any pose detected.
func (d *Detector) poseActivity(frames []pose.Frame) (estimate, bool) {
	limit := scanLimit(len(frames))
	if limit < activityMinPosed {
		return estimate{}, false
	}

	scores := make([]float64, limit)
	posed := 0
	var prev pose.Frame
	for i := 0; i < limit; i++ {
		f := frames[i]
		if f.Detected() {
			posed++
		}
		scores[i] = d.activityScore(prev, f)
		prev = f
	}
	if posed < activityMinPosed {
		return estimate{}, false
	}
	confidence := float64(posed) / float64(limit)

	smoothed := movingAverage(scores, activityWindow)

	// Baseline from the first quarter of the scan; early frames are the
	// idle/setup period by assumption.
	quarter := limit / 4
	if quarter < activityWindow {
		quarter = activityWindow
	}
	if quarter > len(smoothed) {
		quarter = len(smoothed)
	}
	mean, std := stat.MeanStdDev(smoothed[:quarter], nil)
	if math.IsNaN(std) {
		std = 0
	}
	threshold := mean + math.Max(activityBaselineFloor, 1.5*std)

	for i := quarter; i < len(smoothed); i++ {
		if smoothed[i] > threshold {
			return estimate{frame: i, confidence: confidence, method: MethodPoseActivity}, true
		}
	}
	return estimate{}, false
}

// activityScore measures how much shooting-relevant motion one frame shows
// relative to its predecessor.
func (d *Detector) activityScore(prev, cur pose.Frame) float64 {
	if !cur.Detected() || !prev.Detected() {
		return 0
	}

	var score float64
	wristName := d.shooting.Wrist()
	if w, ok := cur.Get(wristName, 0.5); ok {
		if pw, ok := prev.Get(wristName, 0.5); ok {
			score += math.Abs(pw.Y-w.Y) * activityWristWeight
		}
		if sh, ok := cur.Get(d.shooting.Shoulder(), 0.5); ok && w.Y < sh.Y {
			score += activityRaisedBonus
		}
	}
	kneeName := d.shooting.Knee()
	if k, ok := cur.Get(kneeName, 0.5); ok {
		if pk, ok := prev.Get(kneeName, 0.5); ok {
			score += math.Abs(pk.Y-k.Y) * activityKneeWeight
		}
	}
	return score
}

// movingAverage smooths a series with a trailing window.
func movingAverage(xs []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}
