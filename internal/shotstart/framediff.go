package shotstart

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Frame-difference estimator tuning. This is the most universal method, so
// it degrades through weaker fallbacks instead of failing outright.
const (
	diffSmoothWindow      = 3
	diffSpikeSigma        = 1.5
	diffSustainFrames     = 2
	diffSpikeConfidence   = 0.6
	diffRatioConfidence   = 0.45
	diffDefaultConfidence = 0.3
	diffRatioIncrease     = 1.5
	diffMinFrames         = 6
)

// frameDiff looks for the first sustained spike in mean absolute pixel
// difference between consecutive blurred frames. Failing that it falls back
// to a first-third-vs-last-third activity ratio test, and failing that it
// still votes for frame 0 at moderate confidence.
func (d *Detector) frameDiff(lumas []Luma) (estimate, bool) {
	limit := scanLimit(len(lumas))
	if limit < diffMinFrames {
		return estimate{}, false
	}

	diffs := make([]float64, 0, limit-1)
	prev := boxBlur3(lumas[0])
	for i := 1; i < limit; i++ {
		if !lumas[i].Valid() || !prev.Valid() {
			diffs = append(diffs, 0)
			continue
		}
		cur := boxBlur3(lumas[i])
		diffs = append(diffs, meanAbsDiff(prev, cur))
		prev = cur
	}

	smoothed := movingAverage(diffs, diffSmoothWindow)

	third := len(smoothed) / 3
	if third < 2 {
		third = 2
	}
	mean, std := stat.MeanStdDev(smoothed[:third], nil)
	if math.IsNaN(std) {
		std = 0
	}
	threshold := mean + diffSpikeSigma*std + 0.25

	// Primary signal: a spike sustained for at least diffSustainFrames.
	run := 0
	for i := third; i < len(smoothed); i++ {
		if smoothed[i] > threshold {
			run++
			if run >= diffSustainFrames {
				return estimate{
					frame:      i - run + 2, // first frame of the sustained run
					confidence: diffSpikeConfidence,
					method:     MethodFrameDiff,
				}, true
			}
		} else {
			run = 0
		}
	}

	// Weaker fallback: overall activity increased by ≥50% from the first
	// third to the last third of the scan.
	lastThird := smoothed[len(smoothed)-third:]
	lastMean := stat.Mean(lastThird, nil)
	if mean > 0 && lastMean/mean >= diffRatioIncrease {
		return estimate{
			frame:      len(smoothed) / 3,
			confidence: diffRatioConfidence,
			method:     MethodFrameDiff,
		}, true
	}

	// Never total failure: vote for the start of the capture.
	return estimate{frame: 0, confidence: diffDefaultConfidence, method: MethodFrameDiff}, true
}
