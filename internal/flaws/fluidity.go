package flaws

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hooplab/shotform/internal/metrics"
)

// Whole-sequence fluidity analysis tuning.
const (
	fluidityAccelSpikeThreshold = 8000.0 // px/s² between consecutive frames
	fluidityRhythmMinSwing      = 120.0  // px/s on both sides of a reversal
	fluidityVelocityAnomalySigma = 2.5

	fluidityVariancePenaltyScale = 20.0
	fluidityVariancePenaltyCap   = 30.0
	fluiditySpikePenaltyEach     = 8.0
	fluiditySpikePenaltyCap      = 30.0
	fluidityRhythmPenaltyEach    = 10.0
	fluidityRhythmPenaltyCap     = 25.0
	fluidityJerkPenaltyScale     = 0.0005
	fluidityJerkPenaltyCap       = 15.0
)

// Anomaly is one flagged frame in the fluidity summary.
type Anomaly struct {
	// Frame is the position within the trimmed sequence.
	Frame    int     `json:"frame"`
	Severity float64 `json:"severity"`
}

// FluiditySummary is the whole-sequence smoothness assessment: a weighted
// 0–100 score plus the individual anomalies that cost points.
type FluiditySummary struct {
	Score              float64   `json:"score"`
	AccelerationSpikes []Anomaly `json:"acceleration_spikes"`
	RhythmBreaks       []Anomaly `json:"rhythm_breaks"`
	VelocityAnomalies  []Anomaly `json:"velocity_anomalies"`
}

// AnalyzeFluidity runs the velocity-variance, acceleration-spike,
// rhythm-break, and jerk sub-analyses once over the entire trimmed sequence
// and combines them into the fluidity score.
func AnalyzeFluidity(frames []metrics.FrameMetrics, fps float64) *FluiditySummary {
	type sample struct {
		pos int
		v   float64
	}
	var samples []sample
	for pos, f := range frames {
		if v, ok := f.Metrics.Get(metrics.WristVerticalVelocity); ok {
			samples = append(samples, sample{pos: pos, v: v})
		}
	}
	out := &FluiditySummary{Score: 100}
	if len(samples) < 4 {
		// Too little signal to judge smoothness; report a clean score
		// rather than penalizing absence of evidence.
		return out
	}

	vels := make([]float64, len(samples))
	for i, s := range samples {
		vels[i] = s.v
	}

	// Velocity variance: a smooth shot has one dominant rise, not a noisy
	// velocity trace. Penalty scales with the coefficient of variation of
	// speed magnitude.
	mags := make([]float64, len(vels))
	for i, v := range vels {
		mags[i] = math.Abs(v)
	}
	mean, std := stat.MeanStdDev(mags, nil)
	var variancePenalty float64
	if mean > 1 {
		variancePenalty = math.Min(std/mean*fluidityVariancePenaltyScale, fluidityVariancePenaltyCap)
	}

	// Acceleration spikes and jerk.
	var jerkSum float64
	var prevAccel float64
	for i := 1; i < len(samples); i++ {
		dt := float64(samples[i].pos - samples[i-1].pos)
		if dt <= 0 {
			continue
		}
		accel := (samples[i].v - samples[i-1].v) * fps / dt
		if math.Abs(accel) > fluidityAccelSpikeThreshold {
			out.AccelerationSpikes = append(out.AccelerationSpikes, Anomaly{
				Frame:    samples[i].pos,
				Severity: math.Min((math.Abs(accel)-fluidityAccelSpikeThreshold)/1000, 20),
			})
		}
		if i > 1 {
			jerkSum += math.Abs(accel - prevAccel)
		}
		prevAccel = accel
	}
	jerkMean := jerkSum / float64(len(samples)-1)
	jerkPenalty := math.Min(jerkMean*fluidityJerkPenaltyScale, fluidityJerkPenaltyCap)

	// Rhythm breaks: sharp direction reversals with real speed on both
	// sides read as a hitch or double-pump.
	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1].v, samples[i].v
		if a*b < 0 && math.Abs(a) > fluidityRhythmMinSwing && math.Abs(b) > fluidityRhythmMinSwing {
			out.RhythmBreaks = append(out.RhythmBreaks, Anomaly{
				Frame:    samples[i].pos,
				Severity: math.Min((math.Abs(a)+math.Abs(b))/100, 15),
			})
		}
	}

	// Velocity anomalies: individual samples far outside the distribution.
	if std > 1 {
		for i, v := range vels {
			if z := math.Abs(math.Abs(v)-mean) / std; z > fluidityVelocityAnomalySigma {
				out.VelocityAnomalies = append(out.VelocityAnomalies, Anomaly{
					Frame:    samples[i].pos,
					Severity: math.Min((z-fluidityVelocityAnomalySigma)*4, 15),
				})
			}
		}
	}

	spikePenalty := math.Min(float64(len(out.AccelerationSpikes))*fluiditySpikePenaltyEach, fluiditySpikePenaltyCap)
	rhythmPenalty := math.Min(float64(len(out.RhythmBreaks))*fluidityRhythmPenaltyEach, fluidityRhythmPenaltyCap)

	out.Score = 100 - variancePenalty - spikePenalty - rhythmPenalty - jerkPenalty
	if out.Score < 0 {
		out.Score = 0
	}
	return out
}
