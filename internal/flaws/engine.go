package flaws

import (
	"fmt"
	"sort"

	"github.com/hooplab/shotform/internal/camera"
	"github.com/hooplab/shotform/internal/config"
	"github.com/hooplab/shotform/internal/metrics"
	"github.com/hooplab/shotform/internal/monitoring"
	"github.com/hooplab/shotform/internal/phases"
)

// Engine runs the detector catalog against one video's evidence. Construct
// once per analysis; configuration is immutable afterwards.
type Engine struct {
	ideals *config.IdealShot
	flags  config.DetectorFlags
	fps    float64
}

// NewEngine creates a detection engine with explicit configuration.
func NewEngine(ideals *config.IdealShot, flags config.DetectorFlags, fps float64) *Engine {
	if ideals == nil {
		ideals = &config.IdealShot{}
	}
	return &Engine{ideals: ideals, flags: flags, fps: fps}
}

// Run evaluates every eligible detector against the trimmed sequence and
// returns the surviving flaws (deduplicated, severity-sorted, capped), the
// detector ids skipped by the camera gate, and the whole-sequence fluidity
// summary. The skipped list lets callers tell "not checked" apart from
// "checked and clean".
func (e *Engine) Run(frames []metrics.FrameMetrics, ps []phases.Phase, profile camera.Profile) ([]DetectedFlaw, []ID, *FluiditySummary) {
	ctx := &evalContext{frames: frames, phases: ps, ideals: e.ideals, fps: e.fps}
	cameraNote := fmt.Sprintf("observed from %s (confidence %.2f)", profile.Angle, profile.Confidence)

	seen := make(map[ID]bool)
	var found []DetectedFlaw
	var skipped []ID

	for _, det := range Catalog() {
		spec := det.Spec()
		if !e.eligible(spec, profile) {
			monitoring.Debugf("flaws: %s skipped (camera gate)", spec.ID)
			skipped = append(skipped, spec.ID)
			continue
		}
		d, ok := det.Evaluate(ctx)
		if !ok {
			continue
		}
		if seen[spec.ID] {
			// First-seen wins across the combined-phase handling and the
			// per-phase loop.
			continue
		}
		seen[spec.ID] = true

		entry := coachingFor(spec.ID, e.ideals)
		found = append(found, DetectedFlaw{
			ID:              spec.ID,
			Severity:        d.severity,
			Phase:           d.phase,
			FrameNumber:     SelectCoachingFrame(spec.ID, d.evidence),
			Description:     entry.description,
			CoachingTip:     entry.tip,
			DrillSuggestion: entry.drill,
			CameraContext:   cameraNote,
		})
		monitoring.Debugf("flaws: %s confirmed (severity %.1f, %d evidence frames)",
			spec.ID, d.severity, len(d.evidence))
	}

	var fluidity *FluiditySummary
	if e.flags.AdvancedFluidity {
		fluidity = AnalyzeFluidity(frames, e.fps)
		// The advanced analyzer is authoritative: it may inject a fluidity
		// flaw the per-frame detector missed, but never the reverse.
		if fluidity.Score < fluidityInjectionScore && !seen[ShotLacksFluidity] {
			entry := coachingFor(ShotLacksFluidity, e.ideals)
			sev := capped((fluidityInjectionScore-fluidity.Score)*fluidityInjectionScale, fluidityInjectionCap)
			frame := 0
			if len(fluidity.RhythmBreaks) > 0 {
				frame = fluidity.RhythmBreaks[0].Frame
			} else if len(fluidity.AccelerationSpikes) > 0 {
				frame = fluidity.AccelerationSpikes[0].Frame
			}
			found = append(found, DetectedFlaw{
				ID:              ShotLacksFluidity,
				Severity:        sev,
				Phase:           phases.Release,
				FrameNumber:     frame,
				Description:     entry.description,
				CoachingTip:     entry.tip,
				DrillSuggestion: entry.drill,
				CameraContext:   cameraNote,
			})
			seen[ShotLacksFluidity] = true
		}
	}

	return capResults(found), skipped, fluidity
}

// eligible applies the camera gate: every required feature observable and
// the classified angle within the detector's eligibility set. Flag-disabled
// detectors fail eligibility the same silent way.
func (e *Engine) eligible(spec Spec, profile camera.Profile) bool {
	if spec.ID == PoorShoulderAlignment && !e.flags.ShoulderAlignment {
		return false
	}
	if !profile.Sees(spec.RequiredFeatures...) {
		return false
	}
	for _, a := range spec.EligibleAngles {
		if a == profile.Angle {
			return true
		}
	}
	return false
}

// capResults sorts by severity (ties broken by id for determinism) and caps
// the list: top 4 when anything clears the significance floor, else the top
// 3 of whatever was found, else nothing.
func capResults(found []DetectedFlaw) []DetectedFlaw {
	if len(found) == 0 {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Severity != found[j].Severity {
			return found[i].Severity > found[j].Severity
		}
		return found[i].ID < found[j].ID
	})

	anySignificant := found[0].Severity >= significantSeverityFloor
	limit := fallbackFlawCount
	if anySignificant {
		limit = topFlawCount
	}
	if len(found) > limit {
		found = found[:limit]
	}
	return found
}
