package flaws

import "github.com/hooplab/shotform/internal/phases"

// Coaching-frame selection weighting. Coaching clarity wins over raw
// severity for the human-facing frame: a mid-flick frame at lower severity
// teaches more than a blurry extremum.
const (
	illustrationWeightThumbFlick = 0.99
	illustrationWeightCore       = 0.75
	illustrationWeightDefault    = 0.60

	illustrationSeverityScale = 0.3
	illustrationMetricScale   = 2.0

	illustrationMinimumFloor  = 20.0
	illustrationPreferredMin  = 25.0
)

// coreFundamentals are the flaw types whose representative frame leans
// hardest on phase position.
var coreFundamentals = map[ID]bool{
	ElbowFlare:           true,
	InsufficientKneeBend: true,
	ExcessiveKneeBend:    true,
	PoorWristSnap:        true,
}

// SelectCoachingFrame picks the single frame that best illustrates a flaw
// from its contributing evidence, combining per-frame severity with a
// phase-position-dependent illustration score.
func SelectCoachingFrame(id ID, evidence []Evidence) int {
	if len(evidence) == 0 {
		return 0
	}

	wIll := illustrationWeightDefault
	switch {
	case id == GuideHandThumbFlick:
		wIll = illustrationWeightThumbFlick
	case coreFundamentals[id]:
		wIll = illustrationWeightCore
	}
	wSev := 1 - wIll

	best := evidence[0]
	bestScore := combinedScore(id, best, wIll, wSev)
	for _, ev := range evidence[1:] {
		if s := combinedScore(id, ev, wIll, wSev); s > bestScore {
			best, bestScore = ev, s
		}
	}

	// Floor rule: when the winner illustrates poorly, prefer any frame with
	// a clearly adequate illustration score even at lower severity.
	if illustrationScore(id, best) < illustrationMinimumFloor {
		var alt *Evidence
		var altIll float64
		for i := range evidence {
			if ill := illustrationScore(id, evidence[i]); ill >= illustrationPreferredMin && ill > altIll {
				alt, altIll = &evidence[i], ill
			}
		}
		if alt != nil {
			return alt.Pos
		}
	}
	return best.Pos
}

func combinedScore(id ID, ev Evidence, wIll, wSev float64) float64 {
	return wIll*illustrationScore(id, ev) + wSev*ev.Severity
}

// illustrationScore estimates how clearly one frame demonstrates the flaw:
// a phase-position bonus specific to the flaw type, plus smaller
// contributions from severity and from how many metrics were simultaneously
// measurable.
func illustrationScore(id ID, ev Evidence) float64 {
	var positional float64
	switch id {
	case GuideHandThumbFlick:
		// Steep staircase: only the very end of follow-through shows the
		// flick unambiguously.
		switch {
		case ev.Progress >= 0.95:
			positional = 100
		case ev.Progress >= 0.90:
			positional = 60
		case ev.Progress >= 0.80:
			positional = 20
		case ev.Progress >= 0.50:
			positional = -20
		default:
			positional = -50
		}
	case ElbowFlare:
		// Late load or early release shows the set point best.
		late := ev.Phase == phases.LoadDip && ev.Progress >= 0.7
		early := ev.Phase == phases.Release && ev.Progress <= 0.3
		if late || early {
			positional = 40
		} else {
			positional = 10
		}
	default:
		// Mid-phase frames generally read best.
		centre := 1 - 2*absF(ev.Progress-0.5)
		positional = 20 + 10*centre
	}
	return positional + ev.Severity*illustrationSeverityScale + float64(ev.MetricCount)*illustrationMetricScale
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
