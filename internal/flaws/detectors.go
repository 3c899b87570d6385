package flaws

import (
	"math"

	"github.com/hooplab/shotform/internal/metrics"
	"github.com/hooplab/shotform/internal/phases"
)

// Evaluate scans the union of the Load/Dip and Release windows. Per frame the
// severity is the worst of three independent signals; the flaw is confirmed
// only when the signal persisted across most of the Release phase, which
// suppresses single-frame pose-jitter false positives.
func (d elbowFlareDetector) Evaluate(ctx *evalContext) (detection, bool) {
	load, hasLoad := ctx.phase(phases.LoadDip)
	rel, hasRel := ctx.phase(phases.Release)
	if !hasLoad && !hasRel {
		return detection{}, false
	}

	idealMin := ctx.ideals.GetElbowAngleMin()
	var evidence []Evidence

	scan := func(p phases.Phase) {
		for pos := p.Start; pos <= p.End; pos++ {
			var sev float64

			if angle, ok := ctx.metric(pos, metrics.ElbowAngle); ok {
				if deficit := idealMin - elbowExtensionDeficitMargin - angle; deficit > 0 {
					sev = math.Max(sev, capped(deficit*elbowExtensionSeverityScale, elbowExtensionSeverityCap))
				}
			}
			if ratio, ok := ctx.metric(pos, metrics.ElbowFlareRatio); ok {
				if over := ratio - elbowFlareRatioThreshold; over > 0 {
					sev = math.Max(sev, capped(over*elbowFlareRatioScale, elbowFlareRatioCap))
				}
			}
			if lat, ok := ctx.metric(pos, metrics.ElbowLateralAngle); ok {
				if over := lat - elbowLateralAngleThreshold; over > 0 {
					sev = math.Max(sev, capped(over*elbowLateralAngleScale, elbowLateralAngleCap))
				}
			}

			if sev > 0 {
				evidence = append(evidence, Evidence{
					Pos: pos, Severity: sev, Progress: p.Progress(pos),
					Phase: p.Name, MetricCount: ctx.metricCount(pos),
				})
			}
		}
	}
	if hasLoad {
		scan(load)
	}
	if hasRel {
		// The windows may overlap; skip positions already scanned.
		start := rel.Start
		if hasLoad && start <= load.End {
			start = load.End + 1
		}
		scan(phases.Phase{Name: phases.Release, Start: start, End: rel.End, KeyMoment: rel.KeyMoment})
	}

	minFrames := elbowFlareMinFrames
	if hasRel {
		if byFraction := int(math.Ceil(elbowFlareConsistencyFraction * float64(rel.End-rel.Start+1))); byFraction > minFrames {
			minFrames = byFraction
		}
	}
	mean, ok := confirm(evidence, minFrames, elbowFlareMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.Release}, true
}

// kneeBendAtKeyMoment reads the knee angle at the Load/Dip key frame only;
// knee-bend flaws are point measurements at the deepest bend, not per-frame
// scans.
func kneeBendAtKeyMoment(ctx *evalContext) (phases.Phase, float64, bool) {
	load, ok := ctx.phase(phases.LoadDip)
	if !ok {
		return phases.Phase{}, 0, false
	}
	knee, ok := ctx.metric(load.KeyMoment, metrics.KneeAngle)
	if !ok {
		return phases.Phase{}, 0, false
	}
	return load, knee, true
}

func (d insufficientKneeBendDetector) Evaluate(ctx *evalContext) (detection, bool) {
	load, knee, ok := kneeBendAtKeyMoment(ctx)
	if !ok || knee <= insufficientKneeThreshold {
		return detection{}, false
	}
	sev := capped((knee-insufficientKneeThreshold)*insufficientKneeScale, insufficientKneeCap)
	ev := []Evidence{{
		Pos: load.KeyMoment, Severity: sev, Progress: load.Progress(load.KeyMoment),
		Phase: phases.LoadDip, MetricCount: ctx.metricCount(load.KeyMoment),
	}}
	mean, ok := confirm(ev, 1, kneeBendMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: ev, severity: mean, phase: phases.LoadDip}, true
}

func (d excessiveKneeBendDetector) Evaluate(ctx *evalContext) (detection, bool) {
	load, knee, ok := kneeBendAtKeyMoment(ctx)
	if !ok {
		return detection{}, false
	}
	floor := ctx.ideals.GetKneeAngleMax() - excessiveKneeMargin
	if knee >= floor {
		return detection{}, false
	}
	sev := capped((floor-knee)*excessiveKneeScale, excessiveKneeCap)
	ev := []Evidence{{
		Pos: load.KeyMoment, Severity: sev, Progress: load.Progress(load.KeyMoment),
		Phase: phases.LoadDip, MetricCount: ctx.metricCount(load.KeyMoment),
	}}
	mean, ok := confirm(ev, 1, kneeBendMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: ev, severity: mean, phase: phases.LoadDip}, true
}

// Evaluate looks only within ±wristSnapKeyWindow frames of the release
// instant; frames nominally "in phase" but outside that band are skipped.
func (d poorWristSnapDetector) Evaluate(ctx *evalContext) (detection, bool) {
	ft, ok := ctx.phase(phases.FollowThrough)
	if !ok {
		return detection{}, false
	}
	idealMin := ctx.ideals.GetWristAngleMin()

	var evidence []Evidence
	for pos := ft.Start; pos <= ft.End; pos++ {
		if pos < ft.KeyMoment-wristSnapKeyWindow || pos > ft.KeyMoment+wristSnapKeyWindow {
			continue
		}
		angle, ok := ctx.metric(pos, metrics.WristAngle)
		if !ok {
			continue
		}
		deficit := idealMin - wristSnapDeficitMargin - angle
		if deficit <= 0 {
			continue
		}
		evidence = append(evidence, Evidence{
			Pos: pos, Severity: capped(deficit*wristSnapSeverityScale, wristSnapSeverityCap),
			Progress: ft.Progress(pos), Phase: phases.FollowThrough,
			MetricCount: ctx.metricCount(pos),
		})
	}
	mean, ok := confirm(evidence, 1, wristSnapMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.FollowThrough}, true
}

// Evaluate checks only the final fraction of Follow-Through, after the ball
// has plainly left the hand: any earlier, normal ball-control contact reads
// as a flick. A single qualifying frame suffices because a genuine flick can
// be momentary.
func (d guideHandThumbFlickDetector) Evaluate(ctx *evalContext) (detection, bool) {
	ft, ok := ctx.phase(phases.FollowThrough)
	if !ok {
		return detection{}, false
	}
	primary := thumbFlickPrimaryThreshold * thumbFlickSensitivity

	var evidence []Evidence
	for pos := ft.Start; pos <= ft.End; pos++ {
		progress := ft.Progress(pos)
		if progress < thumbFlickPhaseWindow {
			continue
		}
		angle, ok := ctx.metric(pos, metrics.GuideHandThumbAngle)
		if !ok {
			continue
		}

		var sev float64
		switch {
		case angle > primary:
			sev = capped((angle-primary)*thumbFlickPrimaryScale, thumbFlickPrimaryCap)
		case angle > thumbFlickSubtleThreshold && progress >= thumbFlickSubtleMinProgress:
			sev = capped((angle-thumbFlickSubtleThreshold)*thumbFlickSubtleScale, thumbFlickSubtleCap)
		default:
			continue
		}
		evidence = append(evidence, Evidence{
			Pos: pos, Severity: sev, Progress: progress,
			Phase: phases.FollowThrough, MetricCount: ctx.metricCount(pos),
		})
	}
	mean, ok := confirm(evidence, thumbFlickMinFrames, thumbFlickMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.FollowThrough}, true
}

// Evaluate checks the frames around the release instant for a guide hand
// under the ball, or for both hands centred at equal height ("dual control").
func (d guideHandUnderBallDetector) Evaluate(ctx *evalContext) (detection, bool) {
	rel, ok := ctx.phase(phases.Release)
	if !ok {
		return detection{}, false
	}

	var evidence []Evidence
	for pos := rel.KeyMoment - underBallKeyWindow; pos <= rel.KeyMoment+underBallKeyWindow; pos++ {
		if !rel.Contains(pos) {
			continue
		}
		vert, ok := ctx.metric(pos, metrics.GuideHandVerticalOffset)
		if !ok {
			continue
		}

		var sev float64
		if vert > underBallVerticalThreshold {
			sev = capped((vert-underBallVerticalThreshold)*underBallVerticalScale, underBallVerticalCap)
		} else if horiz, ok := ctx.metric(pos, metrics.GuideHandHorizontalOffset); ok &&
			horiz < underBallDualHorizontalMax && math.Abs(vert) < underBallDualVerticalMax {
			sev = capped(underBallDualBaseSeverity+(underBallDualHorizontalMax-horiz)*underBallDualScale, underBallDualCap)
		} else {
			continue
		}
		evidence = append(evidence, Evidence{
			Pos: pos, Severity: sev, Progress: rel.Progress(pos),
			Phase: phases.Release, MetricCount: ctx.metricCount(pos),
		})
	}
	mean, ok := confirm(evidence, 1, guideHandMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.Release}, true
}

// Evaluate covers the ball-handling window only: Load/Dip plus the first
// fraction of Release, explicitly excluding follow-through where the guide
// hand naturally drops away above the ball line.
func (d guideHandOnTopDetector) Evaluate(ctx *evalContext) (detection, bool) {
	var evidence []Evidence

	check := func(p phases.Phase, pos int) {
		vert, ok := ctx.metric(pos, metrics.GuideHandVerticalOffset)
		if !ok || vert >= onTopVerticalThreshold {
			return
		}
		sev := capped((onTopVerticalThreshold-vert)*onTopSeverityScale, onTopSeverityCap)
		evidence = append(evidence, Evidence{
			Pos: pos, Severity: sev, Progress: p.Progress(pos),
			Phase: p.Name, MetricCount: ctx.metricCount(pos),
		})
	}

	load, hasLoad := ctx.phase(phases.LoadDip)
	if hasLoad {
		for pos := load.Start; pos <= load.End; pos++ {
			check(load, pos)
		}
	}
	if rel, ok := ctx.phase(phases.Release); ok {
		cutoff := rel.Start + int(onTopReleaseFraction*float64(rel.End-rel.Start))
		for pos := rel.Start; pos <= cutoff; pos++ {
			if hasLoad && pos <= load.End {
				continue
			}
			check(rel, pos)
		}
	}
	mean, ok := confirm(evidence, 1, guideHandMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.LoadDip}, true
}

// singleMetricScan is the shared shape of the simpler detectors: one metric,
// one threshold, one phase restriction.
func singleMetricScan(ctx *evalContext, p phases.Phase, name metrics.Metric,
	eval func(v float64) (float64, bool)) []Evidence {
	var evidence []Evidence
	for pos := p.Start; pos <= p.End; pos++ {
		v, ok := ctx.metric(pos, name)
		if !ok {
			continue
		}
		sev, flagged := eval(v)
		if !flagged {
			continue
		}
		evidence = append(evidence, Evidence{
			Pos: pos, Severity: sev, Progress: p.Progress(pos),
			Phase: p.Name, MetricCount: ctx.metricCount(pos),
		})
	}
	return evidence
}

// Evaluate scans the whole trimmed sequence: balance matters in every phase.
// Evidence is attributed to whichever phase contains the frame so the
// coaching-frame selector can reason about phase position.
func (d balanceIssuesDetector) Evaluate(ctx *evalContext) (detection, bool) {
	var evidence []Evidence
	for pos := range ctx.frames {
		lean, ok := ctx.metric(pos, metrics.BodyLeanAngle)
		if !ok || lean <= balanceLeanThreshold {
			continue
		}
		p := containingPhase(ctx, pos)
		evidence = append(evidence, Evidence{
			Pos:      pos,
			Severity: capped((lean-balanceLeanThreshold)*balanceLeanScale, balanceLeanCap),
			Progress: p.Progress(pos), Phase: p.Name,
			MetricCount: ctx.metricCount(pos),
		})
	}
	mean, ok := confirm(evidence, 1, simpleDetectorMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	phase := phases.Release
	if len(evidence) > 0 && evidence[0].Phase != "" {
		phase = evidence[0].Phase
	}
	return detection{evidence: evidence, severity: mean, phase: phase}, true
}

// containingPhase returns the first phase window containing pos, or a
// whole-sequence window when none does.
func containingPhase(ctx *evalContext, pos int) phases.Phase {
	for _, p := range ctx.phases {
		if p.Contains(pos) {
			return p
		}
	}
	return phases.Phase{Name: "", Start: 0, End: len(ctx.frames) - 1}
}

// Evaluate flags off-peak wrist-speed outliers during Release: a wrist
// already sprinting well before the release instant reads as a rushed,
// inefficient transfer.
func (d shotTimingDetector) Evaluate(ctx *evalContext) (detection, bool) {
	rel, ok := ctx.phase(phases.Release)
	if !ok {
		return detection{}, false
	}
	var out []Evidence
	for pos := rel.Start; pos <= rel.End; pos++ {
		// The instant around peak velocity is supposed to be fast.
		if pos >= rel.KeyMoment-1 && pos <= rel.KeyMoment+1 {
			continue
		}
		v, ok := ctx.metric(pos, metrics.WristVerticalVelocity)
		if !ok || math.Abs(v) <= timingVelocityOutlier {
			continue
		}
		sev := capped((math.Abs(v)-timingVelocityOutlier)*timingSeverityScale, timingSeverityCap)
		out = append(out, Evidence{
			Pos: pos, Severity: sev, Progress: rel.Progress(pos),
			Phase: phases.Release, MetricCount: ctx.metricCount(pos),
		})
	}
	mean, ok := confirm(out, 1, simpleDetectorMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: out, severity: mean, phase: phases.Release}, true
}

// Evaluate flags a wrist-angle rebound after the release instant: a snapped
// wrist should hold its flexion, not bounce back up.
func (d followThroughTimingDetector) Evaluate(ctx *evalContext) (detection, bool) {
	ft, ok := ctx.phase(phases.FollowThrough)
	if !ok {
		return detection{}, false
	}

	var evidence []Evidence
	minSeen := math.Inf(1)
	for pos := ft.KeyMoment; pos <= ft.End; pos++ {
		angle, ok := ctx.metric(pos, metrics.WristAngle)
		if !ok {
			continue
		}
		if angle < minSeen {
			minSeen = angle
			continue
		}
		rebound := angle - minSeen
		if rebound <= reboundAngleThreshold {
			continue
		}
		evidence = append(evidence, Evidence{
			Pos: pos, Severity: capped((rebound-reboundAngleThreshold)*reboundSeverityScale, reboundSeverityCap),
			Progress: ft.Progress(pos), Phase: phases.FollowThrough,
			MetricCount: ctx.metricCount(pos),
		})
	}
	mean, ok := confirm(evidence, 1, simpleDetectorMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.FollowThrough}, true
}

func (d eyeTrackingDetector) Evaluate(ctx *evalContext) (detection, bool) {
	var evidence []Evidence
	for _, name := range []phases.Name{phases.LoadDip, phases.Release} {
		p, ok := ctx.phase(name)
		if !ok {
			continue
		}
		evidence = append(evidence, singleMetricScan(ctx, p, metrics.HeadRotationDeviation, func(dev float64) (float64, bool) {
			if dev <= eyeTrackingThreshold {
				return 0, false
			}
			return capped((dev-eyeTrackingThreshold)*eyeTrackingScale, eyeTrackingCap), true
		})...)
	}
	mean, ok := confirm(evidence, 1, simpleDetectorMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.Release}, true
}

func (d shoulderAlignmentDetector) Evaluate(ctx *evalContext) (detection, bool) {
	load, ok := ctx.phase(phases.LoadDip)
	if !ok {
		return detection{}, false
	}
	evidence := singleMetricScan(ctx, load, metrics.ShoulderSquaringDeviation, func(dev float64) (float64, bool) {
		if dev <= shoulderAlignmentThreshold {
			return 0, false
		}
		return capped((dev-shoulderAlignmentThreshold)*shoulderAlignmentScale, shoulderAlignmentCap), true
	})
	mean, ok := confirm(evidence, 1, simpleDetectorMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.LoadDip}, true
}

// Evaluate is deliberately minimal: only extreme release-phase velocity
// spikes register here. The whole-sequence fluidity analyzer owns the real
// assessment and takes precedence when it injects its own record.
func (d fluiditySpikeDetector) Evaluate(ctx *evalContext) (detection, bool) {
	rel, ok := ctx.phase(phases.Release)
	if !ok {
		return detection{}, false
	}
	evidence := singleMetricScan(ctx, rel, metrics.WristVerticalVelocity, func(v float64) (float64, bool) {
		if math.Abs(v) <= fluiditySpikeThreshold {
			return 0, false
		}
		return capped((math.Abs(v)-fluiditySpikeThreshold)*fluiditySpikeScale, fluiditySpikeCap), true
	})
	mean, ok := confirm(evidence, 1, fluidityMinMeanSeverity)
	if !ok {
		return detection{}, false
	}
	return detection{evidence: evidence, severity: mean, phase: phases.Release}, true
}
