// Package phases partitions a trimmed shot sequence into its biomechanical
// phases. Each phase is a contiguous frame window with a single key moment;
// Release and Follow-Through deliberately share their key frame and overlap.
package phases

import (
	"github.com/hooplab/shotform/internal/metrics"
)

// Name is a phase in the fixed vocabulary.
type Name string

const (
	LoadDip       Name = "Load/Dip"
	Release       Name = "Release"
	FollowThrough Name = "Follow-Through"
)

// Phase is a named frame window within the trimmed sequence. Bounds are
// inclusive positions into the trimmed metrics slice, and
// Start <= KeyMoment <= End always holds.
type Phase struct {
	Name      Name
	Start     int
	End       int
	KeyMoment int
}

// Window fixed offsets around the release instant, in frames.
const (
	releaseLead  = 3
	releaseTail  = 8
	followLead   = 2
	followTail   = 12
	loadSeconds  = 1.0
	loadMinimumS = 0.5
)

// Segment identifies the phase windows of a trimmed sequence. Phases whose
// key-frame criterion cannot be satisfied (no usable knee angle, no usable
// wrist velocity) are omitted entirely rather than synthesized.
func Segment(frames []metrics.FrameMetrics, fps float64) []Phase {
	if len(frames) == 0 {
		return nil
	}
	var out []Phase

	if p, ok := loadDip(frames, fps); ok {
		out = append(out, p)
	}
	if rel, ok := release(frames); ok {
		out = append(out, rel)
		// Follow-Through shares the release key frame and runs longer
		// past it to capture wrist-snap completion.
		out = append(out, Phase{
			Name:      FollowThrough,
			Start:     clamp(rel.KeyMoment-followLead, 0, len(frames)-1),
			End:       clamp(rel.KeyMoment+followTail, 0, len(frames)-1),
			KeyMoment: rel.KeyMoment,
		})
	}
	return out
}

// Find returns the named phase from a segmentation result.
func Find(ps []Phase, name Name) (Phase, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// Progress returns how far through the phase a position is, in [0,1].
func (p Phase) Progress(pos int) float64 {
	if p.End <= p.Start {
		return 1
	}
	f := float64(pos-p.Start) / float64(p.End-p.Start)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Contains reports whether pos lies within the phase window.
func (p Phase) Contains(pos int) bool {
	return pos >= p.Start && pos <= p.End
}

// loadDip keys on the deepest knee bend and extends backward far enough to
// cover the setup leading into it.
func loadDip(frames []metrics.FrameMetrics, fps float64) (Phase, bool) {
	key := -1
	minKnee := 0.0
	for i, f := range frames {
		knee, ok := f.Metrics.Get(metrics.KneeAngle)
		if !ok {
			continue
		}
		if key == -1 || knee < minKnee {
			key, minKnee = i, knee
		}
	}
	if key == -1 {
		return Phase{}, false
	}

	back := int(loadSeconds * fps)
	if minBack := int(loadMinimumS * fps); back < minBack {
		back = minBack
	}
	if back < 1 {
		back = 1
	}
	return Phase{
		Name:      LoadDip,
		Start:     clamp(key-back, 0, len(frames)-1),
		End:       key,
		KeyMoment: key,
	}, true
}

// release keys on peak upward wrist velocity with a deliberately narrow
// window so it isolates the release itself, not the follow-through.
func release(frames []metrics.FrameMetrics) (Phase, bool) {
	key := -1
	maxVel := 0.0
	for i, f := range frames {
		v, ok := f.Metrics.Get(metrics.WristVerticalVelocity)
		if !ok {
			continue
		}
		if key == -1 || v > maxVel {
			key, maxVel = i, v
		}
	}
	if key == -1 {
		return Phase{}, false
	}
	return Phase{
		Name:      Release,
		Start:     clamp(key-releaseLead, 0, len(frames)-1),
		End:       clamp(key+releaseTail, 0, len(frames)-1),
		KeyMoment: key,
	}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
