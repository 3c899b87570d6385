// Package analysis wires the full shot pipeline together: shot-start
// trimming, metric extraction, camera classification, phase segmentation,
// and flaw detection, producing one immutable Report per video.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hooplab/shotform/internal/camera"
	"github.com/hooplab/shotform/internal/config"
	"github.com/hooplab/shotform/internal/flaws"
	"github.com/hooplab/shotform/internal/metrics"
	"github.com/hooplab/shotform/internal/monitoring"
	"github.com/hooplab/shotform/internal/phases"
	"github.com/hooplab/shotform/internal/pose"
	"github.com/hooplab/shotform/internal/shotstart"
)

// ErrInsufficientPoseDetection means too few frames carried a usable pose to
// analyze anything. It is fatal for the whole run, never an empty result.
var ErrInsufficientPoseDetection = errors.New("insufficient pose detection")

// minPosedFrames is the floor of successfully-posed frames below which the
// whole analysis is rejected.
const minPosedFrames = 5

// Input is one video's worth of pre-decoded evidence. Lumas are optional;
// without them the pixel-based shot-start estimators stand down.
type Input struct {
	Frames   []pose.Frame
	Lumas    []shotstart.Luma
	FPS      float64
	Width    int
	Height   int
	Shooting pose.Side
}

// PhaseWindow is a phase reported in absolute frame numbers of the source
// video.
type PhaseWindow struct {
	Name      phases.Name `json:"name"`
	Start     int         `json:"start_frame"`
	End       int         `json:"end_frame"`
	KeyMoment int         `json:"key_moment_frame"`
}

// PlanStep is one entry of the improvement plan, ordered worst-first.
type PlanStep struct {
	Priority int      `json:"priority"`
	FlawID   flaws.ID `json:"flaw_id"`
	Focus    string   `json:"focus"`
	Drill    string   `json:"drill"`
}

// Report is the complete analysis result for one video. All frame numbers
// are absolute positions in the source video.
type Report struct {
	RunID     uuid.UUID `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	FPS       float64   `json:"fps"`

	ShotStart shotstart.Result `json:"shot_start"`

	Phases  []PhaseWindow  `json:"phases"`
	Profile camera.Profile `json:"camera_profile"`

	Flaws []flaws.DetectedFlaw `json:"flaws"`
	// SkippedDetectors lists detectors the camera gate prevented from
	// running, so a clean report from a bad angle is not mistaken for a
	// clean shot.
	SkippedDetectors []flaws.ID            `json:"skipped_detectors,omitempty"`
	Fluidity         *flaws.FluiditySummary `json:"fluidity,omitempty"`

	Plan []PlanStep `json:"improvement_plan,omitempty"`
}

// Analyzer runs the pipeline. One Analyzer may serve many videos; each call
// to Analyze owns its intermediate state exclusively.
type Analyzer struct {
	ideals *config.IdealShot
	flags  config.DetectorFlags
}

func New(ideals *config.IdealShot, flags config.DetectorFlags) *Analyzer {
	if ideals == nil {
		ideals = &config.IdealShot{}
	}
	return &Analyzer{ideals: ideals, flags: flags}
}

// Analyze processes one video end to end. The context is checked at frame
// boundaries and between stages, so callers can enforce an overall time cap.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Report, error) {
	if len(in.Frames) == 0 {
		return nil, fmt.Errorf("analyze: no frames supplied")
	}
	if in.FPS <= 0 {
		return nil, fmt.Errorf("analyze: fps must be positive, got %g", in.FPS)
	}
	shooting := in.Shooting
	if shooting == "" {
		shooting = pose.SideRight
	}

	posed := 0
	for i, f := range in.Frames {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if f.Detected() {
			posed++
		}
	}
	if posed < minPosedFrames {
		return nil, fmt.Errorf("analyze: %d of %d frames posed (need %d): %w",
			posed, len(in.Frames), minPosedFrames, ErrInsufficientPoseDetection)
	}

	start := shotstart.NewDetector(shooting, in.FPS).Detect(in.Frames, in.Lumas)
	offset := start.StartFrame
	monitoring.Logf("analysis: shot start at frame %d (method %s, confidence %.2f)",
		offset, start.Method, start.Confidence)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Extraction runs over the full capture so boundary velocities keep
	// their preceding frame, then the trimmed tail drives everything else.
	all := metrics.NewExtractor(shooting, in.FPS).ExtractAll(in.Frames)
	trimmed := all[offset:]
	trimmedPose := in.Frames[offset:]
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := camera.Classify(trimmedPose, shooting)
	ps := phases.Segment(trimmed, in.FPS)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine := flaws.NewEngine(a.ideals, a.flags, in.FPS)
	found, skipped, fluidity := engine.Run(trimmed, ps, profile)

	// Everything downstream reports absolute source-video frame numbers.
	for i := range found {
		found[i].FrameNumber += offset
	}
	rebaseFluidity(fluidity, offset)

	windows := make([]PhaseWindow, 0, len(ps))
	for _, p := range ps {
		windows = append(windows, PhaseWindow{
			Name:      p.Name,
			Start:     p.Start + offset,
			End:       p.End + offset,
			KeyMoment: p.KeyMoment + offset,
		})
	}

	return &Report{
		RunID:            uuid.New(),
		CreatedAt:        time.Now().UTC(),
		FPS:              in.FPS,
		ShotStart:        start,
		Phases:           windows,
		Profile:          profile,
		Flaws:            found,
		SkippedDetectors: skipped,
		Fluidity:         fluidity,
		Plan:             buildPlan(found),
	}, nil
}

func rebaseFluidity(s *flaws.FluiditySummary, offset int) {
	if s == nil {
		return
	}
	for _, list := range [][]flaws.Anomaly{s.AccelerationSpikes, s.RhythmBreaks, s.VelocityAnomalies} {
		for i := range list {
			list[i].Frame += offset
		}
	}
}

// buildPlan orders the confirmed flaws into an improvement plan. The flaw
// list is already severity-sorted, so priority is its rank.
func buildPlan(found []flaws.DetectedFlaw) []PlanStep {
	if len(found) == 0 {
		return nil
	}
	plan := make([]PlanStep, 0, len(found))
	for i, f := range found {
		plan = append(plan, PlanStep{
			Priority: i + 1,
			FlawID:   f.ID,
			Focus:    f.CoachingTip,
			Drill:    f.DrillSuggestion,
		})
	}
	return plan
}
