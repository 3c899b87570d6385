// Package pose defines the boundary to the external pose estimator: the
// landmark vocabulary, the per-frame estimate type, and sources that produce
// one estimate per video frame. The estimator itself (the ML model) is an
// external collaborator; this package only consumes its output.
package pose

import "github.com/hooplab/shotform/internal/geom"

// LandmarkName identifies an anatomical point reported by the estimator.
// Names follow the MediaPipe pose convention.
type LandmarkName string

const (
	Nose          LandmarkName = "nose"
	LeftEar       LandmarkName = "left_ear"
	RightEar      LandmarkName = "right_ear"
	LeftShoulder  LandmarkName = "left_shoulder"
	RightShoulder LandmarkName = "right_shoulder"
	LeftElbow     LandmarkName = "left_elbow"
	RightElbow    LandmarkName = "right_elbow"
	LeftWrist     LandmarkName = "left_wrist"
	RightWrist    LandmarkName = "right_wrist"
	LeftThumb     LandmarkName = "left_thumb"
	RightThumb    LandmarkName = "right_thumb"
	LeftIndex     LandmarkName = "left_index"
	RightIndex    LandmarkName = "right_index"
	LeftHip       LandmarkName = "left_hip"
	RightHip      LandmarkName = "right_hip"
	LeftKnee      LandmarkName = "left_knee"
	RightKnee     LandmarkName = "right_knee"
	LeftAnkle     LandmarkName = "left_ankle"
	RightAnkle    LandmarkName = "right_ankle"
)

// Landmark is one estimated anatomical point: a 2D pixel position plus the
// estimator's visibility confidence in [0,1].
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Point returns the landmark position as a geometry point.
func (l Landmark) Point() geom.Point {
	return geom.Point{X: l.X, Y: l.Y}
}

// Frame is the estimator output for one video frame. A nil or empty Frame
// means estimation failed for that frame; the frame still occupies its slot
// in the sequence so indices stay aligned with the source video.
type Frame map[LandmarkName]Landmark

// Detected reports whether the estimator produced any landmarks for this frame.
func (f Frame) Detected() bool {
	return len(f) > 0
}

// Get returns the named landmark and whether it is present with visibility
// at or above minVis.
func (f Frame) Get(name LandmarkName, minVis float64) (Landmark, bool) {
	lm, ok := f[name]
	if !ok || lm.Visibility < minVis {
		return Landmark{}, false
	}
	return lm, true
}

// Side selects the left/right variant of a paired landmark.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Shoulder, Elbow, Wrist, Thumb, Index, Hip, Knee, Ankle map a side to the
// corresponding landmark name.
func (s Side) Shoulder() LandmarkName { return s.paired("shoulder") }
func (s Side) Elbow() LandmarkName    { return s.paired("elbow") }
func (s Side) Wrist() LandmarkName    { return s.paired("wrist") }
func (s Side) Thumb() LandmarkName    { return s.paired("thumb") }
func (s Side) Index() LandmarkName    { return s.paired("index") }
func (s Side) Hip() LandmarkName      { return s.paired("hip") }
func (s Side) Knee() LandmarkName     { return s.paired("knee") }
func (s Side) Ankle() LandmarkName    { return s.paired("ankle") }

func (s Side) paired(part string) LandmarkName {
	return LandmarkName(string(s) + "_" + part)
}
