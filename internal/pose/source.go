package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Estimator produces one pose estimate per video frame. Implementations
// wrap the external model service; a frame the model cannot pose must still
// be returned as an empty Frame so indices stay aligned.
type Estimator interface {
	// EstimateFrame returns the landmarks for a single encoded frame image.
	EstimateFrame(image []byte) (Frame, error)
}

// frameRecord is the JSONL wire form of one frame estimate.
type frameRecord struct {
	FrameIndex int                       `json:"frame_index"`
	Landmarks  map[LandmarkName]Landmark `json:"landmarks,omitempty"`
	Detected   bool                      `json:"detected"`
}

// ReadJSONL reads a pose capture: one JSON object per line, in frame order.
// Frames the estimator failed on appear as records with detected=false and
// are returned as empty Frames, preserving index alignment. Records must be
// contiguous and ascending; a gap is a corrupt capture and is an error.
func ReadJSONL(r io.Reader) ([]Frame, error) {
	var frames []Frame
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec frameRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("pose capture line %d: %w", line, err)
		}
		if rec.FrameIndex != len(frames) {
			return nil, fmt.Errorf("pose capture line %d: frame_index %d out of order (want %d)", line, rec.FrameIndex, len(frames))
		}
		if !rec.Detected || len(rec.Landmarks) == 0 {
			frames = append(frames, Frame{})
			continue
		}
		frames = append(frames, Frame(rec.Landmarks))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pose capture: %w", err)
	}
	return frames, nil
}

// ReadJSONLFile reads a pose capture from disk.
func ReadJSONLFile(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pose capture: %w", err)
	}
	defer f.Close()
	return ReadJSONL(f)
}

// WriteJSONL writes frames in the capture format. Used by tooling that
// records estimator output for offline analysis.
func WriteJSONL(w io.Writer, frames []Frame) error {
	enc := json.NewEncoder(w)
	for i, f := range frames {
		rec := frameRecord{FrameIndex: i, Detected: f.Detected()}
		if rec.Detected {
			rec.Landmarks = map[LandmarkName]Landmark(f)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write pose capture frame %d: %w", i, err)
		}
	}
	return nil
}
