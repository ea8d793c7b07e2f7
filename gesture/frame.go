// Package gesture models what the hand detector reports each tick and the
// sources that deliver those reports.
package gesture

import "fmt"

// Detector landmark numbering (21 points per hand)
const (
	NumLandmarks = 21
	IndexTip     = 8
	MiddleTip    = 12
)

// Landmark is a normalized point: X and Y in [0,1] across the image,
// Y growing downward. Values outside [0,1] are passed through.
type Landmark struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

// Hand is one detected hand, exposing only the two tracked fingertips
type Hand struct {
	Label  string // "Left" / "Right" when the detector provides it
	Index  Landmark
	Middle Landmark
}

// HandFromLandmarks picks the tracked fingertips out of a raw detector
// result. Each point is [x, y] or [x, y, z].
func HandFromLandmarks(points [][]float64) (Hand, error) {
	if len(points) <= MiddleTip {
		return Hand{}, fmt.Errorf("need at least %d landmarks, got %d", MiddleTip+1, len(points))
	}
	index, err := landmarkFrom(points[IndexTip])
	if err != nil {
		return Hand{}, fmt.Errorf("landmark %d: %w", IndexTip, err)
	}
	middle, err := landmarkFrom(points[MiddleTip])
	if err != nil {
		return Hand{}, fmt.Errorf("landmark %d: %w", MiddleTip, err)
	}
	return Hand{Index: index, Middle: middle}, nil
}

func landmarkFrom(p []float64) (Landmark, error) {
	switch len(p) {
	case 2:
		return Landmark{X: p[0], Y: p[1]}, nil
	case 3:
		return Landmark{X: p[0], Y: p[1], Z: p[2]}, nil
	default:
		return Landmark{}, fmt.Errorf("expected 2 or 3 coordinates, got %d", len(p))
	}
}

// Frame is everything reported for one tick. No hands means none detected.
type Frame struct {
	Seq   int
	Hands []Hand
}

func (f Frame) Empty() bool {
	return len(f.Hands) == 0
}
