package gesture

import (
	"errors"
	"fmt"
)

// ErrCaptureFailed is reported when the detector says it could not read a frame
var ErrCaptureFailed = errors.New("capture failed")

// wireHand accepts either named fingertips or the raw landmark list
type wireHand struct {
	Label     string      `json:"label,omitempty" yaml:"label,omitempty"`
	Index     *Landmark   `json:"index,omitempty" yaml:"index,omitempty"`
	Middle    *Landmark   `json:"middle,omitempty" yaml:"middle,omitempty"`
	Landmarks [][]float64 `json:"landmarks,omitempty" yaml:"landmarks,omitempty"`
}

type wireFrame struct {
	Seq   int        `json:"seq,omitempty" yaml:"seq,omitempty"`
	Hands []wireHand `json:"hands,omitempty" yaml:"hands,omitempty"`
	Error string     `json:"error,omitempty" yaml:"error,omitempty"`
}

func (w wireHand) toHand() (Hand, error) {
	if w.Index != nil && w.Middle != nil {
		return Hand{Label: w.Label, Index: *w.Index, Middle: *w.Middle}, nil
	}
	if len(w.Landmarks) > 0 {
		h, err := HandFromLandmarks(w.Landmarks)
		if err != nil {
			return Hand{}, err
		}
		h.Label = w.Label
		return h, nil
	}
	return Hand{}, errors.New("hand has neither index/middle nor landmarks")
}

func (w wireFrame) toFrame() (Frame, error) {
	if w.Error != "" {
		return Frame{}, fmt.Errorf("%w: %s", ErrCaptureFailed, w.Error)
	}
	f := Frame{Seq: w.Seq}
	for i, wh := range w.Hands {
		h, err := wh.toHand()
		if err != nil {
			return Frame{}, fmt.Errorf("hand %d: %w", i, err)
		}
		f.Hands = append(f.Hands, h)
	}
	return f, nil
}
