package gesture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is a recorded gesture session stored as YAML:
//
//	repeat: 80
//	frames:
//	  - hands:
//	      - index: {x: 0.4, y: 0.2}
//	        middle: {x: 0.5, y: 0.2}
//	  - {}   # no hand this tick
type Fixture struct {
	Repeat int         `yaml:"repeat,omitempty"`
	Frames []wireFrame `yaml:"frames"`
}

// ParseFixture decodes fixture YAML into frames, expanding Repeat
func ParseFixture(data []byte) ([]Frame, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	base := make([]Frame, 0, len(fx.Frames))
	for i, w := range fx.Frames {
		f, err := w.toFrame()
		if err != nil {
			return nil, fmt.Errorf("fixture frame %d: %w", i, err)
		}
		base = append(base, f)
	}

	repeat := fx.Repeat
	if repeat <= 0 {
		repeat = 1
	}
	frames := make([]Frame, 0, len(base)*repeat)
	for r := 0; r < repeat; r++ {
		for _, f := range base {
			f.Seq = len(frames) + 1
			frames = append(frames, f)
		}
	}
	return frames, nil
}

// LoadFixture reads a fixture file into a replayable source
func LoadFixture(path string) (*SliceSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	frames, err := ParseFixture(data)
	if err != nil {
		return nil, err
	}
	return NewSliceSource(frames), nil
}
