package gesture

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// SliceSource replays frames from memory, then reports io.EOF
type SliceSource struct {
	frames []Frame
	pos    int
	closed bool
}

func NewSliceSource(frames []Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

// Next returns the next frame or io.EOF
func (s *SliceSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.closed || s.pos >= len(s.frames) {
		return Frame{}, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// Remaining is how many frames have not been read yet
func (s *SliceSource) Remaining() int {
	return len(s.frames) - s.pos
}

func (s *SliceSource) Close() error {
	s.closed = true
	return nil
}

func (s *SliceSource) Closed() bool {
	return s.closed
}

// Largest accepted line (a 21-landmark hand is well under 2KB)
const maxLineSize = 1 << 20

// StreamSource reads newline-delimited JSON frames written by an external
// detector process, e.g. on stdin or a named pipe. Each line is one tick:
//
//	{"seq":1,"hands":[{"index":{"x":0.4,"y":0.2},"middle":{"x":0.5,"y":0.3}}]}
//	{"seq":2,"hands":[{"landmarks":[[0.1,0.9,0],...]}]}
//	{"seq":3,"hands":[]}
//	{"seq":4,"error":"camera read failed"}
type StreamSource struct {
	r       io.Reader
	scanner *bufio.Scanner
	line    int
}

func NewStreamSource(r io.Reader) *StreamSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &StreamSource{r: r, scanner: sc}
}

// Next blocks until the detector writes a line. It returns io.EOF when the
// stream ends and a wrapped ErrCaptureFailed when the detector reports one.
func (s *StreamSource) Next(ctx context.Context) (Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Frame{}, fmt.Errorf("read frame: %w", err)
			}
			return Frame{}, io.EOF
		}
		s.line++

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var w wireFrame
		if err := json.Unmarshal(line, &w); err != nil {
			return Frame{}, fmt.Errorf("line %d: decode frame: %w", s.line, err)
		}
		f, err := w.toFrame()
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		if f.Seq == 0 {
			f.Seq = s.line
		}
		return f, nil
	}
}

// Close closes the underlying reader when it is closable
func (s *StreamSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
