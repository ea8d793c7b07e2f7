package midi

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"

	"go-marimba/debug"
)

var (
	// ErrEmptySequence is returned when there is nothing to write
	ErrEmptySequence = errors.New("sequence has no notes")
	// ErrPitchRange is returned for a note that does not fit a MIDI data byte
	ErrPitchRange = errors.New("pitch outside 0-127")
)

// Controller number for channel volume
const ccVolume = 7

// How many leading track messages are logged before a save
const previewMessages = 10

// TrackSettings controls the fixed track header and timing
type TrackSettings struct {
	Channel         uint8
	Program         uint8
	Volume          uint8
	TicksPerQuarter uint16

	// CumulativeOffsets writes each note's absolute Start as its note-on
	// delta instead of the distance from the previous note's start.
	CumulativeOffsets bool
}

// DefaultTrackSettings returns marimba at volume 100, 480 ticks per quarter
func DefaultTrackSettings() TrackSettings {
	return TrackSettings{
		Program:         12,
		Volume:          100,
		TicksPerQuarter: 480,
	}
}

type timedMessage struct {
	delta uint32
	msg   gomidi.Message
}

// renderTrack lays out the track: program change, volume, then a note-on /
// note-off pair per note. Every delta is relative to the previous message.
func renderTrack(seq *Sequence, ts TrackSettings) ([]timedMessage, error) {
	msgs := make([]timedMessage, 0, 2+2*seq.Len())
	msgs = append(msgs,
		timedMessage{0, gomidi.ProgramChange(ts.Channel, ts.Program)},
		timedMessage{0, gomidi.ControlChange(ts.Channel, ccVolume, ts.Volume)},
	)

	prevStart := 0
	for i, e := range seq.events {
		if !e.InRange() {
			return nil, fmt.Errorf("note %d: %w: %d", i, ErrPitchRange, e.Pitch)
		}
		if e.Velocity < 0 || e.Velocity > 127 {
			return nil, fmt.Errorf("note %d: velocity outside 0-127: %d", i, e.Velocity)
		}
		if e.Duration < 0 {
			return nil, fmt.Errorf("note %d: negative duration %d", i, e.Duration)
		}

		gap := e.Start - prevStart
		if ts.CumulativeOffsets {
			gap = e.Start
		}
		if gap < 0 {
			gap = 0
		}
		prevStart = e.Start

		key, vel := uint8(e.Pitch), uint8(e.Velocity)
		msgs = append(msgs,
			timedMessage{uint32(gap), gomidi.NoteOn(ts.Channel, key, vel)},
			timedMessage{uint32(e.Duration), gomidi.NoteOffVelocity(ts.Channel, key, vel)},
		)
	}
	return msgs, nil
}

// BuildSMF renders seq into a single-track Standard MIDI File
func BuildSMF(seq *Sequence, ts TrackSettings) (*smf.SMF, error) {
	if seq.Empty() {
		return nil, ErrEmptySequence
	}

	msgs, err := renderTrack(seq, ts)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ts.TicksPerQuarter)

	var track smf.Track
	for _, m := range msgs {
		track.Add(m.delta, m.msg)
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}

	preview := make([]string, 0, previewMessages)
	for i := 0; i < len(msgs) && i < previewMessages; i++ {
		preview = append(preview, fmt.Sprintf("%s delta=%d", msgs[i].msg.String(), msgs[i].delta))
	}
	debug.L().Debug("track preview", zap.Strings("messages", preview), zap.Int("total", len(msgs)))

	return s, nil
}

// Encode writes seq as a Standard MIDI File to w
func Encode(w io.Writer, seq *Sequence, ts TrackSettings) error {
	s, err := BuildSMF(seq, ts)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("encode midi: %w", err)
	}
	return nil
}

// EnsureDir creates dir (and parents) if missing, reporting whether it had to
func EnsureDir(dir string) (created bool, err error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create %s: %w", dir, err)
	}
	return true, nil
}

// WriteFile renders seq and writes it to path, creating the directory first
func WriteFile(path string, seq *Sequence, ts TrackSettings) error {
	s, err := BuildSMF(seq, ts)
	if err != nil {
		return err
	}
	if _, err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write midi file: %w", err)
	}
	return nil
}

// TrackMessage is one decoded message of a recorded track
type TrackMessage struct {
	Delta uint32
	Tick  uint32 // absolute
	Text  string
}

// Recording is what Decode recovers from a file
type Recording struct {
	TicksPerQuarter uint16
	Tracks          int
	Program         int // -1 when absent
	Volume          int // -1 when absent
	Notes           []NoteEvent
	Messages        []TrackMessage
}

// ReadFile decodes the first track of a MIDI file
func ReadFile(path string) (*Recording, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}
	return decode(s)
}

// Decode decodes the first track of a MIDI stream
func Decode(r io.Reader) (*Recording, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("decode midi: %w", err)
	}
	return decode(s)
}

func decode(s *smf.SMF) (*Recording, error) {
	if len(s.Tracks) == 0 {
		return nil, errors.New("midi file has no tracks")
	}

	rec := &Recording{
		Tracks:  len(s.Tracks),
		Program: -1,
		Volume:  -1,
	}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		rec.TicksPerQuarter = uint16(mt)
	}

	// note-ons waiting for their note-off, by key
	open := make(map[uint8][]int)

	var tick uint32
	for _, ev := range s.Tracks[0] {
		tick += ev.Delta
		rec.Messages = append(rec.Messages, TrackMessage{Delta: ev.Delta, Tick: tick, Text: ev.Message.String()})

		var ch, key, val, prog uint8
		switch {
		case ev.Message.GetProgramChange(&ch, &prog):
			rec.Program = int(prog)
		case ev.Message.GetControlChange(&ch, &key, &val):
			if key == ccVolume {
				rec.Volume = int(val)
			}
		case ev.Message.GetNoteOn(&ch, &key, &val):
			open[key] = append(open[key], len(rec.Notes))
			rec.Notes = append(rec.Notes, NoteEvent{Pitch: int(key), Velocity: int(val), Start: int(tick)})
		case ev.Message.GetNoteOff(&ch, &key, &val):
			pending := open[key]
			if len(pending) == 0 {
				continue
			}
			idx := pending[0]
			open[key] = pending[1:]
			rec.Notes[idx].Duration = int(tick) - rec.Notes[idx].Start
		}
	}
	return rec, nil
}
