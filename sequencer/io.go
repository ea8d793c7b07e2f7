package sequencer

import (
	"context"

	"go.uber.org/zap"

	"go-marimba/debug"
	"go-marimba/gesture"
	"go-marimba/midi"
)

// Source delivers one frame per tick. io.EOF ends the stream normally,
// any other error is an acquisition failure.
type Source interface {
	Next(ctx context.Context) (gesture.Frame, error)
	Close() error
}

// Display observes each processed frame. Nothing flows back.
type Display interface {
	Show(frame gesture.Frame, p Progress)
	Close() error
}

// StopSignal is polled once per tick
type StopSignal interface {
	Stopped() bool
}

// StopFunc adapts a function to StopSignal
type StopFunc func() bool

func (f StopFunc) Stopped() bool { return f() }

// Never is a StopSignal that never fires
var Never StopSignal = StopFunc(func() bool { return false })

// Monitor hears each note as it is emitted (e.g. a live MIDI port)
type Monitor interface {
	Note(e midi.NoteEvent) error
	Close() error
}

// Store persists a finished sequence
type Store interface {
	Save(seq *midi.Sequence) error
	Location() string
}

// FileStore writes a Standard MIDI File to Path
type FileStore struct {
	Path     string
	Settings midi.TrackSettings
}

func (fs FileStore) Save(seq *midi.Sequence) error {
	return midi.WriteFile(fs.Path, seq, fs.Settings)
}

func (fs FileStore) Location() string {
	return fs.Path
}

// Progress is the per-tick snapshot handed to the display
type Progress struct {
	State      State
	Ticks      int
	Notes      int
	MaxNotes   int
	TimeCursor int
	Recent     []midi.NoteEvent // newest last
}

// Fraction of the note budget used, 0-1
func (p Progress) Fraction() float64 {
	if p.MaxNotes <= 0 {
		return 0
	}
	return min(1, float64(p.Notes)/float64(p.MaxNotes))
}

// LogDisplay reports progress through the debug logger (headless mode)
type LogDisplay struct {
	lastNotes int
}

func (d *LogDisplay) Show(frame gesture.Frame, p Progress) {
	if p.Notes == d.lastNotes {
		return
	}
	d.lastNotes = p.Notes

	fields := []zap.Field{
		zap.Int("frame", frame.Seq),
		zap.Int("hands", len(frame.Hands)),
		zap.Int("notes", p.Notes),
		zap.Int("max", p.MaxNotes),
		zap.Int("cursor", p.TimeCursor),
	}
	if n := len(p.Recent); n > 0 {
		fields = append(fields, zap.Stringer("last", p.Recent[n-1]))
	}
	debug.L().Info("recording", fields...)
}

func (d *LogDisplay) Close() error {
	return nil
}

type nopDisplay struct{}

func (nopDisplay) Show(gesture.Frame, Progress) {}
func (nopDisplay) Close() error                 { return nil }
