package sequencer

import (
	"go.uber.org/zap"

	"go-marimba/debug"
	"go-marimba/midi"
)

// Note lengths in ticks: eighth, quarter, dotted quarter, half (at 480 tpq)
var durations = [...]int{240, 480, 720, 960}

const (
	minVelocity = 50
	maxVelocity = 100
)

// Emitter appends notes with a random length and velocity
type Emitter struct {
	rng Rand
}

func NewEmitter(rng Rand) *Emitter {
	return &Emitter{rng: rng}
}

// Emit appends one note at start to seq and returns it. pitch is passed
// through as given.
func (em *Emitter) Emit(seq *midi.Sequence, pitch, start int) midi.NoteEvent {
	e := midi.NoteEvent{
		Pitch:    pitch,
		Duration: durations[em.rng.IntN(len(durations))],
		Velocity: uniform(em.rng, minVelocity, maxVelocity),
		Start:    start,
	}
	seq.Append(e)

	debug.L().Debug("note added",
		zap.Int("pitch", e.Pitch),
		zap.Int("duration", e.Duration),
		zap.Int("velocity", e.Velocity),
		zap.Int("start", e.Start),
	)
	return e
}
