package midi

import "fmt"

// NoteEvent is one recorded note: a note-on at Start followed by a
// note-off Duration ticks later. Values are never mutated after append.
type NoteEvent struct {
	Pitch    int
	Velocity int
	Duration int
	Start    int
}

// End returns the tick of the note-off
func (e NoteEvent) End() int {
	return e.Start + e.Duration
}

func (e NoteEvent) String() string {
	return fmt.Sprintf("%s(%d) vel=%d dur=%d @%d", NoteName(e.Pitch), e.Pitch, e.Velocity, e.Duration, e.Start)
}

// InRange reports whether the pitch fits a MIDI data byte
func (e NoteEvent) InRange() bool {
	return e.Pitch >= 0 && e.Pitch <= 127
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns e.g. "C4" for 60. Out-of-range pitches keep counting octaves.
func NoteName(pitch int) string {
	octave := pitch/12 - 1
	idx := pitch % 12
	if idx < 0 {
		idx += 12
		octave--
	}
	return fmt.Sprintf("%s%d", noteNames[idx], octave)
}
