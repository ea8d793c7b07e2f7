package midi

// Sequence is an append-only, ordered list of notes. Insertion order is
// playback order. A Sequence has a single owner and is not safe for
// concurrent use.
type Sequence struct {
	events []NoteEvent
}

// NewSequence creates an empty sequence with room for capacity notes
func NewSequence(capacity int) *Sequence {
	if capacity < 0 {
		capacity = 0
	}
	return &Sequence{events: make([]NoteEvent, 0, capacity)}
}

// Append adds a note at the end
func (s *Sequence) Append(e NoteEvent) {
	s.events = append(s.events, e)
}

func (s *Sequence) Len() int {
	return len(s.events)
}

func (s *Sequence) Empty() bool {
	return len(s.events) == 0
}

// At returns the i-th note
func (s *Sequence) At(i int) NoteEvent {
	return s.events[i]
}

// Last returns the most recent note, if any
func (s *Sequence) Last() (NoteEvent, bool) {
	if len(s.events) == 0 {
		return NoteEvent{}, false
	}
	return s.events[len(s.events)-1], true
}

// Events returns a copy of the notes in order
func (s *Sequence) Events() []NoteEvent {
	out := make([]NoteEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Tail returns a copy of the last n notes (fewer if the sequence is shorter)
func (s *Sequence) Tail(n int) []NoteEvent {
	if n > len(s.events) {
		n = len(s.events)
	}
	if n <= 0 {
		return nil
	}
	out := make([]NoteEvent, n)
	copy(out, s.events[len(s.events)-n:])
	return out
}
