package sequencer

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"go-marimba/config"
	"go-marimba/debug"
	"go-marimba/gesture"
	"go-marimba/midi"
)

// State of a recording session
type State int

const (
	Recording State = iota
	Stopping
	Finalized
)

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	case Stopping:
		return "stopping"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

// StopReason says why recording ended
type StopReason int

const (
	LimitReached StopReason = iota
	StopRequested
	InputExhausted
	InputFailed
)

func (r StopReason) String() string {
	switch r {
	case LimitReached:
		return "note limit reached"
	case StopRequested:
		return "stop requested"
	case InputExhausted:
		return "input ended"
	case InputFailed:
		return "input failed"
	}
	return "unknown"
}

// Outcome of finalization
type Outcome int

const (
	Saved Outcome = iota
	NothingToPersist
	SaveFailed
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case NothingToPersist:
		return "nothing to persist"
	case SaveFailed:
		return "save failed"
	}
	return "unknown"
}

// Result summarizes a finished session
type Result struct {
	State    State
	Reason   StopReason
	Outcome  Outcome
	Notes    int
	Ticks    int
	Path     string
	InputErr error // set when Reason is InputFailed
	Err      error // set when Outcome is SaveFailed
}

// Options are the recording parameters
type Options struct {
	MaxNotes     int
	BasePitch    int
	TickStep     int
	IndexOffset  int
	MiddleOffset int
}

// DefaultOptions mirrors the compiled-in config
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxNotes:     cfg.Recording.MaxNotes,
		BasePitch:    cfg.Recording.BasePitch,
		TickStep:     cfg.Recording.TickStep,
		IndexOffset:  cfg.Recording.IndexOffset,
		MiddleOffset: cfg.Recording.MiddleOffset,
	}
}

// SessionOption customizes a Session
type SessionOption func(*Session)

// WithDisplay sets the display collaborator
func WithDisplay(d Display) SessionOption {
	return func(s *Session) { s.display = d }
}

// WithStopSignal sets the stop signal polled once per tick
func WithStopSignal(stop StopSignal) SessionOption {
	return func(s *Session) { s.stop = stop }
}

// WithMonitor sends each note to m as it is emitted
func WithMonitor(m Monitor) SessionOption {
	return func(s *Session) { s.monitor = m }
}

// How many recent notes each Progress carries
const recentNotes = 16

// Session turns a stream of frames into one recorded sequence. It runs on
// a single goroutine and owns its sequence until finalization.
type Session struct {
	opts    Options
	rng     Rand
	emitter *Emitter
	source  Source
	store   Store
	display Display
	stop    StopSignal
	monitor Monitor

	state      State
	seq        *midi.Sequence
	noteCount  int
	timeCursor int
	ticks      int
}

// NewSession wires a session. rng feeds both the mapper and the emitter.
func NewSession(opts Options, rng Rand, source Source, store Store, extra ...SessionOption) *Session {
	s := &Session{
		opts:    opts,
		rng:     rng,
		emitter: NewEmitter(rng),
		source:  source,
		store:   store,
		display: nopDisplay{},
		stop:    Never,
		state:   Recording,
		seq:     midi.NewSequence(max(opts.MaxNotes, 0)),
	}
	for _, opt := range extra {
		opt(s)
	}
	return s
}

func (s *Session) State() State { return s.state }

func (s *Session) NoteCount() int { return s.noteCount }

func (s *Session) TimeCursor() int { return s.timeCursor }

// Events returns a copy of what has been recorded so far
func (s *Session) Events() []midi.NoteEvent { return s.seq.Events() }

// Progress snapshots the counters for the display
func (s *Session) Progress() Progress {
	return Progress{
		State:      s.state,
		Ticks:      s.ticks,
		Notes:      s.noteCount,
		MaxNotes:   s.opts.MaxNotes,
		TimeCursor: s.timeCursor,
		Recent:     s.seq.Tail(recentNotes),
	}
}

// Run records until the limit, a stop request or the end of input, then
// persists what was recorded. Collaborators are closed on every path.
func (s *Session) Run(ctx context.Context) Result {
	defer s.cleanup()

	log := debug.L()
	log.Info("recording started",
		zap.Int("max_notes", s.opts.MaxNotes),
		zap.String("output", s.store.Location()),
	)

	reason, inputErr := s.record(ctx)
	s.state = Stopping
	log.Info("recording stopped",
		zap.Stringer("reason", reason),
		zap.Int("notes", s.noteCount),
		zap.Int("ticks", s.ticks),
	)

	res := s.finalize()
	res.Reason = reason
	res.InputErr = inputErr
	s.state = Finalized
	res.State = s.state
	return res
}

func (s *Session) record(ctx context.Context) (StopReason, error) {
	for {
		if s.noteCount >= s.opts.MaxNotes {
			return LimitReached, nil
		}

		frame, err := s.source.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return InputExhausted, nil
			case ctx.Err() != nil:
				return StopRequested, nil
			default:
				debug.L().Error("frame acquisition failed", zap.Error(err))
				return InputFailed, err
			}
		}
		s.ticks++

		if frame.Empty() {
			debug.LogEvery(30, "input", "no hand detected")
		}
		s.Step(frame)
		s.display.Show(frame, s.Progress())

		if s.stop.Stopped() || ctx.Err() != nil {
			return StopRequested, nil
		}
		if s.noteCount >= s.opts.MaxNotes {
			debug.L().Info("note limit reached", zap.Int("notes", s.noteCount))
			return LimitReached, nil
		}
	}
}

// Step plays every hand in the frame, index finger before middle finger.
// It stops as soon as the note limit is hit, even between the two fingers
// of one hand. Returns the number of notes emitted.
func (s *Session) Step(frame gesture.Frame) int {
	if s.state != Recording {
		return 0
	}

	emitted := 0
	for _, hand := range frame.Hands {
		fingers := [...]struct {
			y      float64
			offset int
		}{
			{hand.Index.Y, s.opts.IndexOffset},
			{hand.Middle.Y, s.opts.MiddleOffset},
		}
		for _, f := range fingers {
			if s.noteCount >= s.opts.MaxNotes {
				return emitted
			}
			s.play(f.y, f.offset)
			emitted++
		}
	}
	return emitted
}

func (s *Session) play(y float64, offset int) {
	pitch := MapNote(s.rng, y, s.opts.BasePitch, offset)
	e := s.emitter.Emit(s.seq, pitch, s.timeCursor)
	s.noteCount++
	s.timeCursor += s.opts.TickStep

	if s.monitor != nil {
		if err := s.monitor.Note(e); err != nil {
			debug.L().Warn("monitor note failed", zap.Error(err))
		}
	}
}

func (s *Session) finalize() Result {
	log := debug.L()
	res := Result{
		Notes: s.seq.Len(),
		Ticks: s.ticks,
		Path:  s.store.Location(),
	}

	if s.seq.Empty() {
		log.Info("no notes recorded, nothing to persist")
		res.Outcome = NothingToPersist
		return res
	}

	log.Info("saving midi file", zap.String("path", res.Path), zap.Int("notes", res.Notes))
	if err := s.store.Save(s.seq); err != nil {
		log.Error("saving midi file failed", zap.String("path", res.Path), zap.Error(err))
		res.Outcome = SaveFailed
		res.Err = err
		return res
	}
	log.Info("midi file saved", zap.String("path", res.Path))
	res.Outcome = Saved
	return res
}

func (s *Session) cleanup() {
	log := debug.L()
	if err := s.source.Close(); err != nil {
		log.Warn("closing input failed", zap.Error(err))
	}
	if err := s.display.Close(); err != nil {
		log.Warn("closing display failed", zap.Error(err))
	}
	if s.monitor != nil {
		if err := s.monitor.Close(); err != nil {
			log.Warn("closing monitor failed", zap.Error(err))
		}
	}
}
