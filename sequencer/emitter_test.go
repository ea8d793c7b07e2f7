package sequencer

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-marimba/debug"
	"go-marimba/midi"
)

func TestEmitDurationAndVelocityRanges(t *testing.T) {
	em := NewEmitter(NewRand(1234))
	seq := midi.NewSequence(0)

	seenDur := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		before := seq.Len()
		e := em.Emit(seq, 60, i*240)
		if seq.Len() != before+1 {
			t.Fatalf("emit %d: length %d, want %d", i, seq.Len(), before+1)
		}
		switch e.Duration {
		case 240, 480, 720, 960:
			seenDur[e.Duration] = true
		default:
			t.Fatalf("emit %d: duration %d not in set", i, e.Duration)
		}
		if e.Velocity < 50 || e.Velocity > 100 {
			t.Fatalf("emit %d: velocity %d out of range", i, e.Velocity)
		}
		if e.Start != i*240 {
			t.Fatalf("emit %d: start %d, want %d", i, e.Start, i*240)
		}
		if last, _ := seq.Last(); last != e {
			t.Fatalf("emit %d: appended %+v, returned %+v", i, last, e)
		}
	}
	if len(seenDur) != 4 {
		t.Errorf("only saw durations %v", seenDur)
	}
}

func TestEmitCoversVelocityBounds(t *testing.T) {
	em := NewEmitter(&cycleRand{})
	seq := midi.NewSequence(0)
	lo, hi := 1000, -1
	for i := 0; i < 51*4; i++ {
		e := em.Emit(seq, 60, 0)
		lo, hi = min(lo, e.Velocity), max(hi, e.Velocity)
	}
	if lo != 50 || hi != 100 {
		t.Errorf("velocity span [%d, %d], want [50, 100]", lo, hi)
	}
}

func TestEmitPassesPitchThrough(t *testing.T) {
	em := NewEmitter(midRand{})
	seq := midi.NewSequence(0)
	e := em.Emit(seq, 139, 480)
	if e.Pitch != 139 {
		t.Errorf("pitch: got %d, want 139", e.Pitch)
	}
	if e.Duration != 720 || e.Velocity != 75 {
		t.Errorf("midRand should give 720/75, got %d/%d", e.Duration, e.Velocity)
	}
}

func TestEmitLogsDiagnosticRecord(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	debug.Use(zap.New(core))
	defer debug.Disable()

	NewEmitter(midRand{}).Emit(midi.NewSequence(0), 64, 240)

	entries := logs.FilterMessage("note added").All()
	if len(entries) != 1 {
		t.Fatalf("got %d records, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["pitch"] != int64(64) || fields["duration"] != int64(720) || fields["velocity"] != int64(75) {
		t.Errorf("unexpected fields: %v", fields)
	}
}
