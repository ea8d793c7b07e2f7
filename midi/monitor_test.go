package midi

import (
	"errors"
	"sync"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

type recordingPort struct {
	mu   sync.Mutex
	msgs []gomidi.Message
}

func (p *recordingPort) send(msg gomidi.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPort) snapshot() []gomidi.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]gomidi.Message(nil), p.msgs...)
}

func TestMonitorSendsHeaderNoteAndNoteOff(t *testing.T) {
	port := &recordingPort{}
	// 600 bpm at 10 ticks per quarter: one tick = 10ms
	ts := TrackSettings{Program: 12, Volume: 100, TicksPerQuarter: 10}
	m, err := newMonitor(port.send, ts, 600)
	if err != nil {
		t.Fatalf("newMonitor: %v", err)
	}

	if err := m.Note(NoteEvent{Pitch: 64, Velocity: 70, Duration: 1}); err != nil {
		t.Fatalf("Note: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(port.snapshot()) < 4 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	msgs := port.snapshot()
	if len(msgs) < 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}

	var ch, key, vel uint8
	if !msgs[2].GetNoteOn(&ch, &key, &vel) || key != 64 || vel != 70 {
		t.Errorf("third message should be note on 64/70, got %s", msgs[2])
	}
	if !msgs[3].GetNoteOff(&ch, &key, &vel) || key != 64 {
		t.Errorf("fourth message should be note off 64, got %s", msgs[3])
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestMonitorCloseCancelsPendingNoteOffs(t *testing.T) {
	port := &recordingPort{}
	m, err := newMonitor(port.send, DefaultTrackSettings(), 120)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Note(NoteEvent{Pitch: 60, Velocity: 60, Duration: 960}); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	msgs := port.snapshot()
	last := msgs[len(msgs)-1]
	var ch, cc, val uint8
	if !last.GetControlChange(&ch, &cc, &val) || cc != 123 {
		t.Errorf("last message should be all-notes-off, got %s", last)
	}
	if err := m.Note(NoteEvent{Pitch: 60, Velocity: 60, Duration: 240}); err != nil {
		t.Errorf("Note after Close should be ignored, got %v", err)
	}
	if got := len(port.snapshot()); got != len(msgs) {
		t.Errorf("messages sent after Close: %d", got-len(msgs))
	}
}

func TestMonitorRejectsOutOfRangePitch(t *testing.T) {
	port := &recordingPort{}
	m, err := newMonitor(port.send, DefaultTrackSettings(), 120)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if err := m.Note(NoteEvent{Pitch: 140, Velocity: 60, Duration: 240}); !errors.Is(err, ErrPitchRange) {
		t.Errorf("got %v, want ErrPitchRange", err)
	}
}
