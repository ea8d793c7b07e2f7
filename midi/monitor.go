package midi

import (
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// CC 123: all notes off
const ccAllNotesOff = 123

// Monitor plays recorded notes on a live MIDI output port as they are
// emitted. A driver must be registered by the caller (e.g. rtmididrv).
type Monitor struct {
	send    func(gomidi.Message) error
	channel uint8
	tick    time.Duration // wall time of one tick

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

// OpenMonitor finds the named output port and sends the track header to it
func OpenMonitor(portName string, ts TrackSettings, bpm int) (*Monitor, error) {
	ports, err := ScanPorts(PortTimeout)
	if err != nil {
		return nil, err
	}
	out, err := ports.FindOut(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output port %q: %w", portName, err)
	}
	return newMonitor(send, ts, bpm)
}

func newMonitor(send func(gomidi.Message) error, ts TrackSettings, bpm int) (*Monitor, error) {
	if bpm <= 0 {
		bpm = 120
	}
	tpq := int(ts.TicksPerQuarter)
	if tpq <= 0 {
		tpq = 480
	}
	m := &Monitor{
		send:    send,
		channel: ts.Channel,
		tick:    time.Minute / time.Duration(bpm*tpq),
		timers:  make(map[*time.Timer]struct{}),
	}
	if err := send(gomidi.ProgramChange(ts.Channel, ts.Program)); err != nil {
		return nil, fmt.Errorf("send program change: %w", err)
	}
	if err := send(gomidi.ControlChange(ts.Channel, ccVolume, ts.Volume)); err != nil {
		return nil, fmt.Errorf("send volume: %w", err)
	}
	return m, nil
}

// Note sounds e now and schedules its note-off after e.Duration ticks
func (m *Monitor) Note(e NoteEvent) error {
	if !e.InRange() {
		return fmt.Errorf("monitor: %w: %d", ErrPitchRange, e.Pitch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}

	key := uint8(e.Pitch)
	if err := m.send(gomidi.NoteOn(m.channel, key, uint8(e.Velocity))); err != nil {
		return fmt.Errorf("monitor note on: %w", err)
	}

	var t *time.Timer
	t = time.AfterFunc(time.Duration(e.Duration)*m.tick, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.timers, t)
		if !m.closed {
			m.send(gomidi.NoteOff(m.channel, key))
		}
	})
	m.timers[t] = struct{}{}
	return nil
}

// Close cancels pending note-offs and silences the channel
func (m *Monitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for t := range m.timers {
		t.Stop()
	}
	m.timers = nil
	return m.send(gomidi.ControlChange(m.channel, ccAllNotesOff, 0))
}
