package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PortTimeout bounds a port scan. CoreMIDI can hang; when it does the fix
// is: sudo killall coreaudiod midiserver
const PortTimeout = 3 * time.Second

var ErrPortScanTimeout = errors.New("midi port scan timed out")

// Ports is a snapshot of the system's MIDI ports
type Ports struct {
	In  []drivers.In
	Out []drivers.Out
}

// InNames and OutNames list port names in driver order
func (p Ports) InNames() []string  { return portNames(p.In) }
func (p Ports) OutNames() []string { return portNames(p.Out) }

func portNames[T fmt.Stringer](ports []T) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names
}

// ScanPorts lists ports, giving up after timeout
func ScanPorts(timeout time.Duration) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{In: gomidi.GetInPorts(), Out: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		return Ports{}, ErrPortScanTimeout
	}
}

// FindOut picks the output port whose name matches name exactly, or
// failing that the first one containing it (case-insensitive)
func (p Ports) FindOut(name string) (drivers.Out, error) {
	i := matchPort(p.OutNames(), name)
	if i < 0 {
		return nil, fmt.Errorf("no output port matching %q", name)
	}
	return p.Out[i], nil
}

func matchPort(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	want = strings.ToLower(want)
	if want == "" {
		return -1
	}
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i
		}
	}
	return -1
}
