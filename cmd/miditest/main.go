package main

import (
	"fmt"
	"os"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-marimba/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "inspect":
		if len(os.Args) < 3 {
			usage()
			return
		}
		inspect(os.Args[2])
	case "scale":
		if len(os.Args) < 3 {
			usage()
			return
		}
		playScale(os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - List all MIDI ports")
	fmt.Println("  inspect <file> - Dump a recorded .mid file")
	fmt.Println("  scale <port>   - Play a C major scale through the live monitor")
}

func listPorts() {
	fmt.Println("(waiting up to 3 seconds...)")

	ports, err := midi.ScanPorts(midi.PortTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range ports.InNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range ports.OutNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func inspect(path string) {
	rec, err := midi.ReadFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("%s: %d track(s), %d ticks per quarter\n", path, rec.Tracks, rec.TicksPerQuarter)
	fmt.Printf("program %d, volume %d\n", rec.Program, rec.Volume)

	fmt.Println("\n=== Messages ===")
	for _, m := range rec.Messages {
		fmt.Printf("  +%-5d @%-7d %s\n", m.Delta, m.Tick, m.Text)
	}

	fmt.Printf("\n=== Notes (%d) ===\n", len(rec.Notes))
	for i, n := range rec.Notes {
		fmt.Printf("  %3d: %s\n", i, n)
	}
}

func playScale(port string) {
	mon, err := midi.OpenMonitor(port, midi.DefaultTrackSettings(), 120)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer mon.Close()

	fmt.Printf("Playing on %s...\n", port)
	for i, pitch := range []int{60, 62, 64, 65, 67, 69, 71, 72} {
		e := midi.NoteEvent{Pitch: pitch, Velocity: 90, Duration: 240, Start: i * 240}
		if err := mon.Note(e); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("  %s\n", e)
		time.Sleep(250 * time.Millisecond)
	}
	// let the last note-off fire
	time.Sleep(300 * time.Millisecond)
}
