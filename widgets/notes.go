package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-marimba/midi"
)

// RenderSwatch renders a single colored symbol
func RenderSwatch(color lipgloss.Color, symbol rune) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(symbol))
}

// RenderNoteStrip renders recent notes oldest-first, one colored symbol
// per note, with the newest note's name at the end
func RenderNoteStrip(notes []midi.NoteEvent, symbol rune, color func(pitch int) lipgloss.Color) string {
	if len(notes) == 0 {
		return ""
	}
	var out strings.Builder
	for i, n := range notes {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderSwatch(color(n.Pitch), symbol))
	}
	last := notes[len(notes)-1]
	out.WriteString(fmt.Sprintf("  %s vel %d dur %d", midi.NoteName(last.Pitch), last.Velocity, last.Duration))
	return out.String()
}

// RenderMeter draws a horizontal gauge for a normalized value, marker at
// its position. Values outside 0-1 pin to the ends.
func RenderMeter(label string, value float64, width int, marker rune) string {
	if width < 2 {
		width = 2
	}
	pos := int(value * float64(width-1))
	pos = max(0, min(width-1, pos))

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i == pos {
			bar.WriteRune(marker)
		} else {
			bar.WriteString("─")
		}
	}
	return fmt.Sprintf("%-7s [%s] %.2f", label, bar.String(), value)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
