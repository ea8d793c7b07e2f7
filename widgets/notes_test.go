package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"go-marimba/midi"
)

func TestRenderMeterMarkerPosition(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "◆────"},
		{1, "────◆"},
		{0.5, "──◆──"},
		{-3, "◆────"},
		{7, "────◆"},
	}
	for _, tt := range tests {
		got := RenderMeter("index", tt.value, 5, '◆')
		if !strings.Contains(got, "["+tt.want+"]") {
			t.Errorf("RenderMeter(%v) = %q, want bar %q", tt.value, got, tt.want)
		}
	}
}

func TestRenderNoteStrip(t *testing.T) {
	if got := RenderNoteStrip(nil, '●', nil); got != "" {
		t.Errorf("empty strip: got %q", got)
	}

	notes := []midi.NoteEvent{
		{Pitch: 60, Velocity: 70, Duration: 240},
		{Pitch: 72, Velocity: 88, Duration: 960},
	}
	calls := 0
	color := func(int) lipgloss.Color { calls++; return lipgloss.Color("#ffffff") }

	got := RenderNoteStrip(notes, '●', color)
	if calls != 2 {
		t.Errorf("color called %d times, want 2", calls)
	}
	if strings.Count(got, "●") != 2 {
		t.Errorf("want two note symbols: %q", got)
	}
	if !strings.HasSuffix(got, "C5 vel 88 dur 960") {
		t.Errorf("strip should end with the newest note: %q", got)
	}
}

func TestRenderKeyHelp(t *testing.T) {
	got := RenderKeyHelp([]KeySection{{
		Title: "Recording",
		Keys:  []KeyBinding{{Key: "q", Desc: "stop and save"}},
	}})
	want := "Recording\n  q            stop and save"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
