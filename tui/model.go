package tui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-marimba/gesture"
	"go-marimba/sequencer"
	"go-marimba/theme"
	"go-marimba/widgets"
)

const meterWidth = 24

var keyHelp = []widgets.KeySection{{
	Keys: []widgets.KeyBinding{
		{Key: "q / esc", Desc: "stop and save"},
		{Key: "ctrl+c", Desc: "same, twice to leave without waiting"},
	},
}}

// StopFlag is set from the key handler and polled by the session
type StopFlag struct {
	set atomic.Bool
}

func (f *StopFlag) Stop()         { f.set.Store(true) }
func (f *StopFlag) Stopped() bool { return f.set.Load() }

// FrameMsg carries one processed tick from the session
type FrameMsg struct {
	Frame    gesture.Frame
	Progress sequencer.Progress
}

// DoneMsg is sent once the session has finished with the display
type DoneMsg struct{}

type Model struct {
	Theme    *theme.Theme
	stop     *StopFlag
	bar      progress.Model
	frame    gesture.Frame
	prog     sequencer.Progress
	stopping bool
	quitting bool
}

func NewModel(th *theme.Theme, stop *StopFlag, maxNotes int) Model {
	bar := progress.New(
		progress.WithGradient(string(th.Color(0)), string(th.Color(1))),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	return Model{
		Theme: th,
		stop:  stop,
		bar:   bar,
		prog:  sequencer.Progress{MaxNotes: maxNotes},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			// second press leaves without waiting for the save
			if m.stopping {
				m.quitting = true
				return m, tea.Quit
			}
			m.stopping = true
			m.stop.Stop()
		}

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-20))

	case FrameMsg:
		m.frame = msg.Frame
		m.prog = msg.Progress

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// Stopping reports whether a stop was requested from the keyboard
func (m Model) Stopping() bool {
	return m.stopping
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	state := m.prog.State.String()
	if m.stopping {
		state = "stopping"
	}
	header := headerStyle.Render(fmt.Sprintf("go-marimba  %s  frame:%04d  cursor:%d", state, m.frame.Seq, m.prog.TimeCursor))

	budget := fmt.Sprintf("%s %3d/%d notes", m.bar.ViewAs(m.prog.Fraction()), m.prog.Notes, m.prog.MaxNotes)

	var hands []string
	if m.frame.Empty() {
		hands = append(hands, dimStyle.Render(string(m.Theme.Symbols.NoHand)+" no hand"))
	}
	for i, h := range m.frame.Hands {
		label := h.Label
		if label == "" {
			label = fmt.Sprintf("hand %d", i+1)
		}
		hands = append(hands,
			string(m.Theme.Symbols.Hand)+" "+label,
			"  "+widgets.RenderMeter("index", h.Index.Y, meterWidth, m.Theme.Symbols.Fingertip),
			"  "+widgets.RenderMeter("middle", h.Middle.Y, meterWidth, m.Theme.Symbols.Fingertip),
		)
	}

	strip := widgets.RenderNoteStrip(m.prog.Recent, m.Theme.Symbols.Note, m.Theme.Pitch)
	if strip == "" {
		strip = dimStyle.Render("waiting for notes")
	}

	help := dimStyle.Render(widgets.RenderKeyHelp(keyHelp))
	if m.stopping {
		help = warnStyle.Render("saving... q again to leave now")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(budget)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(hands, "\n"))
	b.WriteString("\n\n")
	b.WriteString(strip)
	b.WriteString("\n\n")
	b.WriteString(help)
	b.WriteString("\n")
	return b.String()
}
