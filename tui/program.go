package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"go-marimba/gesture"
	"go-marimba/sequencer"
)

// Program drives the model from the session goroutine. Sends block until
// the event loop is running and return immediately once it has exited.
type Program struct {
	p *tea.Program
}

func NewProgram(m Model, opts ...tea.ProgramOption) *Program {
	return &Program{p: tea.NewProgram(m, opts...)}
}

func (p *Program) Show(frame gesture.Frame, prog sequencer.Progress) {
	p.p.Send(FrameMsg{Frame: frame, Progress: prog})
}

func (p *Program) Close() error {
	p.p.Send(DoneMsg{})
	return nil
}

// Run blocks until the model quits
func (p *Program) Run() error {
	_, err := p.p.Run()
	return err
}
