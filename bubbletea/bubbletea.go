// Package bubbletea provides a Bubble Tea TUI for the tableagent frontend.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tableagent/tableagent"
)

// AgentFunc handles one line of user input. The onEvent callback is
// called for each progress event. It blocks until control returns to the
// user and reports quit=true when the input ends the session.
type AgentFunc func(ctx context.Context, session *tableagent.Session, input string, onEvent func(tableagent.Event)) (quit bool, err error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown: when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// EventMsg wraps an agent event for delivery to the Bubble Tea model.
type EventMsg struct {
	Event tableagent.Event
}

// AgentDoneMsg signals that the agent has finished handling an input.
type AgentDoneMsg struct {
	Quit bool
	Err  error
}
