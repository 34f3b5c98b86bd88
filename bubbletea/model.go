package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tableagent/tableagent"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the tableagent TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	run     AgentFunc
	session *tableagent.Session
	theme   tableagent.Theme
	styles  Styles

	blocks []MessageBlock

	running bool
	cancel  context.CancelFunc
	eventCh chan tableagent.Event
	doneCh  chan AgentDoneMsg
	err     error
	ready   bool
}

// New creates a new TUI Model with the given agent function, session, and theme.
func New(run AgentFunc, session *tableagent.Session, theme tableagent.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question or type a /command..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:   ti,
		run:     run,
		session: session,
		theme:   theme,
		styles:  NewStyles(theme),
	}
	return m.renderSession()
}

// Running returns whether the agent is currently handling an input.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case AgentDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if msg.Quit {
			return m, tea.Quit
		}
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err.Error(), m.styles))
			m.Viewport.SetContent(m.renderContent())
			m.Viewport.GotoBottom()
		}
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight

	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)
	}

	// When idle, pass keys to both the input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to the viewport to
	// avoid conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan tableagent.Event, 64)
	m.doneCh = make(chan AgentDoneMsg, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startAgent(m.run, ctx, m.session, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// renderSession creates blocks from an existing session's history so a
// resumed conversation is visible on startup.
func (m Model) renderSession() Model {
	for _, msg := range m.session.Messages {
		switch msg := msg.(type) {
		case tableagent.SystemMessage:
			m.blocks = append(m.blocks, NewInfoBlock(msg.Content, m.styles))
		case tableagent.UserMessage:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case tableagent.AssistantMessage:
			m.blocks = append(m.blocks, NewAnswerBlock(msg.Content, m.theme))
		}
	}
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// processEvent maps an agent event to a conversation block.
func (m Model) processEvent(evt tableagent.Event) Model {
	switch e := evt.(type) {
	case tableagent.EventInfo:
		m.blocks = append(m.blocks, NewInfoBlock(e.Text, m.styles))
	case tableagent.EventTableLoaded:
		text := fmt.Sprintf("Loaded table '%s' (%d columns) from %s", e.Table.Name, len(e.Table.Columns), e.Table.Path)
		m.blocks = append(m.blocks, NewInfoBlock(text, m.styles))
	case tableagent.EventSQL:
		m.blocks = append(m.blocks, NewSQLBlock(e.SQL, e.Attempt, m.styles))
	case tableagent.EventResult:
		m.blocks = append(m.blocks, NewResultBlock(e.Result, m.styles))
	case tableagent.EventAnswer:
		m.blocks = append(m.blocks, NewAnswerBlock(e.Text, m.theme))
	case tableagent.EventClarification:
		m.blocks = append(m.blocks, NewClarificationBlock(e.Text, m.styles))
	case tableagent.EventRetry:
		text := fmt.Sprintf("attempt %d failed: %s (refining query)", e.Attempt, e.Err)
		m.blocks = append(m.blocks, NewInfoBlock(text, m.styles))
	case tableagent.EventGiveUp:
		text := fmt.Sprintf("Giving up after %d attempts.", e.Attempts)
		m.blocks = append(m.blocks, NewErrorBlock(text, m.styles))
	}
	return m
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		return m.styles.Muted.Render("Working...")
	}
	return m.styles.Muted.Render("Enter to send, /help for commands, Ctrl+C to quit")
}

// startAgent runs the agent in a goroutine and signals completion.
func startAgent(run AgentFunc, ctx context.Context, session *tableagent.Session, input string, eventCh chan<- tableagent.Event, doneCh chan<- AgentDoneMsg) tea.Cmd {
	return func() tea.Msg {
		quit, err := run(ctx, session, input, func(e tableagent.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- AgentDoneMsg{Quit: quit, Err: err}
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes, it reads the completion signal from doneCh.
func listenForEvent(ch <-chan tableagent.Event, doneCh <-chan AgentDoneMsg) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return EventMsg{Event: evt}
	}
}
