// Package repl provides a plain line-oriented frontend built on readline.
// It is the fallback for terminals where the full-screen TUI is
// unwanted, and prints agent events synchronously as they arrive.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/tableagent/tableagent"
	"github.com/tableagent/tableagent/markdown"
	"github.com/tableagent/tableagent/render"
)

// AgentFunc handles one line of user input, reporting events through
// onEvent and quit=true when the session should end.
type AgentFunc func(ctx context.Context, session *tableagent.Session, input string, onEvent func(tableagent.Event)) (quit bool, err error)

// REPL reads user input line by line and prints agent events.
type REPL struct {
	run     AgentFunc
	session *tableagent.Session
	theme   tableagent.Theme
	format  string
	out     io.Writer
	errOut  io.Writer

	muted    lipgloss.Style
	sql      lipgloss.Style
	errStyle lipgloss.Style
	success  lipgloss.Style
	accent   lipgloss.Style
}

// Option configures a [REPL].
type Option func(*REPL)

// WithFormat sets the result output format (table, json, csv, markdown).
func WithFormat(format string) Option {
	return func(r *REPL) { r.format = format }
}

// WithOutput redirects output and error streams. Useful for testing.
func WithOutput(out, errOut io.Writer) Option {
	return func(r *REPL) {
		r.out = out
		r.errOut = errOut
	}
}

// New creates a REPL for the given agent function and session.
func New(run AgentFunc, session *tableagent.Session, theme tableagent.Theme, opts ...Option) *REPL {
	r := &REPL{
		run:     run,
		session: session,
		theme:   theme,
		format:  render.FormatTable,
		out:     os.Stdout,
		errOut:  os.Stderr,

		muted:    lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		sql:      lipgloss.NewStyle().Foreground(ansiColor(theme.SQL)),
		errStyle: lipgloss.NewStyle().Foreground(ansiColor(theme.Error)),
		success:  lipgloss.NewStyle().Foreground(ansiColor(theme.Success)),
		accent:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run reads input until the user quits or the context is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tableagent> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "/q",
	})
	if err != nil {
		return fmt.Errorf("repl: initialize readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		quit, err := r.dispatch(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		fmt.Fprintln(r.out)
	}
}

// dispatch runs the agent for one input line. Agent failures are printed
// rather than returned so the loop keeps accepting input.
func (r *REPL) dispatch(ctx context.Context, line string) (quit bool, err error) {
	quit, runErr := r.run(ctx, r.session, line, r.printEvent)
	if runErr != nil {
		fmt.Fprintln(r.errOut, r.errStyle.Render(fmt.Sprintf("Error: %v", runErr)))
		return false, nil
	}
	return quit, nil
}

// printEvent writes one agent event to the output stream.
func (r *REPL) printEvent(evt tableagent.Event) {
	switch e := evt.(type) {
	case tableagent.EventInfo:
		fmt.Fprintln(r.out, r.muted.Render(e.Text))
	case tableagent.EventTableLoaded:
		fmt.Fprintln(r.out, r.success.Render(fmt.Sprintf("Loaded table '%s' (%d columns) from %s",
			e.Table.Name, len(e.Table.Columns), e.Table.Path)))
	case tableagent.EventSQL:
		label := "sql"
		if e.Attempt > 1 {
			label = fmt.Sprintf("sql (attempt %d)", e.Attempt)
		}
		fmt.Fprintln(r.out, r.muted.Render(label))
		fmt.Fprintln(r.out, r.sql.Render(e.SQL))
	case tableagent.EventResult:
		if err := render.Result(r.out, e.Result, r.format); err != nil {
			fmt.Fprintln(r.errOut, r.errStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
	case tableagent.EventAnswer:
		fmt.Fprintln(r.out, markdown.Render(e.Text, 80, r.theme))
	case tableagent.EventClarification:
		fmt.Fprintln(r.out, r.accent.Render("? ")+e.Text)
	case tableagent.EventRetry:
		fmt.Fprintln(r.out, r.muted.Render(fmt.Sprintf("attempt %d failed: %s (refining query)", e.Attempt, e.Err)))
	case tableagent.EventGiveUp:
		fmt.Fprintln(r.out, r.errStyle.Render(fmt.Sprintf("Giving up after %d attempts.", e.Attempts)))
	}
}

// historyFile returns the readline history path, or "" when the home
// directory is unavailable (history is then kept in memory only).
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tableagent", "history")
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(fmt.Sprintf("%d", index))
}
