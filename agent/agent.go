// Package agent implements the control-flow graph that drives one user
// input through data loading, SQL generation, execution, and result
// summarization. The graph has five nodes: input handling, data loading,
// query building, query execution, and post-execution routing. Execution
// failures loop back to query building with the error in context, up to a
// bounded number of refinements; ambiguous questions loop back to the
// user with a clarification request.
package agent

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tableagent/tableagent"
)

// state identifies a node in the control graph.
type state int

const (
	stateAwaitingInput state = iota
	stateLoadingData
	stateBuildingQuery
	stateExecutingQuery
	statePostExecution
	stateDone
)

// DefaultMaxRetries bounds the SQL refinement loop per question.
const DefaultMaxRetries = 3

// DefaultRowLimit is the row cap the generation prompt asks for.
const DefaultRowLimit = 50

// Agent coordinates a Provider and a Store to answer natural-language
// questions about loaded tables.
type Agent struct {
	provider   tableagent.Provider
	store      tableagent.Store
	model      string
	maxTokens  int
	maxRetries int
	rowLimit   int

	last *tableagent.Attempt // most recent query attempt, for /sql
}

// Option configures an [Agent].
type Option func(*Agent)

// WithModel sets the model ID for provider requests.
// Empty string means the provider uses its default model.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithMaxTokens sets the generation token cap. 0 = provider default.
func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// WithMaxRetries sets how many times a failed query is regenerated
// before giving up.
func WithMaxRetries(n int) Option {
	return func(a *Agent) { a.maxRetries = n }
}

// WithRowLimit sets the row cap requested in the generation prompt.
func WithRowLimit(n int) Option {
	return func(a *Agent) { a.rowLimit = n }
}

// New creates an Agent with the given provider and store.
func New(provider tableagent.Provider, store tableagent.Store, opts ...Option) *Agent {
	a := &Agent{
		provider:   provider,
		store:      store,
		maxRetries: DefaultMaxRetries,
		rowLimit:   DefaultRowLimit,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// HandleOption configures a single Handle invocation.
type HandleOption func(*handleConfig)

type handleConfig struct {
	onEvent func(tableagent.Event)
}

// WithEventHandler sets a callback that receives each progress event
// during the turn. If nil or not set, events are silently discarded.
func WithEventHandler(h func(tableagent.Event)) HandleOption {
	return func(c *handleConfig) { c.onEvent = h }
}

// turn carries the mutable state of one Handle invocation across graph nodes.
type turn struct {
	cfg     handleConfig
	load    tableagent.LoadCommand
	attempt *tableagent.Attempt
}

func (t *turn) emit(evt tableagent.Event) {
	if t.cfg.onEvent != nil {
		t.cfg.onEvent(evt)
	}
}

// LastSQL returns the SQL generated for the most recent question, or ""
// if no query has been generated yet.
func (a *Agent) LastSQL() string {
	if a.last == nil {
		return ""
	}
	return a.last.SQL
}

// Handle processes one line of user input: it parses the input, steps the
// control graph until control returns to the user, and reports quit=true
// when the input ends the session. Conversational failures (bad command
// arguments, exhausted retries, ambiguous questions) surface as events
// and a nil error; the returned error is reserved for infrastructure
// failures the frontend should display.
func (a *Agent) Handle(ctx context.Context, session *tableagent.Session, input string, opts ...HandleOption) (quit bool, err error) {
	t := &turn{}
	for _, o := range opts {
		o(&t.cfg)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}

	cmd, err := tableagent.ParseCommand(input)
	if err != nil {
		// Conversational repair: report the problem and re-prompt.
		t.emit(tableagent.EventInfo{Text: err.Error() + "\nType /help for the command reference."})
		return false, nil
	}

	st := stateAwaitingInput
	switch c := cmd.(type) {
	case tableagent.QuitCommand:
		return true, nil
	case tableagent.HelpCommand:
		t.emit(tableagent.EventInfo{Text: HelpText})
		return false, nil
	case tableagent.TablesCommand:
		return false, a.listTables(ctx, t)
	case tableagent.SchemaCommand:
		return false, a.showSchema(ctx, t, c.Table)
	case tableagent.ShowSQLCommand:
		if sql := a.LastSQL(); sql != "" {
			t.emit(tableagent.EventSQL{SQL: sql, Attempt: a.last.Retries + 1})
		} else {
			t.emit(tableagent.EventInfo{Text: "No SQL has been generated yet. Ask a question first."})
		}
		return false, nil
	case tableagent.LoadCommand:
		t.load = c
		st = stateLoadingData
	case tableagent.Question:
		if !session.HasTables() {
			msg := "Please load your data first using the command /load <file_path> <table_columns_description>."
			session.Append(tableagent.SystemMessage{Content: msg, Timestamp: time.Now()})
			t.emit(tableagent.EventInfo{Text: msg})
			return false, nil
		}
		session.Append(tableagent.UserMessage{Content: c.Text, Timestamp: time.Now()})
		t.attempt = &tableagent.Attempt{Question: c.Text}
		a.last = t.attempt
		st = stateBuildingQuery
	}

	for st != stateDone {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		st, err = a.step(ctx, session, t, st)
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

// step executes one graph node and routes to the next.
func (a *Agent) step(ctx context.Context, session *tableagent.Session, t *turn, st state) (state, error) {
	switch st {
	case stateLoadingData:
		return a.loadData(ctx, session, t)
	case stateBuildingQuery:
		return a.buildQuery(ctx, session, t)
	case stateExecutingQuery:
		return a.executeQuery(ctx, session, t)
	case statePostExecution:
		return a.postExecution(ctx, session, t)
	default:
		return stateDone, fmt.Errorf("agent: unexpected state %d", st)
	}
}

// loadData reads the schema description file, materializes the CSV
// file(s) as tables, and records the metadata in the session.
func (a *Agent) loadData(ctx context.Context, session *tableagent.Session, t *turn) (state, error) {
	desc, err := os.ReadFile(t.load.SchemaPath)
	if err != nil {
		return stateDone, fmt.Errorf("agent: read schema description: %w", err)
	}

	tables, err := a.store.Load(ctx, tableagent.LoadRequest{
		DataPath:    t.load.DataPath,
		Description: strings.TrimSpace(string(desc)),
	})
	if err != nil {
		return stateDone, fmt.Errorf("agent: load data: %w", err)
	}

	for _, tbl := range tables {
		session.Tables = upsertTable(session.Tables, tbl)
		session.Append(tableagent.SystemMessage{
			Content:   fmt.Sprintf("Table '%s' loaded with metadata:\n%s", tbl.Name, tbl.Schema()),
			Timestamp: time.Now(),
		})
		t.emit(tableagent.EventTableLoaded{Table: tbl})
	}
	return stateDone, nil
}

// buildQuery asks the provider for a SQL query (or a clarification
// request) given the conversation so far.
func (a *Agent) buildQuery(ctx context.Context, session *tableagent.Session, t *turn) (state, error) {
	req := tableagent.Request{
		Model:        a.model,
		SystemPrompt: generationPrompt(session.Schemas(), a.rowLimit),
		Messages:     session.Messages,
		MaxTokens:    a.maxTokens,
	}
	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return stateDone, fmt.Errorf("agent: build query: %w", err)
	}

	if text, ok := clarificationText(resp.Content); ok {
		msg := "Your question is ambiguous. Please provide additional details: " + text
		session.Append(tableagent.AssistantMessage{
			Content:    msg,
			StopReason: resp.StopReason,
			Usage:      resp.Usage,
			Timestamp:  time.Now(),
		})
		t.emit(tableagent.EventClarification{Text: msg})
		return stateDone, nil
	}

	sql := extractSQL(resp.Content)
	session.Append(tableagent.AssistantMessage{
		Content:    sql,
		StopReason: resp.StopReason,
		Usage:      resp.Usage,
		Timestamp:  time.Now(),
	})
	t.attempt.SQL = sql
	t.emit(tableagent.EventSQL{SQL: sql, Attempt: t.attempt.Retries + 1})
	return stateExecutingQuery, nil
}

// executeQuery runs the generated SQL. Failures route back to query
// building with the error in context until the retry budget is spent.
func (a *Agent) executeQuery(ctx context.Context, session *tableagent.Session, t *turn) (state, error) {
	res, err := a.store.Query(ctx, t.attempt.SQL)
	if err == nil {
		t.attempt.Result = res
		t.attempt.Err = ""
		return statePostExecution, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stateDone, ctxErr
	}

	t.attempt.Err = err.Error()
	t.attempt.Retries++
	if t.attempt.Retries > a.maxRetries {
		msg := fmt.Sprintf("Unfortunately, I was unable to execute your request after %d attempts.", a.maxRetries)
		session.Append(tableagent.AssistantMessage{Content: msg, Timestamp: time.Now()})
		t.emit(tableagent.EventGiveUp{Attempts: t.attempt.Retries})
		return stateDone, nil
	}

	session.Append(tableagent.AssistantMessage{
		Content:   fmt.Sprintf("The generated SQL query raised this error:\n%s", t.attempt.Err),
		Timestamp: time.Now(),
	})
	t.emit(tableagent.EventRetry{Attempt: t.attempt.Retries, Err: t.attempt.Err})
	return stateBuildingQuery, nil
}

// postExecution reports the rows and asks the provider for a
// human-friendly summary of them.
func (a *Agent) postExecution(ctx context.Context, session *tableagent.Session, t *turn) (state, error) {
	res := t.attempt.Result
	t.emit(tableagent.EventResult{Result: res})

	resultText := fmt.Sprintf("SQL results are: %s", formatResult(res))
	session.Append(tableagent.AssistantMessage{Content: resultText, Timestamp: time.Now()})

	req := tableagent.Request{
		Model:        a.model,
		SystemPrompt: summaryPrompt(session.Schemas()),
		Messages: []tableagent.Message{
			tableagent.UserMessage{Content: t.attempt.Question, Timestamp: time.Now()},
			tableagent.AssistantMessage{Content: "Generated SQL Text is: " + t.attempt.SQL, Timestamp: time.Now()},
			tableagent.AssistantMessage{Content: resultText, Timestamp: time.Now()},
		},
		MaxTokens: a.maxTokens,
	}
	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return stateDone, fmt.Errorf("agent: summarize results: %w", err)
	}

	t.attempt.Answer = resp.Content
	session.Append(tableagent.AssistantMessage{
		Content:    resp.Content,
		StopReason: resp.StopReason,
		Usage:      resp.Usage,
		Timestamp:  time.Now(),
	})
	t.emit(tableagent.EventAnswer{Text: resp.Content})
	return stateDone, nil
}

func (a *Agent) listTables(ctx context.Context, t *turn) error {
	names, err := a.store.Tables(ctx)
	if err != nil {
		return fmt.Errorf("agent: list tables: %w", err)
	}
	if len(names) == 0 {
		t.emit(tableagent.EventInfo{Text: "No tables loaded. Use /load <file_path> <table_columns_description>."})
		return nil
	}
	t.emit(tableagent.EventInfo{Text: "Tables: " + strings.Join(names, ", ")})
	return nil
}

func (a *Agent) showSchema(ctx context.Context, t *turn, table string) error {
	cols, err := a.store.Describe(ctx, table)
	if err != nil {
		t.emit(tableagent.EventInfo{Text: err.Error()})
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", table)
	for _, c := range cols {
		fmt.Fprintf(&b, "  %-24s %s\n", c.Name, c.Type)
	}
	t.emit(tableagent.EventInfo{Text: strings.TrimRight(b.String(), "\n")})
	return nil
}

// upsertTable replaces an existing table entry with the same name, or
// appends. Reloading a CSV must not duplicate its schema context.
func upsertTable(tables []tableagent.Table, tbl tableagent.Table) []tableagent.Table {
	for i, existing := range tables {
		if existing.Name == tbl.Name {
			tables[i] = tbl
			return tables
		}
	}
	return append(tables, tbl)
}
