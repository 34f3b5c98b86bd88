package tableagent

// Event is a sealed interface representing an agent progress notification.
// Events are purely semantic; infrastructure errors come from the agent's
// error return, not from events. The unexported marker method prevents
// external implementations.
type Event interface {
	event()
}

// EventInfo carries a system notice (welcome text, help, load reminders).
type EventInfo struct {
	Text string
}

func (EventInfo) event() {}

// EventTableLoaded signals that a table was loaded into the store.
type EventTableLoaded struct {
	Table Table
}

func (EventTableLoaded) event() {}

// EventSQL carries a generated SQL query about to be executed.
// Attempt is 1 for the first generation, incrementing per refinement.
type EventSQL struct {
	SQL     string
	Attempt int
}

func (EventSQL) event() {}

// EventResult carries the rows returned by a successful execution.
type EventResult struct {
	Result *Result
}

func (EventResult) event() {}

// EventAnswer carries the assistant's natural-language summary of a result.
type EventAnswer struct {
	Text string
}

func (EventAnswer) event() {}

// EventClarification signals that the question was ambiguous and the
// assistant is asking for more detail before generating SQL.
type EventClarification struct {
	Text string
}

func (EventClarification) event() {}

// EventRetry signals a failed execution that will be refined and retried.
type EventRetry struct {
	Attempt int
	Err     string
}

func (EventRetry) event() {}

// EventGiveUp signals that the refinement loop exhausted its retry budget.
type EventGiveUp struct {
	Attempts int
}

func (EventGiveUp) event() {}

// Interface compliance checks.
var (
	_ Event = EventInfo{}
	_ Event = EventTableLoaded{}
	_ Event = EventSQL{}
	_ Event = EventResult{}
	_ Event = EventAnswer{}
	_ Event = EventClarification{}
	_ Event = EventRetry{}
	_ Event = EventGiveUp{}
)
