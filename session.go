package tableagent

import (
	"strings"
	"time"
)

// Session represents a conversation session: the message history, the
// tables loaded so far, and bookkeeping timestamps. It is mutated by
// /load commands and question turns and lives for the process lifetime.
type Session struct {
	ID        string
	Messages  []Message
	Tables    []Table
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTables reports whether any data has been loaded.
func (s *Session) HasTables() bool { return len(s.Tables) > 0 }

// Schemas renders the schema context for every loaded table, in load order.
// This is the "Table schemas:" block of the generation prompt.
func (s *Session) Schemas() string {
	var b strings.Builder
	for _, t := range s.Tables {
		b.WriteString(t.Schema())
		b.WriteString("\n")
	}
	return b.String()
}

// Append adds a message to the conversation history and bumps UpdatedAt.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}
