package tableagent

import "time"

// Message is a sealed interface representing a conversation message.
// The unexported marker method prevents external implementations.
// Role() returns the message's role without requiring a type switch.
type Message interface {
	isMessage()
	Role() Role
}

// SystemMessage represents a system notice recorded in the conversation
// (welcome text, load confirmations, retry notices).
type SystemMessage struct {
	Content   string
	Timestamp time.Time
}

func (SystemMessage) isMessage() {}

// Role returns RoleSystem.
func (SystemMessage) Role() Role { return RoleSystem }

// UserMessage represents a message from the user.
type UserMessage struct {
	Content   string
	Timestamp time.Time
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// AssistantMessage represents a message from the assistant.
type AssistantMessage struct {
	Content       string
	StopReason    StopReason
	RawStopReason string
	Usage         Usage
	Timestamp     time.Time
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Interface compliance checks.
var (
	_ Message = SystemMessage{}
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
)
