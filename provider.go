package tableagent

import "context"

// Provider is a strategy pattern interface for LLM providers.
// Complete sends the full conversation and blocks until the assistant's
// reply is available. Cancellation flows through ctx.
type Provider interface {
	Complete(ctx context.Context, req Request) (AssistantMessage, error)
}

// Request carries model selection and generation parameters.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	Messages     []Message
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
}
