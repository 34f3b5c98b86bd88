package tableagent

import "fmt"

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	for i, msg := range r.Messages {
		switch msg.(type) {
		case SystemMessage, UserMessage, AssistantMessage:
		default:
			return fmt.Errorf("unknown message type %T at index %d: %w", msg, i, ErrValidation)
		}
	}
	return nil
}
