package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tableagent/tableagent"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ tableagent.Provider = (*Client)(nil)

// Client implements [tableagent.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Complete sends a request to the Gemini API and returns the model reply.
func (c *Client) Complete(ctx context.Context, req tableagent.Request) (tableagent.AssistantMessage, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, ConvertMessages(req.Messages), buildConfig(req))
	if err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("gemini: response contains no candidates")
	}

	cand := resp.Candidates[0]
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && !part.Thought {
			text.WriteString(part.Text)
		}
	}

	var usage tableagent.Usage
	if resp.UsageMetadata != nil {
		usage = tableagent.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return tableagent.AssistantMessage{
		Content:       text.String(),
		StopReason:    ConvertFinishReason(cand.FinishReason),
		RawStopReason: string(cand.FinishReason),
		Usage:         usage,
		Timestamp:     time.Now(),
	}, nil
}

func buildConfig(req tableagent.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}

	return config
}

// ConvertMessages converts domain Messages to genai Contents. The Gemini
// API has no mid-conversation system role, so system turns fold into user
// turns. Exported for testing.
func ConvertMessages(msgs []tableagent.Message) []*genai.Content {
	var result []*genai.Content
	appendTurn := func(role, text string) {
		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: text}},
		})
	}
	for _, msg := range msgs {
		switch m := msg.(type) {
		case tableagent.SystemMessage:
			appendTurn("user", m.Content)
		case tableagent.UserMessage:
			appendTurn("user", m.Content)
		case tableagent.AssistantMessage:
			appendTurn("model", m.Content)
		}
	}
	return result
}

// ConvertFinishReason maps a genai finish reason to a StopReason.
// Exported for testing.
func ConvertFinishReason(reason genai.FinishReason) tableagent.StopReason {
	switch reason {
	case genai.FinishReasonStop:
		return tableagent.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return tableagent.StopLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent, genai.FinishReasonSPII:
		return tableagent.StopError
	default:
		return tableagent.StopUnknown
	}
}
