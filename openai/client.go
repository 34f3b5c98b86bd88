package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tableagent/tableagent"
)

// Interface compliance check.
var _ tableagent.Provider = (*Client)(nil)

// Client implements [tableagent.Provider] for the OpenAI Chat Completions API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new OpenAI [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends a request to the Chat Completions API and returns the
// assistant reply.
func (c *Client) Complete(ctx context.Context, req tableagent.Request) (tableagent.AssistantMessage, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("openai: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("openai: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tableagent.AssistantMessage{}, parseHTTPError(resp)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return tableagent.AssistantMessage{}, fmt.Errorf("openai: response contains no choices")
	}

	choice := apiResp.Choices[0]
	return tableagent.AssistantMessage{
		Content:       choice.Message.Content,
		StopReason:    convertFinishReason(choice.FinishReason),
		RawStopReason: choice.FinishReason,
		Usage: tableagent.Usage{
			InputTokens:  apiResp.Usage.PromptTokens,
			OutputTokens: apiResp.Usage.CompletionTokens,
		},
		Timestamp: time.Now(),
	}, nil
}

func (c *Client) buildRequestBody(req tableagent.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	msgs := make([]apiMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, apiMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, msg := range req.Messages {
		switch m := msg.(type) {
		case tableagent.SystemMessage:
			msgs = append(msgs, apiMessage{Role: "system", Content: m.Content})
		case tableagent.UserMessage:
			msgs = append(msgs, apiMessage{Role: "user", Content: m.Content})
		case tableagent.AssistantMessage:
			msgs = append(msgs, apiMessage{Role: "assistant", Content: m.Content})
		}
	}

	return json.Marshal(apiRequest{
		Model:       model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
}

func convertFinishReason(reason string) tableagent.StopReason {
	switch reason {
	case "stop":
		return tableagent.StopEndTurn
	case "length":
		return tableagent.StopLength
	case "content_filter":
		return tableagent.StopError
	default:
		return tableagent.StopUnknown
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("openai: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("openai: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
