package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tableagent/tableagent"
)

// Interface compliance check.
var _ tableagent.Provider = (*Client)(nil)

// Client implements [tableagent.Provider] for the Anthropic Messages API.
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

// New creates a new Anthropic [Client] with the given API key and options.
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

// Complete sends a request to the Anthropic Messages API and returns the
// assistant reply.
func (c *Client) Complete(ctx context.Context, req tableagent.Request) (tableagent.AssistantMessage, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tableagent.AssistantMessage{}, parseHTTPError(resp)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return tableagent.AssistantMessage{}, fmt.Errorf("anthropic: decode response: %w", err)
	}

	var text strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return tableagent.AssistantMessage{
		Content:       text.String(),
		StopReason:    convertStopReason(apiResp.StopReason),
		RawStopReason: apiResp.StopReason,
		Usage: tableagent.Usage{
			InputTokens:  apiResp.Usage.InputTokens,
			OutputTokens: apiResp.Usage.OutputTokens,
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

	return json.Marshal(apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
	})
}

// convertMessages maps the history to the Messages API format. The API
// requires strictly alternating user/assistant turns, so mid-conversation
// system messages are folded into user turns and consecutive same-role
// messages are merged.
func convertMessages(msgs []tableagent.Message) []apiMessage {
	var result []apiMessage
	appendTurn := func(role, content string) {
		if n := len(result); n > 0 && result[n-1].Role == role {
			result[n-1].Content += "\n\n" + content
			return
		}
		result = append(result, apiMessage{Role: role, Content: content})
	}
	for _, msg := range msgs {
		switch m := msg.(type) {
		case tableagent.SystemMessage:
			appendTurn("user", m.Content)
		case tableagent.UserMessage:
			appendTurn("user", m.Content)
		case tableagent.AssistantMessage:
			appendTurn("assistant", m.Content)
		}
	}
	return result
}

func convertStopReason(reason string) tableagent.StopReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return tableagent.StopEndTurn
	case "max_tokens":
		return tableagent.StopLength
	case "refusal":
		return tableagent.StopError
	default:
		return tableagent.StopUnknown
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("anthropic: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
