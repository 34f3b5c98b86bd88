package gemini_test

import (
	"testing"

	"github.com/tableagent/tableagent"
	"github.com/tableagent/tableagent/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertMessages_UserMessage(t *testing.T) {
	t.Parallel()
	msgs := []tableagent.Message{
		tableagent.UserMessage{Content: "what is the average salary?"},
	}
	got := gemini.ConvertMessages(msgs)
	require.Len(t, got, 1)
	assert.Equal(t, "user", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "what is the average salary?", got[0].Parts[0].Text)
}

func TestConvertMessages_AssistantMessage(t *testing.T) {
	t.Parallel()
	msgs := []tableagent.Message{
		tableagent.AssistantMessage{Content: "SELECT AVG(salary) FROM ds_salaries"},
	}
	got := gemini.ConvertMessages(msgs)
	require.Len(t, got, 1)
	assert.Equal(t, "model", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "SELECT AVG(salary) FROM ds_salaries", got[0].Parts[0].Text)
}

func TestConvertMessages_SystemFoldsIntoUser(t *testing.T) {
	t.Parallel()
	msgs := []tableagent.Message{
		tableagent.SystemMessage{Content: "Table 'ds_salaries' loaded"},
		tableagent.UserMessage{Content: "average salary?"},
	}
	got := gemini.ConvertMessages(msgs)
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "Table 'ds_salaries' loaded", got[0].Parts[0].Text)
	assert.Equal(t, "user", got[1].Role)
}

func TestConvertFinishReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   genai.FinishReason
		want tableagent.StopReason
	}{
		{genai.FinishReasonStop, tableagent.StopEndTurn},
		{genai.FinishReasonMaxTokens, tableagent.StopLength},
		{genai.FinishReasonSafety, tableagent.StopError},
		{genai.FinishReasonUnspecified, tableagent.StopUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gemini.ConvertFinishReason(tt.in), "reason %q", tt.in)
	}
}
