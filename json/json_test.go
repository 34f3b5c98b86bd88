package json_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tableagent/tableagent"
	tajson "github.com/tableagent/tableagent/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSession_RoundTrip(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 8, 20, 12, 5, 0, 0, time.UTC)
	ts1 := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	ts2 := time.Date(2026, 8, 20, 12, 0, 1, 0, time.UTC)
	ts3 := time.Date(2026, 8, 20, 12, 0, 2, 0, time.UTC)

	session := tableagent.Session{
		ID:        "sess-123",
		CreatedAt: created,
		UpdatedAt: updated,
		Tables: []tableagent.Table{{
			Name:        "ds_salaries",
			Path:        "sample_data/ds_salaries.csv",
			Description: "salary: gross annual salary",
			Columns: []tableagent.Column{
				{Name: "job_title", Type: "VARCHAR"},
				{Name: "salary", Type: "BIGINT"},
			},
		}},
		Messages: []tableagent.Message{
			tableagent.SystemMessage{Content: "Table 'ds_salaries' loaded", Timestamp: ts1},
			tableagent.UserMessage{Content: "what is the average salary?", Timestamp: ts2},
			tableagent.AssistantMessage{
				Content:       "SELECT AVG(salary) FROM ds_salaries",
				StopReason:    tableagent.StopEndTurn,
				RawStopReason: "stop",
				Usage:         tableagent.Usage{InputTokens: 150, OutputTokens: 42},
				Timestamp:     ts3,
			},
		},
	}

	data, err := tajson.MarshalSession(session)
	require.NoError(t, err)

	got, err := tajson.UnmarshalSession(data)
	require.NoError(t, err)

	assert.Equal(t, session.ID, got.ID)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt), "CreatedAt mismatch")
	assert.True(t, session.UpdatedAt.Equal(got.UpdatedAt), "UpdatedAt mismatch")

	require.Len(t, got.Tables, 1)
	assert.Equal(t, "ds_salaries", got.Tables[0].Name)
	assert.Equal(t, "salary: gross annual salary", got.Tables[0].Description)
	require.Len(t, got.Tables[0].Columns, 2)
	assert.Equal(t, tableagent.Column{Name: "salary", Type: "BIGINT"}, got.Tables[0].Columns[1])

	require.Len(t, got.Messages, 3)

	sm, ok := got.Messages[0].(tableagent.SystemMessage)
	require.True(t, ok, "expected SystemMessage")
	assert.Equal(t, "Table 'ds_salaries' loaded", sm.Content)
	assert.True(t, ts1.Equal(sm.Timestamp))

	um, ok := got.Messages[1].(tableagent.UserMessage)
	require.True(t, ok, "expected UserMessage")
	assert.Equal(t, "what is the average salary?", um.Content)

	am, ok := got.Messages[2].(tableagent.AssistantMessage)
	require.True(t, ok, "expected AssistantMessage")
	assert.Equal(t, "SELECT AVG(salary) FROM ds_salaries", am.Content)
	assert.Equal(t, tableagent.StopEndTurn, am.StopReason)
	assert.Equal(t, "stop", am.RawStopReason)
	assert.Equal(t, 150, am.Usage.InputTokens)
	assert.Equal(t, 42, am.Usage.OutputTokens)
	assert.True(t, ts3.Equal(am.Timestamp))
}

func TestMarshalSession_V1Envelope(t *testing.T) {
	t.Parallel()
	session := tableagent.Session{
		ID:        "test-id",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 8, 20, 12, 5, 0, 0, time.UTC),
	}

	data, err := tajson.MarshalSession(session)
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))

	var version int
	require.NoError(t, json.Unmarshal(envelope["version"], &version))
	assert.Equal(t, 1, version)

	var id string
	require.NoError(t, json.Unmarshal(envelope["id"], &id))
	assert.Equal(t, "test-id", id)

	assert.Contains(t, envelope, "created_at")
	assert.Contains(t, envelope, "updated_at")
	assert.Contains(t, envelope, "messages")
}

func TestMarshalSession_JSONFieldNames(t *testing.T) {
	t.Parallel()
	session := tableagent.Session{
		ID:        "field-names",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 8, 20, 12, 5, 0, 0, time.UTC),
		Messages: []tableagent.Message{
			tableagent.AssistantMessage{
				Content:       "hi",
				StopReason:    tableagent.StopEndTurn,
				RawStopReason: "end_turn",
				Usage:         tableagent.Usage{InputTokens: 10, OutputTokens: 5},
				Timestamp:     time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	data, err := tajson.MarshalSession(session)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	var msgs []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["messages"], &msgs))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "role")
	assert.Contains(t, msgs[0], "content")
	assert.Contains(t, msgs[0], "stop_reason")
	assert.Contains(t, msgs[0], "raw_stop_reason")
	assert.Contains(t, msgs[0], "usage")
	assert.Contains(t, msgs[0], "timestamp")

	var usage map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msgs[0]["usage"], &usage))
	assert.Contains(t, usage, "input_tokens")
	assert.Contains(t, usage, "output_tokens")
}

func TestMarshalSession_EmptySession(t *testing.T) {
	t.Parallel()
	session := tableagent.Session{
		ID:        "empty",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}

	data, err := tajson.MarshalSession(session)
	require.NoError(t, err)

	got, err := tajson.UnmarshalSession(data)
	require.NoError(t, err)

	assert.Equal(t, "empty", got.ID)
	assert.Empty(t, got.Messages)
	assert.Empty(t, got.Tables)
}

func TestSave_And_Load(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	session := tableagent.Session{
		ID:        "save-load",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 8, 20, 12, 5, 0, 0, time.UTC),
		Messages: []tableagent.Message{
			tableagent.UserMessage{Content: "hello", Timestamp: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)},
		},
	}

	err := tajson.Save(path, session)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := tajson.Load(path)
	require.NoError(t, err)

	assert.Equal(t, session.ID, got.ID)
	require.Len(t, got.Messages, 1)
}

func TestSave_CreatesParentDirectories(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "session.json")

	session := tableagent.Session{
		ID:        "nested-save",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}

	err := tajson.Save(path, session)
	require.NoError(t, err)

	got, err := tajson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nested-save", got.ID)
}

func TestLoad_NonexistentFile(t *testing.T) {
	t.Parallel()
	_, err := tajson.Load("/nonexistent/path/session.json")
	assert.Error(t, err)
}

func TestUnmarshalSession_UnknownRole(t *testing.T) {
	t.Parallel()
	data := []byte(`{
		"version": 1,
		"id": "test",
		"created_at": "2026-08-20T12:00:00Z",
		"updated_at": "2026-08-20T12:00:00Z",
		"messages": [
			{"role": "tool", "content": "x", "timestamp": "2026-08-20T12:00:00Z"}
		]
	}`)
	_, err := tajson.UnmarshalSession(data)
	assert.Error(t, err)
}

func TestUnmarshalSession_UnsupportedVersion(t *testing.T) {
	t.Parallel()
	data := []byte(`{
		"version": 99,
		"id": "test",
		"created_at": "2026-08-20T12:00:00Z",
		"updated_at": "2026-08-20T12:00:00Z",
		"messages": []
	}`)
	_, err := tajson.UnmarshalSession(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported envelope version")
}
