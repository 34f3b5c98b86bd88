package agent_test

import (
	"testing"

	"github.com/tableagent/tableagent"
	"github.com/tableagent/tableagent/agent"
	"github.com/stretchr/testify/assert"
)

func TestGenerationPrompt(t *testing.T) {
	t.Parallel()
	got := agent.GenerationPrompt("Table: ds_salaries\nsalary: annual gross\n", 50)
	assert.Contains(t, got, "DuckDB SQL")
	assert.Contains(t, got, "Limit query response to 50 rows")
	assert.Contains(t, got, "[CLARIFICATION]")
	assert.Contains(t, got, "Table: ds_salaries")
}

func TestSummaryPrompt(t *testing.T) {
	t.Parallel()
	got := agent.SummaryPrompt("Table: movies\n")
	assert.Contains(t, got, "summarizes SQL query results")
	assert.Contains(t, got, "Table: movies")
}

func TestClarificationText(t *testing.T) {
	t.Parallel()

	t.Run("tagged reply", func(t *testing.T) {
		t.Parallel()
		text, ok := agent.ClarificationText("[CLARIFICATION] Which year do you mean?")
		assert.True(t, ok)
		assert.Equal(t, "Which year do you mean?", text)
	})

	t.Run("tagged reply with leading whitespace", func(t *testing.T) {
		t.Parallel()
		text, ok := agent.ClarificationText("\n [CLARIFICATION]Which column?")
		assert.True(t, ok)
		assert.Equal(t, "Which column?", text)
	})

	t.Run("plain SQL", func(t *testing.T) {
		t.Parallel()
		_, ok := agent.ClarificationText("SELECT 1")
		assert.False(t, ok)
	})
}

func TestExtractSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced", "```sql\nSELECT AVG(salary) FROM ds_salaries\n```", "SELECT AVG(salary) FROM ds_salaries"},
		{"bare fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"no fence", "  SELECT 1  ", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, agent.ExtractSQL(tt.in))
		})
	}
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	res := &tableagent.Result{
		Columns: []string{"job_title", "avg_salary"},
		Rows: [][]any{
			{"Data Scientist", 137570.39},
			{"ML Engineer", 126000.0},
		},
	}
	got := agent.FormatResult(res)
	assert.Equal(t, "(job_title, avg_salary): (Data Scientist, 137570.39); (ML Engineer, 126000)", got)

	empty := &tableagent.Result{Columns: []string{"n"}}
	assert.Equal(t, "(n): no rows", agent.FormatResult(empty))
}
