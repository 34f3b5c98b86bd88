package tableagent_test

import (
	"testing"

	"github.com/tableagent/tableagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  tableagent.Command
	}{
		{"quit short", "/q", tableagent.QuitCommand{}},
		{"quit long", "/quit", tableagent.QuitCommand{}},
		{"quit mixed case", "/Q", tableagent.QuitCommand{}},
		{"load", "/load sample_data/ds_salaries.csv sample_data/ds_salaries_schema.txt",
			tableagent.LoadCommand{DataPath: "sample_data/ds_salaries.csv", SchemaPath: "sample_data/ds_salaries_schema.txt"}},
		{"help", "/help", tableagent.HelpCommand{}},
		{"tables", "/tables", tableagent.TablesCommand{}},
		{"schema", "/schema ds_salaries", tableagent.SchemaCommand{Table: "ds_salaries"}},
		{"sql", "/sql", tableagent.ShowSQLCommand{}},
		{"question", "what is the average salary?", tableagent.Question{Text: "what is the average salary?"}},
		{"question with leading space", "  top 5 job titles ", tableagent.Question{Text: "top 5 job titles"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tableagent.ParseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"load missing args", "/load data.csv", tableagent.ErrUsage},
		{"load no args", "/load", tableagent.ErrUsage},
		{"load extra args", "/load a b c", tableagent.ErrUsage},
		{"schema missing table", "/schema", tableagent.ErrUsage},
		{"unknown command", "/frobnicate", tableagent.ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tableagent.ParseCommand(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
