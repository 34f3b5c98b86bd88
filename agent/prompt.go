package agent

import (
	"fmt"
	"strings"

	"github.com/tableagent/tableagent"
)

// Welcome is the system message that opens every new session.
const Welcome = "Welcome to TableAgentGPT! This tool enables you to interact with your tabular data " +
	"by generating queries on your behalf.\n\n" +
	"To get started, please load your data and its metadata using the command:\n" +
	"/load <file_path> <table_columns_description>\n\n" +
	"Once your data is loaded, feel free to ask any questions, and I'll retrieve insights for you.\n" +
	"To exit the system, simply type /q."

// HelpText is the /help command reference.
const HelpText = `Commands:
  /load <file_path> <table_columns_description>  Load a CSV (or glob) and its schema description
  /tables                                        List loaded tables
  /schema <table>                                Show columns for a loaded table
  /sql                                           Show the SQL generated for the last question
  /help                                          Show this help message
  /q                                             Exit

Anything else is treated as a question about the loaded data.`

// clarificationTag prefixes provider replies that ask for more detail
// instead of returning SQL.
const clarificationTag = "[CLARIFICATION]"

// generationPrompt builds the system prompt for the query-building node.
func generationPrompt(schemas string, rowLimit int) string {
	return fmt.Sprintf("You are an intelligent assistant that converts natural language questions "+
		"into correct DuckDB SQL queries.\n"+
		"Your goal is to generate a SQL query by considering the user's intent, "+
		"previous interactions, and the table schemas.\n\n"+
		"Return format:\n"+
		"1. If the intent is clear, generate a complete DuckDB SQL query that satisfies "+
		"the request. Return only the SQL query text without any extra commentary. Limit "+
		"query response to %d rows at most.\n"+
		"2. If the intent is ambiguous, ask a follow-up clarification question that "+
		"requests additional details. Prefix your clarification question with "+
		"%q as output.\n\n"+
		"Instructions:\n"+
		"1. Consider the user's intent based on the current question.\n"+
		"2. If any previous SQL query resulted in an error, incorporate the error "+
		"message and generate a corrected query.\n"+
		"3. If previous user questions or clarifications are relevant, include them "+
		"in your analysis.\n\n"+
		"Table schemas: %s", rowLimit, clarificationTag, schemas)
}

// summaryPrompt builds the system prompt for the post-execution node.
func summaryPrompt(schemas string) string {
	return fmt.Sprintf("You are an intelligent assistant that summarizes SQL query results based on "+
		"given table schemas. \nTable Schemas: %s", schemas)
}

// clarificationText reports whether the provider reply is a clarification
// request and returns the text after the tag.
func clarificationText(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, clarificationTag) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, clarificationTag)), true
}

// extractSQL strips markdown code fences from a provider reply, leaving
// the bare SQL text.
func extractSQL(content string) string {
	content = strings.ReplaceAll(content, "```sql", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// formatResult renders rows compactly for the summarizer prompt:
// (col, col): (v, v); (v, v)
func formatResult(res *tableagent.Result) string {
	var b strings.Builder
	b.WriteString("(" + strings.Join(res.Columns, ", ") + "):")
	if res.Empty() {
		b.WriteString(" no rows")
		return b.String()
	}
	for i, row := range res.Rows {
		if i > 0 {
			b.WriteString(";")
		}
		parts := make([]string, len(row))
		for j, v := range row {
			parts[j] = fmt.Sprintf("%v", v)
		}
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	return b.String()
}
