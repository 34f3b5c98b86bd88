// Package render writes query results in table, json, csv, or markdown
// format.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tableagent/tableagent"
)

// Formats accepted by [Result].
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Result writes res to w in the given format. Unknown formats fall back
// to the table format.
func Result(w io.Writer, res *tableagent.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, res)
	case FormatCSV:
		return renderCSV(w, res)
	case "md", FormatMarkdown:
		return renderMarkdown(w, res)
	default:
		return renderTable(w, res)
	}
}

func renderTable(w io.Writer, res *tableagent.Result) error {
	if res.Empty() {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, r := range res.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
	return nil
}

func renderJSON(w io.Writer, res *tableagent.Result) error {
	results := make([]map[string]any, len(res.Rows))
	for i, r := range res.Rows {
		row := make(map[string]any, len(res.Columns))
		for j, col := range res.Columns {
			if j < len(r) {
				row[col] = r[j]
			}
		}
		results[i] = row
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderCSV(w io.Writer, res *tableagent.Result) error {
	_, _ = fmt.Fprintln(w, strings.Join(res.Columns, ","))
	for _, r := range res.Rows {
		values := make([]string, len(r))
		for i, v := range r {
			values[i] = escapeCSV(formatValue(v))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, res *tableagent.Result) error {
	if res.Empty() {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(res.Columns, " | "))
	seps := make([]string, len(res.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range res.Rows {
		values := make([]string, len(r))
		for i, v := range r {
			values[i] = formatValue(v)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
