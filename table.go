package tableagent

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Column describes a single table column as reported by the database.
type Column struct {
	Name string
	Type string
}

// Table is a loaded tabular dataset: its database identifier, the file it
// came from, the free-text schema description supplied at load time, and
// the typed columns read back from the database.
type Table struct {
	Name        string
	Path        string
	Description string
	Columns     []Column
}

// Schema renders the table's metadata block as handed to the language model.
func (t Table) Schema() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", t.Name)
	if len(t.Columns) > 0 {
		b.WriteString("Columns: ")
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s (%s)", c.Name, c.Type)
		}
		b.WriteString("\n")
	}
	if t.Description != "" {
		b.WriteString(t.Description)
		if !strings.HasSuffix(t.Description, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// LoadRequest names a CSV source (path or glob pattern) and the companion
// description file whose contents annotate every matched table.
type LoadRequest struct {
	DataPath    string
	Description string // free text, already read from the description file
}

// Result holds the outcome of a successful query execution.
type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

// Empty reports whether the result contains no rows.
func (r *Result) Empty() bool { return r == nil || len(r.Rows) == 0 }

// Store executes SQL against the loaded tables. Implementations own the
// database connection; Close releases it.
type Store interface {
	// Load materializes the CSV file(s) matched by req.DataPath as tables
	// and returns their metadata. req.Description is attached to each.
	Load(ctx context.Context, req LoadRequest) ([]Table, error)

	// Query executes a SQL string and returns all rows.
	Query(ctx context.Context, sql string) (*Result, error)

	// Tables lists the currently loaded table names.
	Tables(ctx context.Context) ([]string, error)

	// Describe returns column metadata for a loaded table.
	Describe(ctx context.Context, table string) ([]Column, error)

	Close() error
}
