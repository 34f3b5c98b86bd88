package bubbletea

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

var _ MessageBlock = (*SQLBlock)(nil)

// SQLBlock renders a generated SQL query behind a gutter, with the
// attempt number when the query is a refinement.
type SQLBlock struct {
	sql     string
	attempt int
	styles  Styles
}

// NewSQLBlock creates a SQLBlock.
func NewSQLBlock(sql string, attempt int, styles Styles) *SQLBlock {
	return &SQLBlock{sql: sql, attempt: attempt, styles: styles}
}

func (b *SQLBlock) View(width int) string {
	label := "sql"
	if b.attempt > 1 {
		label = fmt.Sprintf("sql (attempt %d)", b.attempt)
	}

	var out strings.Builder
	out.WriteString(b.styles.Muted.Render(label))
	out.WriteString("\n")

	gutter := b.styles.Muted.Render("│") + " "
	for _, line := range strings.Split(b.sql, "\n") {
		out.WriteString(gutter + b.styles.SQL.Render(truncateLine(line, width-2)))
		out.WriteString("\n")
	}
	return strings.TrimRight(out.String(), "\n")
}

// truncateLine cuts a line to the given display width, accounting for
// wide runes, so table borders and long queries don't wrap and tear the
// layout.
func truncateLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}
