package bubbletea

import (
	"bytes"
	"strings"

	"github.com/tableagent/tableagent"
	"github.com/tableagent/tableagent/render"
)

var _ MessageBlock = (*ResultBlock)(nil)

// ResultBlock renders query result rows as a bordered table.
type ResultBlock struct {
	result *tableagent.Result
	styles Styles
}

// NewResultBlock creates a ResultBlock.
func NewResultBlock(result *tableagent.Result, styles Styles) *ResultBlock {
	return &ResultBlock{result: result, styles: styles}
}

func (b *ResultBlock) View(width int) string {
	var buf bytes.Buffer
	if err := render.Result(&buf, b.result, render.FormatTable); err != nil {
		return b.styles.Error.Render(err.Error())
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = truncateLine(line, width)
	}
	return strings.Join(lines, "\n")
}
