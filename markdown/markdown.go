// Package markdown renders markdown text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling. Answer summaries
// from LLM providers are markdown-flavored, so the frontends route them
// through here before display.
package markdown

import "github.com/tableagent/tableagent"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow; sql-fenced blocks use the
// theme's SQL color.
func Render(source string, width int, theme tableagent.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
