package bubbletea

import (
	"github.com/tableagent/tableagent"
	"github.com/tableagent/tableagent/markdown"
)

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders the agent's answer summary with markdown formatting.
type AnswerBlock struct {
	text  string
	theme tableagent.Theme
}

// NewAnswerBlock creates an AnswerBlock.
func NewAnswerBlock(text string, theme tableagent.Theme) *AnswerBlock {
	return &AnswerBlock{text: text, theme: theme}
}

func (b *AnswerBlock) View(width int) string {
	return markdown.Render(b.text, width, b.theme)
}
