package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = (*InfoBlock)(nil)

// InfoBlock renders a system notice in muted style.
type InfoBlock struct {
	text   string
	styles Styles
}

// NewInfoBlock creates an InfoBlock.
func NewInfoBlock(text string, styles Styles) *InfoBlock {
	return &InfoBlock{text: text, styles: styles}
}

func (b *InfoBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.styles.Muted.Render(b.text))
}

var _ MessageBlock = (*ClarificationBlock)(nil)

// ClarificationBlock renders a follow-up question the agent asks when a
// user question is ambiguous.
type ClarificationBlock struct {
	text   string
	styles Styles
}

// NewClarificationBlock creates a ClarificationBlock.
func NewClarificationBlock(text string, styles Styles) *ClarificationBlock {
	return &ClarificationBlock{text: text, styles: styles}
}

func (b *ClarificationBlock) View(width int) string {
	content := b.styles.Accent.Render("? ") + b.text
	return lipgloss.NewStyle().Width(width).Render(content)
}
