package agent

// Exported internals for testing.
var (
	GenerationPrompt  = generationPrompt
	SummaryPrompt     = summaryPrompt
	ClarificationText = clarificationText
	ExtractSQL        = extractSQL
	FormatResult      = formatResult
)
