package duck

// Exported internals for testing.
var (
	TableNameFromPath       = tableNameFromPath
	QuoteIdent              = quoteIdent
	QuoteString             = quoteString
	StripTrailingSemicolons = stripTrailingSemicolons
	NormalizeValues         = normalizeValues
	IsGlobPattern           = isGlobPattern
)
