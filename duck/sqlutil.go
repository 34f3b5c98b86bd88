package duck

import (
	"path/filepath"
	"strings"
	"unicode"
)

// tableNameFromPath derives a table identifier from a file path: the base
// name without extension, with non-identifier runes replaced by
// underscores and a leading digit prefixed.
func tableNameFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "t"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "t_" + name
	}
	return name
}

// quoteIdent quotes a SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteString quotes a SQL string literal, doubling embedded quotes.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// stripTrailingSemicolons trims whitespace and any trailing semicolons so
// the statement can be wrapped in a subquery.
func stripTrailingSemicolons(sqlText string) string {
	sqlText = strings.TrimSpace(sqlText)
	for strings.HasSuffix(sqlText, ";") {
		sqlText = strings.TrimSpace(strings.TrimSuffix(sqlText, ";"))
	}
	return sqlText
}

// normalizeValues converts driver-specific values to display-friendly Go
// types. []byte columns become strings.
func normalizeValues(values []any) []any {
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values
}
