package style

import (
	"strings"
	"text/template"
	"unicode"
)

// templateFuncs returns the helper projections available to rule templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"trim":       strings.TrimSpace,
		"replace":    strings.ReplaceAll,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,
		"join":       strings.Join,
		"pascalCase": pascalCase,
		"comment":    formatComment,
	}
}

// pascalCase converts a type token to PascalCase, used by custom sheets to
// derive readable names.
func pascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == ':'
	})
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// formatComment prefixes every line of a comment.
func formatComment(comment, prefix string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	for i, line := range lines {
		lines[i] = prefix + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
