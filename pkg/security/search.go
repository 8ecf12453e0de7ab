package security

import "strings"

// SanitizeSearchString escapes LIKE wildcards so the keyword matches literally.
// The result is meant for a LIKE clause using backslash as the escape character.
func SanitizeSearchString(query string) string {
	if query == "" {
		return ""
	}

	query = strings.ReplaceAll(query, `\`, `\\`)
	query = strings.ReplaceAll(query, "%", `\%`)
	query = strings.ReplaceAll(query, "_", `\_`)

	return query
}
