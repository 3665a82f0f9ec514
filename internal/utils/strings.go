package utils

import (
	"html"
	"strings"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EscapeHTML encodes user-originated text for safe embedding in markup.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
