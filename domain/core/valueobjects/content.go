package valueobjects

import "strings"

// NormalizeContent is the canonical form used when comparing note text:
// surrounding whitespace trimmed and case folded. Internal whitespace is kept.
func NormalizeContent(content string) string {
	return strings.ToLower(strings.TrimSpace(content))
}
