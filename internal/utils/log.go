package utils

import "strings"

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
// Prompts and raw model responses go through it before reaching the logs.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
