// Package jsontext cleans up JSON documents embedded in language model replies.
package jsontext

import "strings"

// StripCodeFence returns the body of a surrounding Markdown code fence.
// The opening line's info string (json, JSON, javascript, ...) is dropped.
// Text without a complete fence is returned trimmed but otherwise unchanged.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 6 || !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	inner := s[3 : len(s)-3]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.ContainsAny(inner[:nl], "{[") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}
