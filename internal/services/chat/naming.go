// File: internal/services/chat/naming.go
package chat

import (
	"strings"
	"unicode/utf8"
)

// TruncateText returns at most maxLen runes of input.
func TruncateText(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}

// NameFromReply derives a chat name from the first assistant reply. The
// suffix is appended even when the reply is shorter than length.
func NameFromReply(reply string, length int, suffix string) string {
	return TruncateText(reply, length) + suffix
}
