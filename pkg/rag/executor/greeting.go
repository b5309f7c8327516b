package executor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"ai-legalchat-be/internal/constant"
)

// isGreeting reports whether the question is a bare salutation that should
// short-circuit retrieval. The match is a case-insensitive prefix check on
// the trimmed text, with a word boundary after the prefix so questions that
// merely start with greeting letters ("Histoire de...", "Hier, ...") still
// reach retrieval.
func isGreeting(question string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(question))
	if trimmed == "" {
		return false
	}
	for _, prefix := range constant.GreetingPrefixes {
		if !strings.HasPrefix(trimmed, prefix) {
			continue
		}
		rest := trimmed[len(prefix):]
		if rest == "" {
			return true
		}
		next, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(next) {
			return true
		}
	}
	return false
}
