package responder

import (
	"strings"
)

// Match maps a raw model answer onto one of options. It tries an exact match,
// then a case-insensitive match, then the longest option contained in the
// answer, then an option containing the answer. The second result is false
// when nothing matched.
func Match(answer string, options []string) (string, bool) {
	trimmed := strings.TrimSpace(answer)

	for _, opt := range options {
		if opt == trimmed {
			return opt, true
		}
	}

	normalized := normalize(trimmed)
	if normalized == "" {
		return "", false
	}

	for _, opt := range options {
		if strings.EqualFold(opt, normalized) {
			return opt, true
		}
	}

	best, bestLen := "", 0
	for _, opt := range options {
		lower := strings.ToLower(opt)
		if strings.Contains(normalized, lower) && len(lower) > bestLen {
			best, bestLen = opt, len(lower)
		}
	}
	if bestLen > 0 {
		return best, true
	}

	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), normalized) {
			return opt, true
		}
	}

	return "", false
}

// normalize lowercases the answer and strips surrounding quotes and punctuation.
func normalize(answer string) string {
	return strings.Trim(strings.ToLower(answer), " \t\r\n\"'`.,;:!?")
}
