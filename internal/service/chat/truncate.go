package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultLimit is the maximum reply length, in characters, before truncation kicks in.
	DefaultLimit = 800
	// Ellipsis marks a reply that was cut mid-sentence.
	Ellipsis = "..."

	// a sentence boundary earlier than this share of the limit is considered too early to cut at
	sentenceCutRatio = 0.6
)

// Truncate shortens text to at most limit characters. It prefers to end right
// after the last period inside the limit, as long as that period sits past
// 60% of the limit; otherwise it hard-cuts, trims trailing whitespace and
// appends Ellipsis. Lengths count runes, not bytes.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	length := utf8.RuneCountInString(text)
	if length <= limit {
		return text
	}

	// Output of an earlier hard cut stays as it is.
	if strings.HasSuffix(text, Ellipsis) && length-utf8.RuneCountInString(Ellipsis) <= limit {
		return text
	}

	prefix := []rune(text)[:limit]
	lastPeriod := -1
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] == '.' {
			lastPeriod = i
			break
		}
	}

	if lastPeriod != -1 && float64(lastPeriod) > float64(limit)*sentenceCutRatio {
		return string(prefix[:lastPeriod+1])
	}

	return strings.TrimRightFunc(string(prefix), unicode.IsSpace) + Ellipsis
}
