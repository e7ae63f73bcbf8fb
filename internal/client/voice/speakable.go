package voice

import (
	"regexp"
	"strings"
)

var (
	boldPair     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	bulletMarker = regexp.MustCompile(`^[•\-]\s*`)
)

// Speakable rewrites lightly formatted reply text into phrasing suited for
// speech. Bold label lines become sentences, consecutive bullet lines are
// read as one comma-separated list, and blank lines act as pauses.
func Speakable(text string) string {
	var (
		parts   []string
		bullets []string
	)

	flush := func() {
		if len(bullets) == 0 {
			return
		}
		parts = append(parts, strings.Join(bullets, ", ")+".")
		bullets = bullets[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "**"):
			flush()
			label := strings.TrimSpace(boldPair.ReplaceAllString(trimmed, "$1"))
			if !strings.HasSuffix(label, ".") {
				label += "."
			}
			parts = append(parts, label)
		case strings.HasPrefix(trimmed, "•"), strings.HasPrefix(trimmed, "-"):
			bullets = append(bullets, strings.TrimSpace(bulletMarker.ReplaceAllString(trimmed, "")))
		default:
			flush()
			parts = append(parts, trimmed)
		}
	}
	flush()

	spoken := strings.ReplaceAll(strings.Join(parts, " "), "*", "")
	return strings.Join(strings.Fields(spoken), " ")
}
