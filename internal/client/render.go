package client

import (
	"regexp"
	"strings"
)

// LineKind tells a display how to lay out one rendered line.
type LineKind int

const (
	LineText LineKind = iota
	LineBullet
	LineBlank
)

// Segment is a run of text that is either bold or plain.
type Segment struct {
	Text string
	Bold bool
}

// Line is one line of rendered message text.
type Line struct {
	Kind     LineKind
	Segments []Segment
}

// Plain returns the line text without markup.
func (l Line) Plain() string {
	var b strings.Builder
	for _, seg := range l.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

var boldSpan = regexp.MustCompile(`\*\*[^*]+\*\*`)

// Render splits message text into lines and **bold** segments. Lines whose
// trimmed text starts with "•" or "-" are bullets.
func Render(text string) []Line {
	rawLines := strings.Split(text, "\n")
	lines := make([]Line, 0, len(rawLines))

	for _, raw := range rawLines {
		trimmed := strings.TrimSpace(raw)

		kind := LineText
		switch {
		case trimmed == "":
			kind = LineBlank
		case strings.HasPrefix(trimmed, "•"), strings.HasPrefix(trimmed, "-"):
			kind = LineBullet
		}

		lines = append(lines, Line{Kind: kind, Segments: segments(raw)})
	}
	return lines
}

func segments(line string) []Segment {
	var out []Segment
	last := 0
	for _, loc := range boldSpan.FindAllStringIndex(line, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: line[last:loc[0]]})
		}
		out = append(out, Segment{Text: line[loc[0]+2 : loc[1]-2], Bold: true})
		last = loc[1]
	}
	if last < len(line) {
		out = append(out, Segment{Text: line[last:]})
	}
	return out
}
