package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeakable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain sentence", "Dagim builds web apps.", "Dagim builds web apps."},
		{"bold label line", "**Email:** dagimaynadispro@gmail.com", "Email: dagimaynadispro@gmail.com."},
		{"label already ends with period", "**Services Offered.**", "Services Offered."},
		{"bullets joined", "• Web development\n• Mobile apps\n- UI design", "Web development, Mobile apps, UI design."},
		{
			"contact block",
			"Here's how you can reach Dagim:\n\n**Email:** a@b.com\n**Telegram:** @dagimayni",
			"Here's how you can reach Dagim: Email: a@b.com. Telegram: @dagimayni.",
		},
		{
			"blank line separates bullet groups",
			"• One\n• Two\n\n• Three",
			"One, Two. Three.",
		},
		{
			"sentence flushes bullets",
			"Skills:\n• Go\n• React\nAsk me more.",
			"Skills: Go, React. Ask me more.",
		},
		{"stray asterisks removed", "I *really* like **Go** a lot", "I really like Go a lot"},
		{"bold inside bullet", "• **Go** backends", "Go backends."},
		{"whitespace collapsed", "  lots   of\tspace  ", "lots of space"},
		{"empty", "", ""},
		{"only blank lines", "\n\n  \n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Speakable(tt.in))
		})
	}
}
