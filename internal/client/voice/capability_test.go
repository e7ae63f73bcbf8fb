package voice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		want   Voice
		ok     bool
	}{
		{"none", nil, Voice{}, false},
		{"no english", []Voice{{Name: "Amharic", Lang: "am-ET"}}, Voice{}, false},
		{
			"prefers google english",
			[]Voice{{Name: "Alex", Lang: "en-US"}, {Name: "Google Deutsch", Lang: "de-DE"}, {Name: "Google UK English", Lang: "en-GB"}},
			Voice{Name: "Google UK English", Lang: "en-GB"},
			true,
		},
		{
			"prefers natural english",
			[]Voice{{Name: "Alex", Lang: "en-US"}, {Name: "Aria Natural", Lang: "en-US"}},
			Voice{Name: "Aria Natural", Lang: "en-US"},
			true,
		},
		{
			"falls back to first english",
			[]Voice{{Name: "Thomas", Lang: "fr-FR"}, {Name: "Alex", Lang: "en-US"}, {Name: "Daniel", Lang: "en-GB"}},
			Voice{Name: "Alex", Lang: "en-US"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectVoice(tt.voices)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUtterance(t *testing.T) {
	u := NewUtterance("hello")
	assert.Equal(t, Utterance{Text: "hello", Rate: 1, Pitch: 1, Volume: 1}, u)
}

func TestNoop(t *testing.T) {
	var (
		rec Recognizer  = Noop{}
		syn Synthesizer = Noop{}
	)
	assert.False(t, rec.Supported())
	assert.False(t, syn.Supported())
	require.ErrorIs(t, rec.StartCapture(context.Background(), nil), ErrUnsupported)
	require.NoError(t, rec.StopCapture())
	require.ErrorIs(t, syn.Speak(context.Background(), NewUtterance("x"), nil), ErrUnsupported)
	assert.Empty(t, syn.Voices())
	syn.Cancel()
}
