// Package voice abstracts the speech capabilities the assistant client uses:
// speech-to-text capture and text-to-speech playback. Platforms without
// speech support plug in Noop.
package voice

import (
	"context"
	"errors"
	"strings"
)

// ErrUnsupported is returned by capabilities that are not available.
var ErrUnsupported = errors.New("speech capability not supported")

// RecognitionHandler receives capture events. OnTranscript carries the
// whole transcript accumulated so far, not a delta.
type RecognitionHandler interface {
	OnTranscript(text string)
	OnEnd()
	OnError(err error)
}

// Recognizer turns speech into text.
type Recognizer interface {
	Supported() bool
	StartCapture(ctx context.Context, handler RecognitionHandler) error
	StopCapture() error
}

// SynthesisHandler receives playback events for one utterance.
type SynthesisHandler interface {
	OnStart()
	OnEnd()
	OnError(err error)
}

// Synthesizer speaks text. It has a single slot: Speak cancels whatever is
// currently playing.
type Synthesizer interface {
	Supported() bool
	Voices() []Voice
	Speak(ctx context.Context, utterance Utterance, handler SynthesisHandler) error
	Cancel()
}

// Voice is a synthesis voice offered by the platform.
type Voice struct {
	Name string
	Lang string
}

// Utterance is one piece of text to speak. A zero Voice means the platform default.
type Utterance struct {
	Text   string
	Voice  Voice
	Rate   float64
	Pitch  float64
	Volume float64
}

// NewUtterance returns an utterance at normal rate, pitch and volume.
func NewUtterance(text string) Utterance {
	return Utterance{Text: text, Rate: 1.0, Pitch: 1.0, Volume: 1.0}
}

// SelectVoice prefers an English "Google" or "Natural" voice, then any
// English voice. It reports false when no English voice exists.
func SelectVoice(voices []Voice) (Voice, bool) {
	for _, v := range voices {
		if isEnglish(v) && (strings.Contains(v.Name, "Google") || strings.Contains(v.Name, "Natural")) {
			return v, true
		}
	}
	for _, v := range voices {
		if isEnglish(v) {
			return v, true
		}
	}
	return Voice{}, false
}

func isEnglish(v Voice) bool {
	return strings.HasPrefix(v.Lang, "en")
}

// Noop is both an unsupported Recognizer and an unsupported Synthesizer.
type Noop struct{}

func (Noop) Supported() bool { return false }

func (Noop) StartCapture(context.Context, RecognitionHandler) error { return ErrUnsupported }

func (Noop) StopCapture() error { return nil }

func (Noop) Voices() []Voice { return nil }

func (Noop) Speak(context.Context, Utterance, SynthesisHandler) error { return ErrUnsupported }

func (Noop) Cancel() {}
