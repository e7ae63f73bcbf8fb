package voice

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleSynthesizer "speaks" by printing the text. Used when no TTS program
// is installed.
type ConsoleSynthesizer struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewConsoleSynthesizer writes utterances to w, each line starting with prefix.
func NewConsoleSynthesizer(w io.Writer, prefix string) *ConsoleSynthesizer {
	return &ConsoleSynthesizer{w: w, prefix: prefix}
}

func (s *ConsoleSynthesizer) Supported() bool { return s.w != nil }

func (s *ConsoleSynthesizer) Voices() []Voice {
	return []Voice{{Name: "Console", Lang: "en-US"}}
}

func (s *ConsoleSynthesizer) Speak(ctx context.Context, u Utterance, handler SynthesisHandler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.w == nil {
		return ErrUnsupported
	}

	handler.OnStart()
	s.mu.Lock()
	_, err := fmt.Fprintf(s.w, "%s%s\n", s.prefix, u.Text)
	s.mu.Unlock()
	if err != nil {
		handler.OnError(err)
		return nil
	}
	handler.OnEnd()
	return nil
}

func (s *ConsoleSynthesizer) Cancel() {}
