package voice

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrCaptureActive is returned when a capture is started twice.
var ErrCaptureActive = errors.New("capture already active")

// LineRecognizer is a push-to-talk recognizer for terminals: while a capture
// is active, the next line handed to Hear is treated as what was spoken.
type LineRecognizer struct {
	mu     sync.Mutex
	active *lineCapture
}

type lineCapture struct {
	handler RecognitionHandler
	done    chan struct{}
}

// NewLineRecognizer returns an idle recognizer.
func NewLineRecognizer() *LineRecognizer {
	return &LineRecognizer{}
}

func (r *LineRecognizer) Supported() bool { return true }

// Listening reports whether a capture is waiting for a line.
func (r *LineRecognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// StartCapture begins a capture. Cancelling ctx aborts it with ctx.Err().
func (r *LineRecognizer) StartCapture(ctx context.Context, handler RecognitionHandler) error {
	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return ErrCaptureActive
	}
	c := &lineCapture{handler: handler, done: make(chan struct{})}
	r.active = c
	r.mu.Unlock()

	go func() {
		select {
		case <-c.done:
		case <-ctx.Done():
			if r.detach(c) {
				c.handler.OnError(ctx.Err())
			}
		}
	}()
	return nil
}

// Hear feeds one line to the active capture. The words arrive as growing
// interim transcripts, then the capture ends. It reports false when no
// capture was active.
func (r *LineRecognizer) Hear(line string) bool {
	r.mu.Lock()
	c := r.active
	r.mu.Unlock()
	if c == nil {
		return false
	}

	words := strings.Fields(line)
	for i := range words {
		c.handler.OnTranscript(strings.Join(words[:i+1], " "))
	}

	if r.detach(c) {
		c.handler.OnEnd()
	}
	return true
}

// StopCapture ends the active capture, if any, delivering OnEnd.
func (r *LineRecognizer) StopCapture() error {
	r.mu.Lock()
	c := r.active
	r.mu.Unlock()

	if c != nil && r.detach(c) {
		c.handler.OnEnd()
	}
	return nil
}

// detach clears c if it is still the active capture.
func (r *LineRecognizer) detach(c *lineCapture) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != c {
		return false
	}
	r.active = nil
	close(c.done)
	return true
}
