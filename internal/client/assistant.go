// Package client implements the conversational side of the portfolio
// assistant: the transcript, the voice and text input state machine, and the
// transports that reach the chat endpoint.
package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/client/voice"
	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
)

// Fixed transcript texts.
const (
	WelcomeMessage         = "👋 Hello! I'm Dagim's assistant. How can I help you today?"
	ConnectionErrorMessage = "I'm having trouble connecting. Please try again."
	GenericErrorMessage    = "Something went wrong."
	ErrorPrefix            = "Error: "
)

// Header status labels.
const (
	StatusListening = "Listening..."
	StatusSpeaking  = "Speaking..."
	StatusOnline    = "Online"
)

// State is a snapshot of the assistant's flags and staged input.
type State struct {
	Open             bool
	Listening        bool
	Speaking         bool
	VoiceEnabled     bool
	SpeechSupported  bool
	AwaitingResponse bool
	Input            string
}

// Options configures an Assistant. Nil capabilities default to voice.Noop.
type Options struct {
	Recognizer  voice.Recognizer
	Synthesizer voice.Synthesizer
	// Muted starts with voice output disabled.
	Muted  bool
	Logger *zap.Logger
	// Now overrides the clock used for message ids and timestamps.
	Now func() time.Time
}

// Assistant is the client-side state machine. Every event handler reads the
// current state under mu, so callbacks delivered late by a capability always
// act on up-to-date flags.
type Assistant struct {
	transport   Transport
	recognizer  voice.Recognizer
	synthesizer voice.Synthesizer
	transcript  *Transcript
	logger      *zap.Logger
	now         func() time.Time

	mu          sync.Mutex
	state       State
	pending     string
	listenCtx   context.Context
	capture     uint64
	utterance   uint64
	subscribers map[int]func(State)
	nextSub     int

	inflight sync.WaitGroup
}

// New creates a closed assistant whose transcript holds the welcome message.
func New(transport Transport, opts Options) *Assistant {
	if opts.Recognizer == nil {
		opts.Recognizer = voice.Noop{}
	}
	if opts.Synthesizer == nil {
		opts.Synthesizer = voice.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	welcome := chat.Message{ID: 1, Text: WelcomeMessage, IsFromAssistant: true, Timestamp: opts.Now()}

	return &Assistant{
		transport:   transport,
		recognizer:  opts.Recognizer,
		synthesizer: opts.Synthesizer,
		transcript:  NewTranscript(welcome),
		logger:      opts.Logger.With(zap.String("component", "assistant")),
		now:         opts.Now,
		state: State{
			VoiceEnabled:    !opts.Muted,
			SpeechSupported: opts.Recognizer.Supported(),
		},
		subscribers: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current flags.
func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Transcript returns a copy of the messages so far.
func (a *Assistant) Transcript() []chat.Message {
	return a.transcript.Messages()
}

// TranscriptSince returns the messages from index n on.
func (a *Assistant) TranscriptSince(n int) []chat.Message {
	return a.transcript.Since(n)
}

// Status returns the header label for the current state.
func (a *Assistant) Status() string {
	s := a.State()
	switch {
	case s.Listening:
		return StatusListening
	case s.Speaking:
		return StatusSpeaking
	default:
		return StatusOnline
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change and must not block. The
// returned func removes the subscription.
func (a *Assistant) Subscribe(fn func(State)) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subscribers[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subscribers, id)
		a.mu.Unlock()
	}
}

func (a *Assistant) notify() {
	a.mu.Lock()
	snapshot := a.state
	subs := make([]func(State), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Wait blocks until every submitted request has been answered.
func (a *Assistant) Wait() {
	a.inflight.Wait()
}

// IsOpen reports whether the panel is open.
func (a *Assistant) IsOpen() bool {
	return a.State().Open
}

// Open opens the panel. It starts no network or audio activity.
func (a *Assistant) Open() {
	a.mu.Lock()
	a.state.Open = true
	a.mu.Unlock()
	a.notify()
}

// Close closes the panel, cancelling playback and any active capture.
func (a *Assistant) Close() {
	a.mu.Lock()
	a.state.Open = false
	a.state.Speaking = false
	a.utterance++
	listening := a.state.Listening
	if listening {
		a.state.Listening = false
		a.pending = ""
		a.capture++
	}
	a.mu.Unlock()

	a.synthesizer.Cancel()
	if listening {
		if err := a.recognizer.StopCapture(); err != nil {
			a.logger.Debug("stop capture failed", zap.Error(err))
		}
	}
	a.notify()
}

// SetInput replaces the staged input text.
func (a *Assistant) SetInput(text string) {
	a.mu.Lock()
	a.state.Input = text
	a.mu.Unlock()
	a.notify()
}

// Input returns the staged input text.
func (a *Assistant) Input() string {
	return a.State().Input
}

// ToggleListening stops an active capture or starts a new one.
func (a *Assistant) ToggleListening(ctx context.Context) error {
	if a.State().Listening {
		return a.StopListening()
	}
	return a.StartListening(ctx)
}

// StartListening clears the staged input and starts voice capture. It is a
// no-op when speech is unsupported or a capture is already running. ctx is
// also used for the message auto-submitted when capture ends.
func (a *Assistant) StartListening(ctx context.Context) error {
	a.mu.Lock()
	if !a.state.SpeechSupported || a.state.Listening {
		a.mu.Unlock()
		return nil
	}
	a.state.Input = ""
	a.state.Listening = true
	a.pending = ""
	a.listenCtx = ctx
	a.capture++
	gen := a.capture
	a.mu.Unlock()
	a.notify()

	if err := a.recognizer.StartCapture(ctx, recognitionEvents{a: a, gen: gen}); err != nil {
		a.mu.Lock()
		if a.capture == gen {
			a.state.Listening = false
		}
		a.mu.Unlock()
		a.notify()
		return err
	}
	return nil
}

// StopListening asks the recognizer to stop. A transcript captured so far is
// submitted when the recognizer reports the end of capture.
func (a *Assistant) StopListening() error {
	a.mu.Lock()
	if !a.state.Listening {
		a.mu.Unlock()
		return nil
	}
	a.state.Listening = false
	a.mu.Unlock()
	a.notify()

	return a.recognizer.StopCapture()
}

type recognitionEvents struct {
	a   *Assistant
	gen uint64
}

func (e recognitionEvents) OnTranscript(text string) { e.a.handleTranscript(e.gen, text) }
func (e recognitionEvents) OnEnd()                   { e.a.handleRecognitionEnd(e.gen) }
func (e recognitionEvents) OnError(err error)        { e.a.handleRecognitionError(e.gen, err) }

func (a *Assistant) handleTranscript(gen uint64, text string) {
	a.mu.Lock()
	if gen != a.capture {
		a.mu.Unlock()
		return
	}
	a.state.Input = text
	a.pending = text
	a.mu.Unlock()
	a.notify()
}

func (a *Assistant) handleRecognitionEnd(gen uint64) {
	a.mu.Lock()
	if gen != a.capture {
		a.mu.Unlock()
		return
	}
	a.state.Listening = false
	spoken := strings.TrimSpace(a.pending)
	a.pending = ""
	a.capture++
	ctx := a.listenCtx
	a.mu.Unlock()
	a.notify()

	if spoken != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		a.SendText(ctx, spoken)
	}
}

func (a *Assistant) handleRecognitionError(gen uint64, err error) {
	a.mu.Lock()
	if gen != a.capture {
		a.mu.Unlock()
		return
	}
	a.state.Listening = false
	a.pending = ""
	a.capture++
	a.mu.Unlock()

	a.logger.Debug("recognition error", zap.Error(err))
	a.notify()
}

// Send submits the staged input.
func (a *Assistant) Send(ctx context.Context) bool {
	return a.SendText(ctx, a.Input())
}

// SendText submits text. It reports false, doing nothing, when the trimmed
// text is empty or a request is already in flight. Otherwise it stops any
// capture, appends the user message, clears the input and answers
// asynchronously; Wait blocks until the reply is in the transcript.
func (a *Assistant) SendText(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)

	a.mu.Lock()
	if text == "" || a.state.AwaitingResponse {
		a.mu.Unlock()
		return false
	}

	listening := a.state.Listening
	if listening {
		a.state.Listening = false
		a.capture++
	}
	a.pending = ""

	now := a.now()
	a.transcript.Append(chat.Message{ID: now.UnixMilli(), Text: text, Timestamp: now})
	a.state.Input = ""
	a.state.AwaitingResponse = true
	a.inflight.Add(1)
	a.mu.Unlock()

	if listening {
		if err := a.recognizer.StopCapture(); err != nil {
			a.logger.Debug("stop capture failed", zap.Error(err))
		}
	}
	a.notify()

	go a.exchange(ctx, text)
	return true
}

func (a *Assistant) exchange(ctx context.Context, text string) {
	defer a.inflight.Done()

	var (
		reply string
		speak bool
	)

	resp, err := a.transport.Send(ctx, text)
	switch {
	case err != nil:
		a.logger.Warn("chat request failed", zap.Error(err))
		reply = ConnectionErrorMessage
	case resp.OK():
		reply = resp.Response
		speak = true
	default:
		message := resp.Message
		if message == "" {
			message = GenericErrorMessage
		}
		reply = ErrorPrefix + message
	}

	a.mu.Lock()
	now := a.now()
	a.transcript.Append(chat.Message{ID: now.UnixMilli() + 1, Text: reply, IsFromAssistant: true, Timestamp: now})
	a.state.AwaitingResponse = false
	speak = speak && a.state.VoiceEnabled
	a.mu.Unlock()
	a.notify()

	if speak {
		a.speak(ctx, reply)
	}
}

// ToggleVoice flips voice output, cancelling playback in progress.
func (a *Assistant) ToggleVoice() {
	a.mu.Lock()
	speaking := a.state.Speaking
	if speaking {
		a.state.Speaking = false
		a.utterance++
	}
	a.state.VoiceEnabled = !a.state.VoiceEnabled
	a.mu.Unlock()

	if speaking {
		a.synthesizer.Cancel()
	}
	a.notify()
}

// StopSpeaking cancels playback in progress.
func (a *Assistant) StopSpeaking() {
	a.mu.Lock()
	a.state.Speaking = false
	a.utterance++
	a.mu.Unlock()

	a.synthesizer.Cancel()
	a.notify()
}

func (a *Assistant) speak(ctx context.Context, text string) {
	if !a.synthesizer.Supported() {
		return
	}
	spoken := voice.Speakable(text)
	if spoken == "" {
		return
	}

	utterance := voice.NewUtterance(spoken)
	if v, ok := voice.SelectVoice(a.synthesizer.Voices()); ok {
		utterance.Voice = v
	}

	a.mu.Lock()
	a.utterance++
	gen := a.utterance
	a.mu.Unlock()

	if err := a.synthesizer.Speak(ctx, utterance, synthesisEvents{a: a, gen: gen}); err != nil {
		a.handleSpeechError(gen, err)
	}
}

type synthesisEvents struct {
	a   *Assistant
	gen uint64
}

func (e synthesisEvents) OnStart()          { e.a.handleSpeechStart(e.gen) }
func (e synthesisEvents) OnEnd()            { e.a.handleSpeechDone(e.gen) }
func (e synthesisEvents) OnError(err error) { e.a.handleSpeechError(e.gen, err) }

func (a *Assistant) handleSpeechStart(gen uint64) {
	a.mu.Lock()
	if gen != a.utterance {
		a.mu.Unlock()
		return
	}
	a.state.Speaking = true
	a.mu.Unlock()
	a.notify()
}

func (a *Assistant) handleSpeechDone(gen uint64) {
	a.mu.Lock()
	if gen != a.utterance {
		a.mu.Unlock()
		return
	}
	a.state.Speaking = false
	a.mu.Unlock()
	a.notify()
}

func (a *Assistant) handleSpeechError(gen uint64, err error) {
	a.logger.Debug("synthesis error", zap.Error(err))
	a.handleSpeechDone(gen)
}
