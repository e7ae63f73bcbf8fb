package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dagimaynadis/portfolio/backend/internal/client"
	"github.com/dagimaynadis/portfolio/backend/internal/client/voice"
	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
)

const (
	transportHTTP = "http"
	transportWS   = "ws"
)

type options struct {
	server     string
	transport  string
	voice      bool
	ttsCommand string
	mute       bool
	debug      bool
}

func (o options) validate() error {
	switch o.transport {
	case transportHTTP, transportWS:
	default:
		return fmt.Errorf("invalid --transport %q: expected %q or %q", o.transport, transportHTTP, transportWS)
	}
	if strings.TrimSpace(o.server) == "" {
		return fmt.Errorf("--server is required")
	}
	return nil
}

var (
	youLabel       = color.New(color.FgGreen, color.Bold).SprintFunc()
	assistantLabel = color.New(color.FgCyan, color.Bold).SprintFunc()
	boldText       = color.New(color.Bold).SprintFunc()
	bulletText     = color.New(color.FgYellow).SprintFunc()
	noticeText     = color.New(color.FgMagenta).SprintFunc()
	spokenText     = color.New(color.Faint).SprintFunc()
)

func newLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// printer writes transcript additions in order, from whichever goroutine
// changed the assistant state.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	printed int
}

func (p *printer) flush(a *client.Assistant) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, msg := range a.TranscriptSince(p.printed) {
		printMessage(p.out, msg)
		p.printed++
	}
}

func (p *printer) notice(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, noticeText(fmt.Sprintf(format, args...)))
}

func printMessage(w io.Writer, msg chat.Message) {
	if !msg.IsFromAssistant {
		fmt.Fprintf(w, "%s %s\n", youLabel("You:"), msg.Text)
		return
	}

	fmt.Fprintln(w, assistantLabel("Assistant:"))
	for _, line := range client.Render(msg.Text) {
		fmt.Fprintln(w, formatLine(line))
	}
	fmt.Fprintln(w)
}

func formatLine(line client.Line) string {
	if line.Kind == client.LineBlank {
		return ""
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, seg := range line.Segments {
		text := seg.Text
		if line.Kind == client.LineBullet && i == 0 && !seg.Bold {
			trimmed := strings.TrimLeft(text, " \t")
			if marker, rest, ok := cutBullet(trimmed); ok {
				b.WriteString(bulletText(marker))
				text = rest
			}
		}
		if seg.Bold {
			b.WriteString(boldText(text))
		} else {
			b.WriteString(text)
		}
	}
	return b.String()
}

func cutBullet(text string) (string, string, bool) {
	for _, marker := range []string{"•", "-"} {
		if rest, ok := strings.CutPrefix(text, marker); ok {
			return marker, rest, true
		}
	}
	return "", "", false
}

func newTransport(opts options) (client.Transport, func()) {
	if opts.transport == transportWS {
		tr := client.NewWebSocketTransport(opts.server)
		return tr, func() { _ = tr.Close() }
	}
	return client.NewHTTPTransport(opts.server, nil), func() {}
}

func newSynthesizer(opts options, out io.Writer) voice.Synthesizer {
	if opts.ttsCommand != "" {
		s := voice.NewCommandSynthesizer(opts.ttsCommand)
		if s.Supported() {
			return s
		}
		fmt.Fprintln(out, noticeText(fmt.Sprintf("%s not found, spoken replies will be printed", opts.ttsCommand)))
	}
	if opts.voice {
		return voice.NewConsoleSynthesizer(out, spokenText("🔊 "))
	}
	return voice.Noop{}
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	logger := newLogger(opts.debug)
	defer logger.Sync()

	transport, closeTransport := newTransport(opts)
	defer closeTransport()

	var (
		recognizer voice.Recognizer = voice.Noop{}
		lines      *voice.LineRecognizer
	)
	if opts.voice {
		lines = voice.NewLineRecognizer()
		recognizer = lines
	}

	synthesizer := newSynthesizer(opts, out)
	if cmdSynth, ok := synthesizer.(*voice.CommandSynthesizer); ok {
		defer cmdSynth.Wait()
	}

	assistant := client.New(transport, client.Options{
		Recognizer:  recognizer,
		Synthesizer: synthesizer,
		Muted:       opts.mute,
		Logger:      logger,
	})
	defer assistant.Close()

	p := &printer{out: out}
	unsubscribe := assistant.Subscribe(func(client.State) { p.flush(assistant) })
	defer unsubscribe()

	assistant.Open()
	p.notice("connected to %s over %s, /exit to quit", opts.server, opts.transport)

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if lines != nil && lines.Listening() {
			lines.Hear(line)
			assistant.Wait()
			continue
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "/exit", "/quit":
			return nil
		case "/mic":
			if !assistant.State().SpeechSupported {
				p.notice("voice capture unavailable, start with --voice")
				continue
			}
			if err := assistant.ToggleListening(ctx); err != nil {
				p.notice("voice capture failed: %v", err)
				continue
			}
			if assistant.State().Listening {
				p.notice("%s say something (type what you would speak)", client.StatusListening)
			}
		case "/mute":
			assistant.ToggleVoice()
			if assistant.State().VoiceEnabled {
				p.notice("spoken replies on")
			} else {
				p.notice("spoken replies off")
			}
		case "/close":
			assistant.Close()
			p.notice("panel closed, /open to reopen")
		case "/open":
			assistant.Open()
			p.notice("%s", assistant.Status())
		default:
			if !assistant.IsOpen() {
				p.notice("panel closed, /open to reopen")
				continue
			}
			assistant.SetInput(line)
			if assistant.Send(ctx) {
				assistant.Wait()
			}
		}
	}

	return scanner.Err()
}
