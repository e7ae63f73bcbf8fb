package voice

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
)

// CommandSynthesizer speaks by running an external text-to-speech program
// such as espeak-ng, passing the text as the last argument.
type CommandSynthesizer struct {
	Command string
	Args    []string
	// VoiceFlag, when set, passes the utterance voice name, e.g. "-v".
	VoiceFlag string
	// RateFlag, when set, passes Rate scaled by BaseRate, e.g. "-s" with 175.
	RateFlag string
	BaseRate float64
	// Available lists the voices reported by Voices.
	Available []Voice

	mu      sync.Mutex
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// NewCommandSynthesizer returns a synthesizer running command with args.
func NewCommandSynthesizer(command string, args ...string) *CommandSynthesizer {
	return &CommandSynthesizer{Command: command, Args: args}
}

// Supported reports whether the command is on PATH.
func (s *CommandSynthesizer) Supported() bool {
	if s.Command == "" {
		return false
	}
	_, err := exec.LookPath(s.Command)
	return err == nil
}

func (s *CommandSynthesizer) Voices() []Voice {
	return append([]Voice(nil), s.Available...)
}

func (s *CommandSynthesizer) args(u Utterance) []string {
	args := append([]string(nil), s.Args...)
	if s.VoiceFlag != "" && u.Voice.Name != "" {
		args = append(args, s.VoiceFlag, u.Voice.Name)
	}
	if s.RateFlag != "" && s.BaseRate > 0 && u.Rate > 0 {
		args = append(args, s.RateFlag, strconv.Itoa(int(s.BaseRate*u.Rate)))
	}
	return append(args, u.Text)
}

// Speak cancels the current utterance and starts u. OnStart is delivered
// before Speak returns; OnEnd or OnError follows when the process exits.
func (s *CommandSynthesizer) Speak(ctx context.Context, u Utterance, handler SynthesisHandler) error {
	s.Cancel()

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, s.Command, s.args(u)...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start %s: %w", s.Command, err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	handler.OnStart()

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		defer cancel()

		err := cmd.Wait()
		switch {
		case runCtx.Err() != nil:
			handler.OnError(runCtx.Err())
		case err != nil:
			handler.OnError(err)
		default:
			handler.OnEnd()
		}
	}()
	return nil
}

// Cancel stops the current utterance.
func (s *CommandSynthesizer) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait blocks until every started process has exited.
func (s *CommandSynthesizer) Wait() {
	s.running.Wait()
}
