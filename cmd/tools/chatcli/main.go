package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultServer() string {
	if url := os.Getenv("CHAT_SERVER_URL"); url != "" {
		return url
	}
	if port := os.Getenv("PORT"); port != "" {
		return "http://localhost:" + port
	}
	return "http://localhost:8080"
}

func newRootCmd() *cobra.Command {
	// .env supplies PORT / CHAT_SERVER_URL for the default --server value.
	_ = godotenv.Load()

	opts := options{}

	cmd := &cobra.Command{
		Use:   "chatcli",
		Short: "Talk to the portfolio assistant from a terminal",
		Long: `Interactive terminal client for the portfolio assistant.

Type a message and press Enter to send it. Commands:
  /mic    capture the next line as speech (push-to-talk)
  /mute   toggle spoken replies
  /close  close the panel, cancelling speech and capture
  /open   reopen the panel
  /exit   quit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.server, "server", defaultServer(), "base URL of the assistant backend")
	flags.StringVar(&opts.transport, "transport", transportHTTP, "transport to use: http or ws")
	flags.BoolVar(&opts.voice, "voice", false, "enable push-to-talk capture and spoken replies")
	flags.StringVar(&opts.ttsCommand, "tts-command", "", "text-to-speech program for spoken replies, e.g. espeak-ng (printed when empty)")
	flags.BoolVar(&opts.mute, "mute", false, "start with spoken replies disabled")
	flags.BoolVar(&opts.debug, "debug", false, "log client diagnostics to stderr")

	return cmd
}
