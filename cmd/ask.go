package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Rorical/MultiChat/internal/app"
	"github.com/Rorical/MultiChat/internal/core"
	"github.com/Rorical/MultiChat/internal/models"
	"github.com/Rorical/MultiChat/ui/components"
)

var askModelFlag string

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and print the reply",
	Long: `Send a single message to a model without starting the TUI. The reply is
rendered as markdown when stdout is a terminal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runtime, err := app.NewRuntime(app.Options{ModelID: askModelFlag, Ephemeral: ephemeralFlag}, nil)
		if err != nil {
			return err
		}
		defer runtime.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		reply, err := ask(ctx, runtime.Service, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			width := 80
			if w, _, err := term.GetSize(int(f.Fd())); err == nil {
				width = w
			}
			reply = components.NewMarkdownRenderer("dark").Render(reply, width)
		}
		fmt.Fprintln(out, reply)
		return nil
	},
}

// ask sends message and returns the reply text, or the failure the TUI
// would have shown as a notification.
func ask(ctx context.Context, service *core.ChatService, message string) (string, error) {
	model := service.State().SelectedModel
	err := service.SendMessage(ctx, message)
	if errors.Is(err, core.ErrCredentialMissing) {
		return "", fmt.Errorf("no API key for %s; run 'multichat key set %s'", model.Name, model.ID)
	}
	if err != nil {
		return "", err
	}

	state := service.State()
	if n := len(state.Messages); n > 0 && state.Messages[n-1].Role == models.Assistant {
		return state.Messages[n-1].Content, nil
	}
	if lastErr := service.LastError(); lastErr != nil {
		return "", lastErr
	}
	return "", errors.New("no reply received")
}

func init() {
	askCmd.Flags().StringVarP(&askModelFlag, "model", "m", "", "model id to ask (defaults to default_model)")
}
