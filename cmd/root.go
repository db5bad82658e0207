package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/MultiChat/internal/app"
)

var (
	modelFlag     string
	ephemeralFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "multichat",
	Short: "Chat with Anthropic and OpenAI models from the terminal",
	Long: `MultiChat is a terminal chat client. Pick a model, store its API key
locally and talk to it; switch models mid-conversation without losing history.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(app.Options{ModelID: modelFlag, Ephemeral: ephemeralFlag})
	},
}

func runChat(opts app.Options) error {
	application, err := app.NewApplication(opts)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "model id to start with (defaults to default_model)")
	rootCmd.PersistentFlags().BoolVar(&ephemeralFlag, "ephemeral", false, "keep API keys in memory for this session only")

	// Add subcommands
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(keyCmd)
}
