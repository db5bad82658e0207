package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/MultiChat/internal/app"
	"github.com/Rorical/MultiChat/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [model-id]",
	Short: "Set the default model and start the chat app",
	Long:  `Persist the given model as default_model and immediately start the chat application.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modelID := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if !cfg.HasModel(modelID) {
			return fmt.Errorf("model '%s' is not in the catalog; see 'multichat models'", modelID)
		}

		cfg.DefaultModel = modelID
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		return runChat(app.Options{ModelID: modelID, Ephemeral: ephemeralFlag})
	},
}
