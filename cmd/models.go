package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/MultiChat/internal/app"
	"github.com/Rorical/MultiChat/internal/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		store, err := app.OpenCredentials(cfg, ephemeralFlag)
		if err != nil {
			return err
		}
		defer store.Close()

		catalog, err := store.Hydrate(cfg.Catalog())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Default Model: %s\n\n", cfg.DefaultModel)
		fmt.Fprintln(out, "Available Models:")
		for _, m := range catalog {
			marker := ""
			if m.ID == cfg.DefaultModel {
				marker = " (default)"
			}
			hasKey := "No"
			if m.HasCredential() {
				hasKey = "Yes"
			}
			fmt.Fprintf(out, "  %s%s\n", m.ID, marker)
			fmt.Fprintf(out, "    Name: %s\n", m.Name)
			fmt.Fprintf(out, "    Provider: %s\n", m.Provider)
			fmt.Fprintf(out, "    API Key: %s\n", hasKey)
			fmt.Fprintln(out)
		}
		return nil
	},
}
