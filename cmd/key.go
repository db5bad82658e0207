package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Rorical/MultiChat/internal/app"
	"github.com/Rorical/MultiChat/internal/config"
	"github.com/Rorical/MultiChat/internal/credentials"
	"github.com/Rorical/MultiChat/internal/models"
)

var keyYesFlag bool

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage stored API keys",
	Long:  `Manage the API key stored for each model. Keys live in the local credential store.`,
}

var setKeyCmd = &cobra.Command{
	Use:   "set [model-id]",
	Short: "Store the API key for a model",
	Long: `Store the API key for a model. The key is prompted with masked input, or
read from stdin when stdin is not a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withModel(args, "Select model to set a key for", func(store *credentials.Store, model models.Model) error {
			key, err := readKey(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := store.Save(model.ID, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Your %s API key has been saved locally.\n", model.Name)
			return nil
		})
	},
}

var showKeyCmd = &cobra.Command{
	Use:   "show [model-id]",
	Short: "Show whether a model has a key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withModel(args, "Select model", func(store *credentials.Store, model models.Model) error {
			key, ok, err := store.Load(model.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model: %s (%s)\n", model.Name, model.ID)
			if !ok {
				fmt.Fprintln(out, "API Key: Not set")
				return nil
			}
			fmt.Fprintf(out, "API Key: %s\n", maskKey(key))
			return nil
		})
	},
}

var clearKeyCmd = &cobra.Command{
	Use:   "clear [model-id]",
	Short: "Remove the stored key for a model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withModel(args, "Select model to clear", func(store *credentials.Store, model models.Model) error {
			if !keyYesFlag {
				confirmPrompt := promptui.Prompt{
					Label:     fmt.Sprintf("Remove the %s API key", model.Name),
					IsConfirm: true,
				}
				if _, err := confirmPrompt.Run(); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			if err := store.Delete(model.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed the %s API key.\n", model.Name)
			return nil
		})
	},
}

// withModel resolves the model from args or an interactive selection and
// runs fn with an open credential store.
func withModel(args []string, label string, fn func(*credentials.Store, models.Model) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	catalog := cfg.Catalog()

	var model models.Model
	if len(args) > 0 {
		found := false
		for _, m := range catalog {
			if m.ID == args[0] {
				model, found = m, true
				break
			}
		}
		if !found {
			return fmt.Errorf("model '%s' is not in the catalog; see 'multichat models'", args[0])
		}
	} else {
		names := make([]string, len(catalog))
		for i, m := range catalog {
			names[i] = m.Name + " (" + m.ID + ")"
		}
		prompt := promptui.Select{
			Label: label,
			Items: names,
		}
		index, _, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}
		model = catalog[index]
	}

	store, err := app.OpenCredentials(cfg, ephemeralFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store, model)
}

func readKey(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		apiKeyPrompt := promptui.Prompt{
			Label: "API Key",
			Mask:  '*',
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("API key cannot be empty")
				}
				return nil
			},
		}
		key, err := apiKeyPrompt.Run()
		if err != nil {
			return "", fmt.Errorf("prompt failed: %w", err)
		}
		return strings.TrimSpace(key), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read key from stdin: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", errors.New("API key cannot be empty")
	}
	return key, nil
}

// maskKey keeps only enough of a key to tell keys apart.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", 8) + key[len(key)-4:]
}

func init() {
	clearKeyCmd.Flags().BoolVarP(&keyYesFlag, "yes", "y", false, "do not ask for confirmation")

	keyCmd.AddCommand(setKeyCmd)
	keyCmd.AddCommand(showKeyCmd)
	keyCmd.AddCommand(clearKeyCmd)
}
