package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/revijouer/core/internal/adapters/anki"
	"github.com/revijouer/core/internal/infrastructure/config"
	"github.com/revijouer/core/internal/infrastructure/logger"
)

// NewAnkiCommand creates the anki command with subcommands
func NewAnkiCommand() *cobra.Command {
	ankiCmd := &cobra.Command{
		Use:   "anki",
		Short: "AnkiConnect bridge commands",
	}

	ankiCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check that AnkiConnect is reachable and list the decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			client := anki.NewClient(cfg.Anki, logger.NewNop(), nil)
			out := cmd.OutOrStdout()

			version, err := client.Version(cmd.Context())
			if err != nil {
				d := anki.Diagnose(err)
				color.New(color.FgRed).Fprintf(out, "✗ %s\n", d.Message)
				for _, cause := range d.PossibleCauses {
					fmt.Fprintf(out, "  - %s\n", cause)
				}
				for _, suggestion := range d.Suggestions {
					fmt.Fprintf(out, "  → %s\n", suggestion)
				}
				return fmt.Errorf("anki check failed: %s", d.Kind)
			}
			color.New(color.FgGreen).Fprintf(out, "✓ AnkiConnect %d at %s\n", version, cfg.Anki.Endpoint())

			decks, err := client.DeckNames(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list decks: %w", err)
			}
			for _, deck := range decks {
				fmt.Fprintf(out, "  %s\n", deck)
			}

			if cfg.Anki.Email == "" || cfg.Anki.Password == "" {
				color.New(color.FgYellow).Fprintln(out, "! ANKI_EMAIL and ANKI_PASSWORD are not set, the web bridge will refuse to authenticate")
			}
			return nil
		},
	})

	return ankiCmd
}
