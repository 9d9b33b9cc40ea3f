package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/revijouer/core/internal/domain/entities"
)

// NewScoresCommand creates the scores command with subcommands
func NewScoresCommand() *cobra.Command {
	scoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "Inspect or reset the game scores",
	}

	scoresCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Close()

			scores, err := a.scores.GetAll(cmd.Context(), "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, g := range entities.GameTypes {
				fmt.Fprintf(out, "%-16s %s\n", g, color.CyanString("%d", scores[string(g)]))
			}
			return nil
		},
	})

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set every score back to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to reset scores without --yes")
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Close()

			if err := a.scores.ResetAll(cmd.Context(), ""); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Scores reset")
			return nil
		},
	}
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	scoresCmd.AddCommand(resetCmd)

	return scoresCmd
}
