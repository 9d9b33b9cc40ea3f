package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/revijouer/core/internal/domain/entities"
)

// NewQuestionsCommand creates the questions command with subcommands
func NewQuestionsCommand() *cobra.Command {
	questionsCmd := &cobra.Command{
		Use:   "questions",
		Short: "List or export the question files",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the questions of a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameType, err := gameTypeFlag(cmd)
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Close()

			out := cmd.OutOrStdout()
			done := color.New(color.FgGreen)
			if gameType == entities.GameTypeImageMatching {
				questions, err := a.questions.ListImageMatching(cmd.Context())
				if err != nil {
					return err
				}
				for _, q := range questions {
					fmt.Fprintf(out, "%3d  %-40s %s\n", q.ID, q.Path, q.CorrectWord)
				}
				fmt.Fprintf(out, "%d question(s)\n", len(questions))
				return nil
			}

			questions, err := a.questions.ListFillInBlank(cmd.Context())
			if err != nil {
				return err
			}
			completed := 0
			for _, q := range questions {
				mark := " "
				if q.Completed {
					mark = done.Sprint("✓")
					completed++
				}
				fmt.Fprintf(out, "%3d %s %-40s %s\n", q.ID, mark, q.Path, q.Text)
			}
			fmt.Fprintf(out, "%d question(s), %d completed\n", len(questions), completed)
			return nil
		},
	}
	listCmd.Flags().String("game", string(entities.GameTypeFillInBlank), "texte_a_trous or relier_images")
	questionsCmd.AddCommand(listCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the questions of a game as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameType, err := gameTypeFlag(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q, use json or yaml", format)
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Close()

			var questions any
			if gameType == entities.GameTypeImageMatching {
				questions, err = a.questions.ListImageMatching(cmd.Context())
			} else {
				questions, err = a.questions.ListFillInBlank(cmd.Context())
			}
			if err != nil {
				return err
			}

			return writeExport(cmd.OutOrStdout(), format, gameType, questions)
		},
	}
	exportCmd.Flags().String("game", string(entities.GameTypeFillInBlank), "texte_a_trous or relier_images")
	exportCmd.Flags().String("format", "json", "json or yaml")
	questionsCmd.AddCommand(exportCmd)

	return questionsCmd
}

func gameTypeFlag(cmd *cobra.Command) (entities.GameType, error) {
	raw, _ := cmd.Flags().GetString("game")
	gameType := entities.GameType(raw)
	if !gameType.IsValid() {
		return "", fmt.Errorf("%w: %q", entities.ErrInvalidGameType, raw)
	}
	return gameType, nil
}

// writeExport encodes the questions under their JSON field names, in both
// formats
func writeExport(w io.Writer, format string, gameType entities.GameType, questions any) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	if items == nil {
		items = []map[string]any{}
	}

	doc := map[string]any{
		"game_type": string(gameType),
		"count":     len(items),
		"questions": items,
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
