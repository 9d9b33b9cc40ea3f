package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/revijouer/core/cmd/api/commands"
)

// @title Révijouer API
// @version 1.0
// @description Quiz games, question editor and AnkiConnect bridge

// @license.name MIT

// @host localhost:8080
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:           "revijouer",
		Short:         "Révijouer quiz server",
		Long:          `Révijouer serves fill-in-the-blank and image-matching quizzes built from JSON question files, with a folder editor and a bridge to a local Anki.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewScoresCommand())
	rootCmd.AddCommand(commands.NewQuestionsCommand())
	rootCmd.AddCommand(commands.NewAnkiCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
