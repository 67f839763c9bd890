package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/followupsync/internal/usecase/extraction"
)

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.AddCommand(promptShowCmd)
}

// promptCmd is the parent command for system prompt operations
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Inspect the extraction system prompt",
}

// promptShowCmd prints the built-in prompt
var promptShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the built-in system prompt",
	Long: `Print the built-in system prompt. The server uses it when neither
EXTRACT_PROMPT_OBJECT nor EXTRACT_PROMPT_PATH yields a prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), extraction.DefaultSystemPrompt)
		return err
	},
}
