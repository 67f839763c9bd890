package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/followupsync/pkg/temporal"
)

var resolveToday string

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveToday, "today", "", "reference date (YYYY-MM-DD, defaults to today)")
}

// resolveCmd resolves a relative date phrase
var resolveCmd = &cobra.Command{
	Use:   "resolve <phrase>",
	Short: "Resolve a relative due-date phrase to a calendar date",
	Long: `Resolve phrases such as "by Friday", "next Tuesday", "Oct 17" or
"end of month" against a reference date.

Examples:
  followup resolve "send the deck by Friday"
  followup resolve "end of the month" --today 2024-02-10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

// runResolve handles the resolve command
func runResolve(cmd *cobra.Command, args []string) error {
	ref := temporal.Today(time.Now(), time.Local)
	if resolveToday != "" {
		var err error
		ref, err = temporal.Parse(resolveToday)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
	}

	phrase := strings.Join(args, " ")
	d, ok := temporal.Resolve(phrase, ref)
	if !ok {
		return fmt.Errorf("no date found in %q", phrase)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), d.String())
	return err
}
