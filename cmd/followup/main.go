// Package main implements the followup CLI for running extractions without the HTTP server.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// verbose enables development logging on stderr
	verbose bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "followup",
	Short: "Extract decisions, action items and risks from meeting transcripts",
	Long: `followup runs the FollowUpSync extraction pipeline locally.

Configuration comes from the environment and an optional .env file, the
same way the API server is configured. EXTRACT_MODE selects local,
bedrock or groq extraction.`,
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline activity to stderr")
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
