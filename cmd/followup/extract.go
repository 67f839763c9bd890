package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/followupsync/internal/bootstrap"
	"github.com/johnquangdev/followupsync/internal/domain/entities"
	"github.com/johnquangdev/followupsync/internal/usecase/extraction"
	"github.com/johnquangdev/followupsync/pkg/config"
	"github.com/johnquangdev/followupsync/pkg/temporal"
)

// Output formats for extract
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatDigest   = "digest"
)

var (
	extractFormat string
	extractRunID  string
	extractToday  string
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", formatJSON, "output format: json, markdown or digest")
	extractCmd.Flags().StringVar(&extractRunID, "run-id", "", "run id (generated when empty)")
	extractCmd.Flags().StringVar(&extractToday, "today", "", "reference date for relative phrases (YYYY-MM-DD)")
}

// extractCmd runs one extraction
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract meeting artifacts from a transcript file or stdin",
	Long: `Extract decisions, action items and risks from a transcript.

Examples:
  # Extract from a file
  followup extract notes.txt

  # Extract from stdin and print Markdown
  cat notes.txt | followup extract - --format markdown

  # Pin the reference date and print the chat digest
  followup extract notes.txt --today 2025-10-14 --format digest`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// runExtract handles the extract command
func runExtract(cmd *cobra.Command, args []string) error {
	switch extractFormat {
	case formatJSON, formatMarkdown, formatDigest:
	default:
		return fmt.Errorf("unknown format %q", extractFormat)
	}

	transcript, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	req := extraction.Request{Transcript: transcript, RunID: extractRunID}
	if extractToday != "" {
		ref, err := temporal.Parse(extractToday)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
		req.Reference = &ref
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Extract.Timeout+30*time.Second)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Service.Process(ctx, req)
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result, extractFormat)
}

// readInput reads the transcript from the named file, or stdin for "-" or no argument
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var content []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}
	return string(content), nil
}

func printResult(w io.Writer, result *entities.ExtractionResult, format string) error {
	switch format {
	case formatMarkdown:
		_, err := io.WriteString(w, extraction.RenderMarkdown(result))
		return err
	case formatDigest:
		digest := extraction.ChatDigest(result)
		lines := append([]string{digest.Headline}, digest.Replies...)
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
