package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/strongpass/internal/observability"
	"github.com/jonathan/strongpass/internal/pipeline"
	"github.com/jonathan/strongpass/internal/schemas"
	"github.com/jonathan/strongpass/internal/types"
	schemafiles "github.com/jonathan/strongpass/schemas"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a file of passwords and write a JSON report",
	Long:  "Reads one password per line, checks and repairs each one concurrently, and writes a BatchReport JSON document.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		inputs, err := readLinesFile(batchInput)
		if err != nil {
			return err
		}

		opts := pipeline.Options{
			Policy:       settings.PolicyValue(),
			Workers:      settings.Workers,
			IncludeEdits: batchEdits,
			Logger:       logger,
		}
		if settings.Verbose {
			printer := observability.NewPrinter(cmd.ErrOrStderr())
			opts.OnProgress = func(e pipeline.ProgressEvent) {
				printer.PrintStatus(true, e.Message)
			}
		}

		report, err := pipeline.RunBatch(cmd.Context(), inputs, opts)
		if err != nil {
			return err
		}
		return writeBatchReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, batchOutput, settings.Verbose)
	},
}

var (
	batchInput   string
	batchOutput  string
	batchWorkers int
	batchEdits   bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "in", "i", "", "Path to a file with one password per line (required)")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Path to output BatchReport JSON file (default stdout)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Number of concurrent workers (default 4)")
	batchCmd.Flags().BoolVar(&batchEdits, "edits", false, "Include the edit log of each password")

	if err := batchCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

// writeBatchReport writes report as JSON to path, or to out when path is
// empty, then checks it against the report schema. A schema mismatch is
// only a warning.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func writeBatchReport(out, errOut io.Writer, report *types.BatchReport, path string, summary bool) error {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if path == "" {
		fmt.Fprintln(out, string(jsonBytes))
	} else {
		outputDir := filepath.Dir(path)
		if outputDir != "" && outputDir != "." {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write report to output file: %w", err)
		}
	}

	if err := schemas.ValidateBytes(schemafiles.Report, jsonBytes); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(errOut, "Warning: Generated report does not validate against schema: %v\n", err)
		} else {
			fmt.Fprintf(errOut, "Warning: Could not validate output against schema: %v\n", err)
		}
		if logger != nil {
			logger.Warn("report schema check failed", zap.Error(err))
		}
	}

	if path != "" {
		printer := observability.NewPrinter(out)
		if summary {
			printer.PrintBatchSummary(report)
		}
		printer.PrintStatus(report.Summary.Compliant == report.Summary.Total,
			fmt.Sprintf("%d of %d passwords compliant", report.Summary.Compliant, report.Summary.Total))
		fmt.Fprintf(out, "Output: %s\n", path)
	}
	return nil
}
