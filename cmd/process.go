// =============================================================================
// Boleto Line Reader - Process Command
// =============================================================================
//
// This file defines the 'process' command, which decodes every code file of
// the input directory in one batch run.
//
// COMMAND USAGE:
//   boleto process [flags]
//
// FLAGS:
//   --dry-run : Decode and print the summary without writing or moving files
//   --file    : Process only this file instead of scanning input_dir
//
// PROCESSING PIPELINE:
//   1. Discover code files in the input directory (input_patterns)
//   2. Read and decode every file concurrently (max_concurrency)
//   3. Write the XML and XLSX reports
//   4. Archive inputs and reports
//   5. Write the error log and the processing summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/boleto-line-reader/internal/batch"
	"github.com/ginjaninja78/boleto-line-reader/internal/codefile"
	"github.com/ginjaninja78/boleto-line-reader/internal/digitable"
	"github.com/ginjaninja78/boleto-line-reader/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun simulates processing without writing output files.
var dryRun bool

// filePath is a single file to process instead of the input directory.
var filePath string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Decode every code file in the input directory",
	Long: `The process command scans the input directory for code files (.csv, .txt,
.xlsx), decodes every barcode they contain and writes one XML and one XLSX
report for the run.

Files are read concurrently. A file that cannot be read does not stop the run
unless continue_on_error is disabled.

On success:
  - Reports are placed in the output directory and copied to output_archive
  - Input files are moved to input_archive

On error:
  - An error log is created in the output directory
  - The unreadable file remains in the input directory`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Simulate processing without writing output files",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command) error {
	cfg := appConfig
	out := cmd.OutOrStdout()

	style, err := digitable.ParseStyle(cfg.OutputFormat)
	if err != nil {
		return err
	}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	fm.UseTimestampSubdirs = cfg.ArchiveTimestampSubdirs
	if !dryRun {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
	}

	var files []string
	if filePath != "" {
		if !utils.FileExists(filePath) {
			return fmt.Errorf("file not found: %s", filePath)
		}
		files = []string{filePath}
	} else {
		files, err = fm.DiscoverInputFiles(cfg.InputPatterns)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No code files found in the input directory.")
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(files))

	processor := batch.New(fm, batch.Options{
		CodeFile:         codefile.Options{Column: cfg.CodeColumn, Delimiter: cfg.CSVDelimiter},
		Style:            style,
		MaxConcurrency:   cfg.MaxConcurrency,
		ContinueOnError:  cfg.ShouldContinueOnError(),
		Archive:          cfg.ShouldArchive(),
		WriteXML:         cfg.XMLEnabled(),
		WriteXLSX:        cfg.XLSXEnabled(),
		ReportNameFormat: cfg.ReportNameFormat,
		DryRun:           dryRun,
	}, appLogger)

	summary, runErr := processor.Run(cmd.Context(), files)
	printSummary(cmd, summary)
	return runErr
}

// printSummary writes the per-file outcome and the run totals.
func printSummary(cmd *cobra.Command, summary *batch.Summary) {
	out := cmd.OutOrStdout()

	for _, f := range summary.Files {
		if f.Path == "" {
			continue
		}
		if f.OK() {
			okColor.Fprintf(out, "  ✓ %s", filepath.Base(f.Path))
			fmt.Fprintf(out, " (%d codes)\n", len(f.Rows))
		} else {
			unknownColor.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(f.Path), f.Err)
		}
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Run ID:          %s\n", summary.RunID)
	fmt.Fprintf(out, "Total files:     %d\n", len(summary.Files))
	fmt.Fprintf(out, "Failed files:    %d\n", len(summary.Failed()))
	fmt.Fprintf(out, "Total codes:     %d\n", len(summary.Rows()))

	types := make([]string, 0, len(summary.CountsByType))
	for t := range summary.CountsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(out, "  %-22s %d\n", t+":", summary.CountsByType[t])
	}

	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	for _, r := range summary.Reports {
		fmt.Fprintf(out, "Report:          %s\n", r)
	}
	if summary.ErrorLog != "" {
		fmt.Fprintf(out, "Error log:       %s\n", summary.ErrorLog)
	}
	if dryRun {
		fmt.Fprintln(out, "Dry run: no files were written or moved.")
	}
}
