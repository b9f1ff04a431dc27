// =============================================================================
// Boleto Line Reader - Decode Command
// =============================================================================
//
// COMMAND USAGE:
//   boleto decode <code>... [flags]
//
// FLAGS:
//   --format : digitable line style, "compact" or "spaced"
//              (default: output_format from the configuration)
//   --json   : print the results as a JSON array
//
// Every argument is decoded independently. Invalid codes are reported on the
// output and do not make the command fail.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/boleto-line-reader/internal/digitable"
	"github.com/ginjaninja78/boleto-line-reader/internal/guide"
	"github.com/ginjaninja78/boleto-line-reader/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	decodeFormat string
	decodeJSON   bool
)

// =============================================================================
// DECODE COMMAND DEFINITION
// =============================================================================

var decodeCmd = &cobra.Command{
	Use:   "decode <code>...",
	Short: "Convert 44-digit barcodes into digitable lines",
	Long: `The decode command classifies each barcode as a collection guide or a
transfer guide, validates it and prints its digitable line together with the
amount, the due date (transfer guides) and the general check digit status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, err := resolveStyle(decodeFormat)
		if err != nil {
			return err
		}

		rows := make([]report.Row, len(args))
		for i, arg := range args {
			res := guide.Decode(arg)
			appLogger.Debug("decoded payload", "payload", arg, "type", res.Type.String())
			rows[i] = report.NewRow("argument", i+1, res, style)
		}

		out := cmd.OutOrStdout()
		if decodeJSON {
			return writeJSON(out, rows)
		}
		for _, row := range rows {
			printRow(out, row)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(
		&decodeFormat,
		"format",
		"",
		"Digitable line style: compact or spaced (default from config)",
	)

	decodeCmd.Flags().BoolVar(
		&decodeJSON,
		"json",
		false,
		"Print results as JSON",
	)
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

// resolveStyle parses the --format flag, falling back to the configuration.
func resolveStyle(flag string) (digitable.Style, error) {
	if flag == "" {
		flag = appConfig.OutputFormat
	}
	return digitable.ParseStyle(flag)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	invalidColor = color.New(color.FgYellow, color.Bold)
	unknownColor = color.New(color.FgRed, color.Bold)
	labelColor   = color.New(color.Faint)
)

// printRow writes one decoded row in the human-readable layout.
func printRow(w io.Writer, row report.Row) {
	switch row.Type {
	case guide.TypeCollectionGuide.String(), guide.TypeTransferGuide.String():
		okColor.Fprintf(w, "✓ %s\n", row.Type)
		fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("digitable line:"), row.DigitableLine)
		fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("amount:        "), row.Amount)
		if row.DueDate != "" {
			fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("due date:      "), row.DueDate)
		}
		if ok, err := strconv.ParseBool(row.GeneralDigitOK); err == nil && !ok {
			invalidColor.Fprintln(w, "  warning: general check digit does not match")
		}
	case guide.TypeUnrecognized.String():
		unknownColor.Fprintf(w, "✗ %s\n", row.Type)
		fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("payload:"), row.Payload)
	default:
		invalidColor.Fprintf(w, "✗ %s\n", row.Type)
		fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("error:"), row.Error)
	}
}
