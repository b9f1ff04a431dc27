// =============================================================================
// Boleto Line Reader - Scan Command
// =============================================================================
//
// COMMAND USAGE:
//   boleto scan <image>... [flags]
//
// Each image is run through the optical decoder. The first non-empty payload
// found is decoded like an argument of 'boleto decode'; an image without a
// readable symbol is reported as "no barcode detected".
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/boleto-line-reader/internal/guide"
	"github.com/ginjaninja78/boleto-line-reader/internal/report"
	"github.com/ginjaninja78/boleto-line-reader/internal/scanner"
)

var (
	scanFormat string
	scanJSON   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <image>...",
	Short: "Read barcodes from PNG, JPEG or GIF images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, err := resolveStyle(scanFormat)
		if err != nil {
			return err
		}

		decoder := scanner.NewZXing(appLogger)
		out := cmd.OutOrStdout()

		var rows []report.Row
		for _, path := range args {
			payloads, err := scanner.DecodeFile(cmd.Context(), decoder, path)
			if err != nil {
				return err
			}

			payload, ok := scanner.FirstPayload(payloads)
			if !ok {
				appLogger.Info("no barcode detected", "image", path)
				if !scanJSON {
					unknownColor.Fprintf(out, "✗ %s: no barcode detected\n", filepath.Base(path))
				}
				continue
			}

			row := report.NewRow(filepath.Base(path), 1, guide.Decode(payload), style)
			rows = append(rows, row)
			if !scanJSON {
				fmt.Fprintf(out, "%s\n", labelColor.Sprint(filepath.Base(path)))
				printRow(out, row)
			}
		}

		if scanJSON {
			if rows == nil {
				rows = []report.Row{}
			}
			return writeJSON(out, rows)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanFormat, "format", "", "Digitable line style: compact or spaced (default from config)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print results as JSON")
}
