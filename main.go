// =============================================================================
// Boleto Line Reader - Main Entry Point
// =============================================================================
//
// USAGE:
//   boleto decode <code>...  - Print the digitable line of each barcode
//   boleto scan <image>...   - Read barcodes from images and decode them
//   boleto process           - Decode every code file in the input directory
//   boleto version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : decoding core, file readers, reports, batch processing
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/boleto-line-reader/cmd"
)

func main() {
	cmd.Execute()
}
