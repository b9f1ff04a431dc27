// =============================================================================
// Boleto Line Reader - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (boleto)
//   ├── decodeCmd  (boleto decode)
//   ├── scanCmd    (boleto scan)
//   ├── processCmd (boleto process)
//   └── versionCmd (boleto version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads .env into the environment when present
//   2. Loads the main configuration (--config, then BOLETO_ overrides)
//   3. Builds the logger (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/boleto-line-reader/internal/config"
	"github.com/ginjaninja78/boleto-line-reader/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// appConfig and appLogger are set by the root command's PersistentPreRunE.
var (
	appConfig *config.MainConfig
	appLogger *slog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "boleto",
	Short: "Boleto Line Reader - Convert payment slip barcodes into digitable lines",
	Long: `Boleto Line Reader turns the 44-digit barcode of a Brazilian payment slip
into the digitable line a person types at a bank.

Both payment guide families are understood:
  - Collection guides (utilities, taxes), barcodes starting with 8
  - Transfer guides (bank slips), every other barcode

Example Usage:
  boleto decode 23791989300000035003509090103764462000013100
  boleto decode --format spaced --json 81710000000115503062024121603060009841431124
  boleto scan slip.png
  boleto process --config ./config.yaml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help() //nolint:errcheck
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command until it finishes or the process is
// interrupted. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initApp loads configuration and builds the logger.
func initApp(cmd *cobra.Command) error {
	if _, err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	appConfig = cfg
	appLogger = logger.New(cmd.ErrOrStderr(), logger.Options{
		Level:  level,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(appLogger)

	appLogger.Debug("configuration loaded", "config", cfgFile, "command", cmd.Name())
	return nil
}
