// =============================================================================
// Boleto Line Reader - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are resolved in
// three layers, each overriding the previous one:
//
//   1. Built-in defaults
//   2. The YAML file passed with --config (config.yaml by default)
//   3. Environment variables prefixed with BOLETO_, optionally from .env
//
// A missing configuration file is not an error; defaults apply.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "BOLETO"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for code files by the process command.
	// Default: "./input"
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR"`

	// OutputDir receives reports and error logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// InputArchiveDir receives input files after they were processed.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" envconfig:"INPUT_ARCHIVE_DIR"`

	// OutputArchiveDir receives a copy of every report.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir" envconfig:"OUTPUT_ARCHIVE_DIR"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputPatterns are glob patterns matched against file names in InputDir.
	// Default: ["*.csv", "*.txt", "*.xlsx"]
	InputPatterns []string `yaml:"input_patterns" envconfig:"INPUT_PATTERNS"`

	// CodeColumn is the header of the column holding codes in CSV and XLSX
	// files. Files without that header use their first column.
	// Default: "code"
	CodeColumn string `yaml:"code_column" envconfig:"CODE_COLUMN"`

	// CSVDelimiter separates CSV fields. A single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter" envconfig:"CSV_DELIMITER"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// LogFormat selects the log formatter: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is the digitable line style: "compact" or "spaced".
	// Default: "compact"
	OutputFormat string `yaml:"output_format" envconfig:"OUTPUT_FORMAT"`

	// ReportNameFormat names report files. Placeholders:
	//   {uuid}      - the run ID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - current date (YYYYMMDD)
	// Default: "boletos_{timestamp}_{uuid}"
	ReportNameFormat string `yaml:"report_name_format" envconfig:"REPORT_NAME_FORMAT"`

	// WriteXML enables the XML report.
	// Default: true
	WriteXML *bool `yaml:"write_xml" envconfig:"WRITE_XML"`

	// WriteXLSX enables the XLSX report.
	// Default: true
	WriteXLSX *bool `yaml:"write_xlsx" envconfig:"WRITE_XLSX"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files read concurrently.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY"`

	// ContinueOnError keeps processing other files when one cannot be read.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error" envconfig:"CONTINUE_ON_ERROR"`

	// ArchiveOnSuccess moves input files to InputArchiveDir once processed.
	// Default: true
	ArchiveOnSuccess *bool `yaml:"archive_on_success" envconfig:"ARCHIVE_ON_SUCCESS"`

	// ArchiveTimestampSubdirs files archived inputs and reports under
	// YYYY/MM/DD subdirectories of the archive directories.
	// Default: false
	ArchiveTimestampSubdirs bool `yaml:"archive_timestamp_subdirs" envconfig:"ARCHIVE_TIMESTAMP_SUBDIRS"`
}

// XMLEnabled reports whether the XML report is written.
func (c *MainConfig) XMLEnabled() bool { return boolValue(c.WriteXML) }

// XLSXEnabled reports whether the XLSX report is written.
func (c *MainConfig) XLSXEnabled() bool { return boolValue(c.WriteXLSX) }

// ShouldContinueOnError reports whether unreadable files are skipped.
func (c *MainConfig) ShouldContinueOnError() bool { return boolValue(c.ContinueOnError) }

// ShouldArchive reports whether processed inputs are archived.
func (c *MainConfig) ShouldArchive() bool { return boolValue(c.ArchiveOnSuccess) }

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var cfg MainConfig
	applyMainConfigDefaults(&cfg)
	return &cfg
}

// LoadMainConfig loads the configuration from configPath and the
// environment.
//
// RETURNS:
//   - The resolved configuration.
//   - An error if the file exists but cannot be parsed, an environment
//     override is malformed, or a value is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, err
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is reported as false without error.
func LoadDotEnv(paths ...string) (bool, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false, nil
		}
	}
	if err := godotenv.Load(paths...); err != nil {
		return false, fmt.Errorf("failed to load env file: %w", err)
	}
	return true, nil
}

func applyEnvOverrides(config *MainConfig) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if len(config.InputPatterns) == 0 {
		config.InputPatterns = []string{"*.csv", "*.txt", "*.xlsx"}
	}
	if config.CodeColumn == "" {
		config.CodeColumn = "code"
	}
	if config.CSVDelimiter == "" {
		config.CSVDelimiter = ","
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "compact"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "boletos_{timestamp}_{uuid}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.WriteXML == nil {
		config.WriteXML = boolPtr(true)
	}
	if config.WriteXLSX == nil {
		config.WriteXLSX = boolPtr(true)
	}
	if config.ContinueOnError == nil {
		config.ContinueOnError = boolPtr(true)
	}
	if config.ArchiveOnSuccess == nil {
		config.ArchiveOnSuccess = boolPtr(true)
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", config.LogLevel)
	}

	switch strings.ToLower(config.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q is not one of text, json", config.LogFormat)
	}

	switch strings.ToLower(config.OutputFormat) {
	case "compact", "spaced":
	default:
		return fmt.Errorf("output_format %q is not one of compact, spaced", config.OutputFormat)
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}

	return nil
}

func boolPtr(b bool) *bool { return &b }

func boolValue(b *bool) bool { return b != nil && *b }
