package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMainConfigDefaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, []string{"*.csv", "*.txt", "*.xlsx"}, cfg.InputPatterns)
	assert.Equal(t, "code", cfg.CodeColumn)
	assert.Equal(t, ",", cfg.CSVDelimiter)
	assert.False(t, cfg.ArchiveTimestampSubdirs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "compact", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.True(t, cfg.XMLEnabled())
	assert.True(t, cfg.XLSXEnabled())
	assert.True(t, cfg.ShouldContinueOnError())
	assert.True(t, cfg.ShouldArchive())
}

func TestLoadMainConfigFromYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
input_dir: /data/in
output_dir: /data/out
input_patterns: ["*.txt"]
code_column: barcode
csv_delimiter: semicolon
archive_timestamp_subdirs: true
log_level: debug
log_format: json
output_format: spaced
max_concurrency: 2
write_xlsx: false
archive_on_success: false
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.InputDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, "./input_archive", cfg.InputArchiveDir)
	assert.Equal(t, []string{"*.txt"}, cfg.InputPatterns)
	assert.Equal(t, "barcode", cfg.CodeColumn)
	assert.Equal(t, "semicolon", cfg.CSVDelimiter)
	assert.True(t, cfg.ArchiveTimestampSubdirs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "spaced", cfg.OutputFormat)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.True(t, cfg.XMLEnabled())
	assert.False(t, cfg.XLSXEnabled())
	assert.False(t, cfg.ShouldArchive())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "output_format: spaced\nmax_concurrency: 2\n")

	t.Setenv("BOLETO_OUTPUT_FORMAT", "compact")
	t.Setenv("BOLETO_MAX_CONCURRENCY", "8")
	t.Setenv("BOLETO_WRITE_XML", "false")
	t.Setenv("BOLETO_CSV_DELIMITER", "pipe")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "compact", cfg.OutputFormat)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.False(t, cfg.XMLEnabled())
	assert.Equal(t, "pipe", cfg.CSVDelimiter)
}

func TestLoadMainConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"log level":     "log_level: verbose\n",
		"log format":    "log_format: xml\n",
		"output format": "output_format: dotted\n",
		"concurrency":   "max_concurrency: -1\n",
		"malformed":     "input_dir: [unterminated\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", content)
			_, err := LoadMainConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMainConfigRejectsMalformedEnv(t *testing.T) {
	t.Setenv("BOLETO_MAX_CONCURRENCY", "lots")

	_, err := LoadMainConfig("")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	loaded, err := LoadDotEnv(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.False(t, loaded)

	path := writeFile(t, dir, ".env", "BOLETO_CODE_COLUMN=linha\n")
	t.Cleanup(func() { os.Unsetenv("BOLETO_CODE_COLUMN") }) //nolint:errcheck

	loaded, err = LoadDotEnv(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "linha", os.Getenv("BOLETO_CODE_COLUMN"))
}
