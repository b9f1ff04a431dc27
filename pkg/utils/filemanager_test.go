package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "input"),
		filepath.Join(root, "output"),
		filepath.Join(root, "input_archive"),
		filepath.Join(root, "output_archive"),
	)
	fm.Now = func() time.Time { return fixedNow }
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEnsureDirectories(t *testing.T) {
	fm := newTestManager(t)
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir, fm.OutputArchiveDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestManager(t)
	touch(t, filepath.Join(fm.InputDir, "b.csv"), "")
	touch(t, filepath.Join(fm.InputDir, "a.txt"), "")
	touch(t, filepath.Join(fm.InputDir, "notes.md"), "")
	require.NoError(t, os.Mkdir(filepath.Join(fm.InputDir, "dir.csv"), 0o755))

	files, err := fm.DiscoverInputFiles([]string{"*.csv", "*.txt", "b.*"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(fm.InputDir, "a.txt"),
		filepath.Join(fm.InputDir, "b.csv"),
	}, files)

	_, err = fm.DiscoverInputFiles([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestArchiveInputFile(t *testing.T) {
	fm := newTestManager(t)
	src := filepath.Join(fm.InputDir, "codes.txt")
	touch(t, src, "8171")

	archived, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "codes.txt"), archived)
	assert.False(t, FileExists(src))
	data, err := os.ReadFile(archived)
	require.NoError(t, err)
	assert.Equal(t, "8171", string(data))
}

func TestArchiveOutputFileWithTimestampSubdirs(t *testing.T) {
	fm := newTestManager(t)
	fm.UseTimestampSubdirs = true
	src := filepath.Join(fm.OutputDir, "report.xml")
	touch(t, src, "<boletos/>")

	archived, err := fm.ArchiveOutputFile(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(fm.OutputArchiveDir, "2026", "10", "14", "report.xml"), archived)
	assert.True(t, FileExists(src))
	assert.True(t, FileExists(archived))
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("boletos_{timestamp}_{uuid}", ".xml", fixedNow, nil)
	assert.Regexp(t, regexp.MustCompile(`^boletos_20261014_093005_[0-9a-f-]{36}\.xml$`), name)

	name = GenerateOutputFileName("{date}_{uuid}_{time}.XML", ".xml", fixedNow, map[string]string{"uuid": "run"})
	assert.Equal(t, "20261014_run_093005.XML", name)

	assert.Equal(t, "plain", GenerateOutputFileName("plain", "", fixedNow, nil))
}

func TestWriteErrorLog(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteErrorLog(nil)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = fm.WriteErrorLog([]ErrorLogEntry{{
		Timestamp:    fixedNow,
		FileName:     "broken.xlsx",
		ErrorType:    "read_error",
		ErrorMessage: "failed to open workbook",
	}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputDir, "error_log_20261014_093005.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Errors: 1")
	assert.Contains(t, string(data), "broken.xlsx")
	assert.Contains(t, string(data), "failed to open workbook")
}

func TestWriteSummaryLog(t *testing.T) {
	fm := newTestManager(t)

	path, err := fm.WriteSummaryLog(ProcessingSummary{
		RunID:           "run-1",
		StartTime:       fixedNow,
		EndTime:         fixedNow.Add(2 * time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalCodes:      3,
		CountsByType:    map[string]int{"transfer_guide": 2, "unrecognized": 1},
		ReportFiles:     []string{"out/report.xml"},
		FailedFilesList: []FailedFileInfo{{InputFile: "broken.xlsx", ErrorMessage: "boom"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Run ID:         run-1")
	assert.Contains(t, out, "Duration:       2s")
	assert.Contains(t, out, "transfer_guide:")
	assert.Contains(t, out, "out/report.xml")
	assert.Contains(t, out, "Error: boom")
}
