// =============================================================================
// Boleto Line Reader - Code File Reader
// =============================================================================
//
// This module reads barcode payloads out of the files dropped into the input
// directory. Three formats are understood, selected by file extension:
//
//   .csv   - delimited text; codes are taken from the configured column
//   .txt   - one code per line
//   .xlsx  - first worksheet; codes are taken from the configured column
//
// COLUMN LOOKUP (CSV and XLSX):
//   The first row is a header row when one of its cells matches the
//   configured column name (case-insensitive). Otherwise the file has no
//   header, every row is data, and codes are read from the first column.
//
// Blank cells and blank lines are skipped. Payloads are trimmed but not
// otherwise validated; classification belongs to the decoding core.
//
// =============================================================================

package codefile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions Read does not know.
var ErrUnsupportedFormat = errors.New("unsupported code file format")

// Entry is one payload read from a code file.
type Entry struct {
	// Source is the path of the file the payload came from.
	Source string

	// Line is the 1-based row or line number of the payload.
	Line int

	// Payload is the trimmed cell or line content.
	Payload string
}

// Options controls how code files are read.
type Options struct {
	// Column is the header naming the column that holds codes.
	Column string

	// Delimiter is the CSV field separator. Accepts a single character or
	// one of "tab", "pipe", "semicolon". Default: comma.
	Delimiter string
}

// Read returns every payload in the file at path.
func Read(path string, opts Options) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path, opts)
	case ".txt":
		return readText(path)
	case ".xlsx":
		return readXLSX(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// =============================================================================
// CSV
// =============================================================================

func readCSV(path string, opts Options) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = delimiter(opts.Delimiter)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return fromRows(path, rows, opts.Column), nil
}

// delimiter maps the configured delimiter name to a rune.
func delimiter(name string) rune {
	switch name {
	case "\\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	case "":
		return ','
	default:
		return rune(name[0])
	}
}

// =============================================================================
// TEXT
// =============================================================================

func readText(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return scanLines(path, file)
}

func scanLines(source string, r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		payload := strings.TrimSpace(scanner.Text())
		if payload == "" {
			continue
		}
		entries = append(entries, Entry{Source: source, Line: line, Payload: payload})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}

	return entries, nil
}

// =============================================================================
// XLSX
// =============================================================================

func readXLSX(path string, opts Options) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return fromRows(path, rows, opts.Column), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// fromRows extracts payloads from tabular rows using the column lookup rule.
func fromRows(source string, rows [][]string, column string) []Entry {
	if len(rows) == 0 {
		return nil
	}

	col, start := 0, 0
	if idx := headerIndex(rows[0], column); idx >= 0 {
		col, start = idx, 1
	}

	var entries []Entry
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if col >= len(row) {
			continue
		}
		payload := strings.TrimSpace(row[col])
		if payload == "" {
			continue
		}
		entries = append(entries, Entry{Source: source, Line: i + 1, Payload: payload})
	}

	return entries
}

// headerIndex returns the position of column in header, or -1.
func headerIndex(header []string, column string) int {
	if column == "" {
		return -1
	}
	for i, cell := range header {
		if strings.EqualFold(strings.TrimSpace(cell), column) {
			return i
		}
	}
	return -1
}
