package codefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	collectionCode = "81770000000010936599704113107970300143370831"
	transferCode   = "23799989300000035000131090000000422665215281"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func payloads(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Payload
	}
	return out
}

func TestReadCSVWithHeader(t *testing.T) {
	path := write(t, "codes.csv", strings.Join([]string{
		"id,Code,note",
		"1," + collectionCode + ",water",
		"2,,empty",
		"3, " + transferCode + " ,slip",
	}, "\n"))

	entries, err := Read(path, Options{Column: "code"})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Source: path, Line: 2, Payload: collectionCode}, entries[0])
	assert.Equal(t, Entry{Source: path, Line: 4, Payload: transferCode}, entries[1])
}

func TestReadCSVWithoutHeaderUsesFirstColumn(t *testing.T) {
	path := write(t, "codes.csv", collectionCode+";a\n"+transferCode+";b\n")

	entries, err := Read(path, Options{Column: "code", Delimiter: "semicolon"})
	require.NoError(t, err)
	assert.Equal(t, []string{collectionCode, transferCode}, payloads(entries))
	assert.Equal(t, 1, entries[0].Line)
}

func TestReadText(t *testing.T) {
	path := write(t, "codes.TXT", collectionCode+"\n\n   \n"+transferCode+"\r\nnot a code\n")

	entries, err := Read(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{collectionCode, transferCode, "not a code"}, payloads(entries))
	assert.Equal(t, []int{1, 4, 5}, []int{entries[0].Line, entries[1].Line, entries[2].Line})
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"payer", "barcode"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"utility", collectionCode}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"bank", transferCode}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	entries, err := Read(path, Options{Column: "Barcode"})
	require.NoError(t, err)
	assert.Equal(t, []string{collectionCode, transferCode}, payloads(entries))
	assert.Equal(t, 3, entries[1].Line)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(write(t, "codes.json", "[]"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Read(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err)

	_, err = Read(write(t, "broken.xlsx", "not a zip"), Options{})
	assert.Error(t, err)
}

func TestDelimiter(t *testing.T) {
	tests := map[string]rune{
		"":          ',',
		",":         ',',
		"tab":       '\t',
		"\\t":       '\t',
		"pipe":      '|',
		"semicolon": ';',
		"#":         '#',
	}
	for name, want := range tests {
		assert.Equal(t, want, delimiter(name), "delimiter %q", name)
	}
}
