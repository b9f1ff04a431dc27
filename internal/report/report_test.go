package report

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/boleto-line-reader/internal/digitable"
	"github.com/ginjaninja78/boleto-line-reader/internal/guide"
)

const (
	collectionCode   = "81710000000115503062024121603060009841431124"
	transferCode     = "23791989300000035003509090103764462000013100"
	zeroDigitCode    = "23790989300000035003509090103764462000013100"
	unrecognizedText = "hello"
)

func sampleRows() []Row {
	return []Row{
		NewRow("codes.csv", 2, guide.Decode(collectionCode), digitable.StyleCompact),
		NewRow("codes.csv", 3, guide.Decode(transferCode), digitable.StyleSpaced),
		NewRow("codes.csv", 4, guide.Decode(zeroDigitCode), digitable.StyleCompact),
		NewRow("codes.csv", 5, guide.Decode(unrecognizedText), digitable.StyleCompact),
	}
}

func TestNewRow(t *testing.T) {
	rows := sampleRows()

	assert.Equal(t, Row{
		Source:         "codes.csv",
		Line:           2,
		Payload:        collectionCode,
		Type:           "collection_guide",
		DigitableLine:  "817100000006115503062024412160306004098414311245",
		Amount:         "11.55",
		GeneralDigitOK: "true",
	}, rows[0])

	assert.Equal(t, Row{
		Source:         "codes.csv",
		Line:           3,
		Payload:        transferCode,
		Type:           "transfer_guide",
		DigitableLine:  "23793.50909 90103.764461 20000.131001 1 98930000003500",
		Amount:         "35.00",
		DueDate:        "2024-11-07",
		GeneralDigitOK: "true",
	}, rows[1])

	assert.Equal(t, "invalid_check_digit", rows[2].Type)
	assert.Equal(t, "invalid check digit 0", rows[2].Error)
	assert.Empty(t, rows[2].DigitableLine)
	assert.Empty(t, rows[2].Amount)

	assert.Equal(t, Row{Source: "codes.csv", Line: 5, Payload: unrecognizedText, Type: "unrecognized"}, rows[3])
}

func TestMarshalXML(t *testing.T) {
	generated := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	data, err := MarshalXML(sampleRows(), Meta{RunID: "run-1", Generated: generated})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<boletos run="run-1" generated="2026-10-14T09:30:00Z" count="4">`)
	assert.Contains(t, out, `<boleto n="2">`)
	assert.Contains(t, out, "<dueDate>2024-11-07</dueDate>")
	assert.Contains(t, out, "<error>invalid check digit 0</error>")

	var doc xmlDocument
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Boletos, 4)
	assert.Equal(t, 4, doc.Boletos[3].N)
	assert.Equal(t, "unrecognized", doc.Boletos[3].Type)
	assert.Empty(t, doc.Boletos[3].Amount)
}

func TestWriteXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xml")
	require.NoError(t, WriteXML(path, nil, Meta{Generated: time.Now()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `count="0"`)

	assert.Error(t, WriteXML(filepath.Join(t.TempDir(), "missing", "report.xml"), nil, Meta{}))
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleRows()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, collectionCode, rows[1][2])
	assert.Equal(t, "transfer_guide", rows[2][3])
	assert.Equal(t, "2024-11-07", rows[2][6])
	assert.Equal(t, "invalid check digit 0", rows[3][8])
}
