// =============================================================================
// Boleto Line Reader - Report Writer
// =============================================================================
//
// This module writes the outcome of a batch run. Every payload read from an
// input file becomes one Row, whatever its classification; rows are written
// in input order to an XML document and to a one-sheet XLSX workbook.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <boletos run="2f1c..." generated="2026-10-14T09:30:00Z" count="2">
//     <boleto n="1">
//       <source>codes.csv</source>
//       <line>2</line>
//       <payload>8171...</payload>
//       <type>collection_guide</type>
//       <digitableLine>8171...</digitableLine>
//       <amount>11.55</amount>
//       <generalDigitOK>true</generalDigitOK>
//     </boleto>
//     <boleto n="2">
//       ...
//       <type>invalid_check_digit</type>
//       <error>invalid check digit 0</error>
//     </boleto>
//   </boletos>
//
// =============================================================================

package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/boleto-line-reader/internal/digitable"
	"github.com/ginjaninja78/boleto-line-reader/internal/guide"
)

// dateLayout renders due dates in reports.
const dateLayout = "2006-01-02"

// =============================================================================
// REPORT ROW
// =============================================================================

// Row is the report view of one decoded payload.
type Row struct {
	Source         string `json:"source"`
	Line           int    `json:"line"`
	Payload        string `json:"payload"`
	Type           string `json:"type"`
	DigitableLine  string `json:"digitable_line,omitempty"`
	Amount         string `json:"amount,omitempty"`
	DueDate        string `json:"due_date,omitempty"`
	GeneralDigitOK string `json:"general_digit_ok,omitempty"`
	Error          string `json:"error,omitempty"`
}

// NewRow renders res into a Row using the given digitable line style.
func NewRow(source string, line int, res guide.Result, style digitable.Style) Row {
	row := Row{
		Source:  source,
		Line:    line,
		Payload: res.Payload,
		Type:    res.Type.String(),
	}

	switch {
	case res.Collection != nil:
		row.Amount = res.Collection.Amount().StringFixed(2)
		row.GeneralDigitOK = strconv.FormatBool(res.Collection.GeneralDigitOK)
	case res.Transfer != nil:
		row.Amount = res.Transfer.Amount().StringFixed(2)
		row.DueDate = res.Transfer.DueDate().Format(dateLayout)
		row.GeneralDigitOK = strconv.FormatBool(res.Transfer.GeneralDigitOK)
	}

	if rendered, err := digitable.Format(res, style); err == nil {
		row.DigitableLine = rendered
	}
	if res.Err != nil {
		row.Error = res.Err.Error()
	}

	return row
}

// Meta describes the run a report belongs to.
type Meta struct {
	RunID     string
	Generated time.Time
}

// =============================================================================
// XML
// =============================================================================

type xmlDocument struct {
	XMLName   xml.Name `xml:"boletos"`
	RunID     string   `xml:"run,attr,omitempty"`
	Generated string   `xml:"generated,attr"`
	Count     int      `xml:"count,attr"`
	Boletos   []xmlRow `xml:"boleto"`
}

type xmlRow struct {
	N              int    `xml:"n,attr"`
	Source         string `xml:"source"`
	Line           int    `xml:"line"`
	Payload        string `xml:"payload"`
	Type           string `xml:"type"`
	DigitableLine  string `xml:"digitableLine,omitempty"`
	Amount         string `xml:"amount,omitempty"`
	DueDate        string `xml:"dueDate,omitempty"`
	GeneralDigitOK string `xml:"generalDigitOK,omitempty"`
	Error          string `xml:"error,omitempty"`
}

// MarshalXML renders rows as an indented XML document with declaration.
func MarshalXML(rows []Row, meta Meta) ([]byte, error) {
	doc := xmlDocument{
		RunID:     meta.RunID,
		Generated: meta.Generated.UTC().Format(time.RFC3339),
		Count:     len(rows),
		Boletos:   make([]xmlRow, len(rows)),
	}
	for i, r := range rows {
		doc.Boletos[i] = xmlRow{
			N:              i + 1,
			Source:         r.Source,
			Line:           r.Line,
			Payload:        r.Payload,
			Type:           r.Type,
			DigitableLine:  r.DigitableLine,
			Amount:         r.Amount,
			DueDate:        r.DueDate,
			GeneralDigitOK: r.GeneralDigitOK,
			Error:          r.Error,
		}
	}

	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)

	encoder := xml.NewEncoder(&buffer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	buffer.WriteByte('\n')

	return buffer.Bytes(), nil
}

// WriteXML writes the XML report to path.
func WriteXML(path string, rows []Row, meta Meta) error {
	data, err := MarshalXML(rows, meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write XML report: %w", err)
	}
	return nil
}

// =============================================================================
// XLSX
// =============================================================================

// SheetName is the worksheet holding report rows.
const SheetName = "Boletos"

// Header is the first row of the XLSX report.
var Header = []string{
	"Source", "Line", "Payload", "Type", "Digitable Line",
	"Amount", "Due Date", "General Digit OK", "Error",
}

// WriteXLSX writes the XLSX report to path.
func WriteXLSX(path string, rows []Row) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Source, r.Line, r.Payload, r.Type, r.DigitableLine,
			r.Amount, r.DueDate, r.GeneralDigitOK, r.Error,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX report: %w", err)
	}
	return nil
}
