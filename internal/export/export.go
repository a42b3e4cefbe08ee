// Package export renders transaction lists as downloadable CSV, PDF, and
// XLSX documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"bloomledger/internal/core"
)

// Format identifies a supported export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for formats other than csv, pdf, and xlsx.
var ErrUnknownFormat = fmt.Errorf("unknown export format")

// ContentType returns the MIME type to serve the format with.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

var header = []string{"Date", "Category", "Details", "Type", "Amount", "Status", "Owner", "Due Date"}

func row(t core.Transaction) []string {
	return []string{
		t.Date.DisplayDate(),
		t.Category,
		t.Details,
		string(t.Type),
		t.Amount.FormatKsh(),
		string(t.Status),
		t.Owner(),
		t.DueDate.DisplayDate(),
	}
}

// Build renders the transactions in the requested format.
func Build(format Format, title string, txs []core.Transaction) ([]byte, error) {
	switch format {
	case FormatCSV:
		return BuildCSV(txs)
	case FormatPDF:
		return BuildPDF(title, txs)
	case FormatXLSX:
		return BuildXLSX(title, txs)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// BuildCSV renders the transactions as a CSV document with a header row.
func BuildCSV(txs []core.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, t := range txs {
		if err := w.Write(row(t)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a minimal PDF listing of the transactions.
func BuildPDF(title string, txs []core.Transaction) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	widths := []float64{28, 45, 55, 22, 30, 26, 30, 28}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, t := range txs {
		for i, cell := range row(t) {
			align := "L"
			if header[i] == "Amount" {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the transactions as a single-sheet workbook.
func BuildXLSX(title string, txs []core.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Transactions"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", title)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, t := range txs {
		for c, v := range row(t) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+4)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
