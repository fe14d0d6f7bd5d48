package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Row is one processed document in the export workbook.
type Row struct {
	Filename       string
	Category       string
	Confidence     float32
	ExpirationDate *time.Time
	RenewalDate    *time.Time
	PolicyNumber   string
	AccountNumber  string
	Amount         *float64
	Currency       string
	Email          string
	Phone          string
	SourcePath     string
	ProcessedAt    time.Time
}

const sheet = "Documents"

var headers = []string{
	"Filename",
	"Category",
	"Confidence",
	"Expiration Date",
	"Renewal Date",
	"Policy Number",
	"Account Number",
	"Amount",
	"Currency",
	"Email",
	"Phone",
	"Source Path",
	"Processed At",
}

// DocumentsXLSX renders processed documents into an XLSX workbook.
func DocumentsXLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Filename)
		write(2, r.Category)
		write(3, fmt.Sprintf("%.1f", r.Confidence))
		write(4, formatDate(r.ExpirationDate))
		write(5, formatDate(r.RenewalDate))
		write(6, r.PolicyNumber)
		write(7, r.AccountNumber)
		if r.Amount != nil {
			write(8, fmt.Sprintf("%.2f", *r.Amount))
		}
		write(9, r.Currency)
		write(10, r.Email)
		write(11, r.Phone)
		write(12, r.SourcePath)
		if !r.ProcessedAt.IsZero() {
			write(13, r.ProcessedAt.UTC().Format(time.RFC3339))
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 28) // filename
	_ = f.SetColWidth(sheet, "B", "B", 20) // category
	_ = f.SetColWidth(sheet, "D", "E", 14) // dates
	_ = f.SetColWidth(sheet, "F", "G", 18) // numbers
	_ = f.SetColWidth(sheet, "L", "L", 60) // path
	_ = f.SetColWidth(sheet, "M", "M", 22) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
