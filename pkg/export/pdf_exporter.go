package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// DutyRow is one printed line of an invigilation sheet.
type DutyRow struct {
	Class        string
	Subject      string
	ExamType     string
	Invigilators string
	Status       string
}

// DutySheet is the printable assignment sheet for one (timeslot, room) pair.
// Sheets are rendered one per page so each room gets its own handout.
type DutySheet struct {
	Date   string
	Period string
	Room   string
	Rows   []DutyRow
}

// PDFExporter renders invigilation duty sheets with gofpdf.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

var dutyColumns = []struct {
	header string
	width  float64
}{
	{"Class", 40},
	{"Subject", 45},
	{"Exam Type", 30},
	{"Invigilators", 50},
	{"Status", 25},
}

// Render creates one page per duty sheet.
func (e *PDFExporter) Render(title string, sheets []DutySheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("pdf requires at least one duty sheet")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	for _, sheet := range sheets {
		pdf.AddPage()

		if title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
			pdf.Ln(2)
		}

		pdf.SetFont("Arial", "", 11)
		header := fmt.Sprintf("Date: %s    Period: %s    Room: %s", sheet.Date, sheet.Period, sheet.Room)
		pdf.CellFormat(0, 8, header, "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 10)
		for _, col := range dutyColumns {
			pdf.CellFormat(col.width, 8, col.header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range sheet.Rows {
			values := []string{row.Class, row.Subject, row.ExamType, row.Invigilators, row.Status}
			for i, col := range dutyColumns {
				pdf.CellFormat(col.width, 7, values[i], "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
