package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"campusattend/internal/attendance"
)

// BuildPDF renders the abbreviated-column report entirely in memory so a
// generation failure never leaks a partial stream to the client.
func BuildPDF(records []attendance.HistoryRecord, filterInfo string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, "Attendance History Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, "Generated: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(5)
	if filterInfo != "" {
		pdf.Cell(0, 5, "Filters: "+filterInfo)
		pdf.Ln(5)
	}
	pdf.Ln(3)

	type column struct {
		header string
		width  float64
	}
	columns := []column{
		{"Date", 22},
		{"Time", 14},
		{"NIM", 24},
		{"Name", 42},
		{"Course", 46},
		{"Status", 18},
		{"Room", 22},
	}

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 250)
		for _, c := range columns {
			pdf.CellFormat(c.width, 6, c.header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 7)
	}
	writeHeader()

	for _, rec := range records {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			writeHeader()
		}
		cells := []string{
			rec.AttendanceDate.Format("2006-01-02"),
			orDash(rec.AttendanceTime),
			orDash(rec.StudentNIM),
			truncate(rec.StudentName, 24),
			truncate(rec.CourseName, 28),
			rec.Status,
			truncate(orDash(rec.RoomName), 12),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 5, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Total Records: %d", len(records)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate shortens s to max runes; slicing on bytes could split a
// multi-byte character in names.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
