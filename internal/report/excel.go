package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"campusattend/internal/attendance"
)

var excelColumns = []struct {
	header string
	width  float64
}{
	{"Date", 15},
	{"Time", 10},
	{"NIM", 15},
	{"Student Name", 25},
	{"Course", 25},
	{"Code", 10},
	{"Class", 15},
	{"Room", 15},
	{"Status", 12},
	{"Method", 20},
	{"Verified By", 20},
	{"Notes", 30},
}

// BuildExcel renders the full-column spreadsheet entirely in memory.
func BuildExcel(records []attendance.HistoryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance History"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, col := range excelColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s1", name), col.header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6FA"}},
	})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.ColumnNumberToName(len(excelColumns))
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.AttendanceDate.Format("2006-01-02"),
			orDash(rec.AttendanceTime),
			rec.StudentNIM,
			rec.StudentName,
			rec.CourseName,
			rec.CourseCode,
			rec.ClassName,
			orDash(rec.RoomName),
			rec.Status,
			orDash(rec.Method),
			orDash(rec.VerifiedBy),
			orDash(rec.Notes),
		}
		for j, v := range values {
			name, _ := excelize.ColumnNumberToName(j + 1)
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", name, row), v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
