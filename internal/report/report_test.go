package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusattend/internal/attendance"
)

type stubSource struct {
	records []attendance.HistoryRecord
	lastCap int
}

func (s *stubSource) HistoryAll(_ context.Context, _ attendance.HistoryFilter, cap int) ([]attendance.HistoryRecord, error) {
	s.lastCap = cap
	return s.records, nil
}

func sampleRecords(n int) []attendance.HistoryRecord {
	records := make([]attendance.HistoryRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, attendance.HistoryRecord{
			ID:             "rec",
			AttendanceDate: time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC),
			AttendanceTime: "08:15",
			Status:         "present",
			StudentNIM:     "2110101",
			StudentName:    "A Student With A Fairly Long Name That Gets Truncated",
			CourseName:     "Introduction to Distributed Systems Engineering",
			CourseCode:     "CS401",
			ClassName:      "A",
			Method:         "face",
			VerifiedBy:     "System",
		})
	}
	return records
}

func TestBuildExcel(t *testing.T) {
	src := &stubSource{records: sampleRecords(3)}
	svc := NewService(src)

	export, err := svc.Build(context.Background(), attendance.HistoryFilter{}, FormatExcel)
	require.NoError(t, err)

	assert.Equal(t, 0, src.lastCap, "excel export is uncapped")
	assert.Contains(t, export.Filename, ".xlsx")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.ContentType)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(export.Data, []byte("PK")), "xlsx payload must be a zip")
}

func TestBuildPDFCapsRows(t *testing.T) {
	src := &stubSource{records: sampleRecords(40)}
	svc := NewService(src)

	export, err := svc.Build(context.Background(), attendance.HistoryFilter{Status: "late", Search: "budi"}, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, PDFRowCap, src.lastCap)
	assert.Contains(t, export.Filename, ".pdf")
	assert.Equal(t, "application/pdf", export.ContentType)
	assert.True(t, bytes.HasPrefix(export.Data, []byte("%PDF")), "payload must be a well-formed PDF")
}

func TestBuildRejectsUnknownFormat(t *testing.T) {
	svc := NewService(&stubSource{})
	_, err := svc.Build(context.Background(), attendance.HistoryFilter{}, Format("csv"))
	assert.Error(t, err)
}

func TestBuildEmptyResultStillRenders(t *testing.T) {
	svc := NewService(&stubSource{})
	export, err := svc.Build(context.Background(), attendance.HistoryFilter{}, FormatPDF)
	require.NoError(t, err)
	assert.NotEmpty(t, export.Data)
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd", truncate("abcdef", 4))
	// multi-byte names must not be cut mid-rune
	assert.Equal(t, "Андрій Ков", truncate("Андрій Коваленко", 10))
	assert.Equal(t, "ブディ・サント", truncate("ブディ・サントソ", 7))
}

func TestDescribeFilter(t *testing.T) {
	assert.Empty(t, describeFilter(attendance.HistoryFilter{Status: "all"}))
	desc := describeFilter(attendance.HistoryFilter{Status: "present", StartDate: "2026-01-01"})
	assert.Equal(t, "Status: present, From: 2026-01-01", desc)
}
