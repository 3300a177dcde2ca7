// Package report regenerates attendance history exports from the same
// filter predicate the history endpoint uses.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusattend/internal/attendance"
)

// PDFRowCap bounds the PDF export; spreadsheets carry the full result set.
const PDFRowCap = 1000

// Format identifies an export encoding.
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Export is a fully generated document ready to stream.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// HistorySource supplies the unpaginated filtered rows.
type HistorySource interface {
	HistoryAll(ctx context.Context, f attendance.HistoryFilter, cap int) ([]attendance.HistoryRecord, error)
}

// Service builds export documents.
type Service struct {
	source HistorySource
}

// NewService creates a report service.
func NewService(source HistorySource) *Service {
	return &Service{source: source}
}

// Build re-runs the filter and renders the requested document. The document
// is complete before this returns; callers write headers only on success.
func (s *Service) Build(ctx context.Context, f attendance.HistoryFilter, format Format) (Export, error) {
	today := time.Now().Format("2006-01-02")

	switch format {
	case FormatExcel:
		records, err := s.source.HistoryAll(ctx, f, 0)
		if err != nil {
			return Export{}, err
		}
		data, err := BuildExcel(records)
		if err != nil {
			return Export{}, err
		}
		return Export{
			Filename:    fmt.Sprintf("attendance_history_%s.xlsx", today),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil

	case FormatPDF:
		records, err := s.source.HistoryAll(ctx, f, PDFRowCap)
		if err != nil {
			return Export{}, err
		}
		data, err := BuildPDF(records, describeFilter(f))
		if err != nil {
			return Export{}, err
		}
		return Export{
			Filename:    fmt.Sprintf("attendance_history_%s.pdf", today),
			ContentType: "application/pdf",
			Data:        data,
		}, nil

	default:
		return Export{}, fmt.Errorf("unsupported export format %q", format)
	}
}

// describeFilter summarizes active filters for the PDF header.
func describeFilter(f attendance.HistoryFilter) string {
	var parts []string
	if f.ClassID != "" && f.ClassID != "all" {
		parts = append(parts, "Class: "+f.ClassID)
	}
	if f.Status != "" && f.Status != "all" {
		parts = append(parts, "Status: "+f.Status)
	}
	if f.StartDate != "" {
		parts = append(parts, "From: "+f.StartDate)
	}
	if f.EndDate != "" {
		parts = append(parts, "To: "+f.EndDate)
	}
	if f.Search != "" {
		parts = append(parts, "Search: "+f.Search)
	}
	return strings.Join(parts, ", ")
}
