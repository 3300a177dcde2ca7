package attendance

import (
	"fmt"
	"strings"
	"time"
)

// HistoryFilter narrows the attendance history listing. Empty or "all"
// values leave their dimension unfiltered; filters combine with AND.
type HistoryFilter struct {
	Page      int
	Limit     int
	ClassID   string
	Status    string
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive to end of day
	Search    string
}

// HistoryRecord is one joined row of the history listing.
type HistoryRecord struct {
	ID             string    `json:"id"`
	AttendanceDate time.Time `json:"attendance_date"`
	AttendanceTime string    `json:"attendance_time"`
	Status         string    `json:"status"`
	Method         string    `json:"verification_method"`
	VerifiedBy     string    `json:"verified_by"`
	Notes          string    `json:"notes"`
	StudentNIM     string    `json:"student_nim"`
	StudentName    string    `json:"student_name"`
	CourseName     string    `json:"course_name"`
	CourseCode     string    `json:"course_code"`
	ClassName      string    `json:"class_name"`
	RoomName       string    `json:"room_name"`
	SessionNumber  int       `json:"session_number"`
	Topic          string    `json:"topic"`
}

// Statistics aggregates status buckets over the full filter predicate, not
// just the current page. Excused counts both excused and sick.
type Statistics struct {
	TotalRecords int `json:"totalRecords"`
	Present      int `json:"present"`
	Late         int `json:"late"`
	Absent       int `json:"absent"`
	Excused      int `json:"excused"`
}

// HistoryPage is the full history response payload.
type HistoryPage struct {
	Records        []HistoryRecord `json:"records"`
	TotalRecords   int             `json:"totalRecords"`
	TotalPages     int             `json:"totalPages"`
	CurrentPage    int             `json:"currentPage"`
	RecordsPerPage int             `json:"recordsPerPage"`
	Statistics     Statistics      `json:"statistics"`
}

// buildHistoryWhere renders the filter as AND-combined SQL conditions with
// positional args starting at $1. Both the page query and the statistics
// query run over this exact predicate.
func buildHistoryWhere(f HistoryFilter) (string, []any) {
	clauses := []string{}
	args := []any{}
	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.Status != "" && f.Status != "all" {
		clauses = append(clauses, "sa.status = "+next())
		args = append(args, f.Status)
	}
	if f.StartDate != "" {
		clauses = append(clauses, "sa.check_in_time >= "+next()+"::date")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		// inclusive end of day, 23:59:59
		clauses = append(clauses, "sa.check_in_time < "+next()+"::date + interval '1 day'")
		args = append(args, f.EndDate)
	}
	if f.ClassID != "" && f.ClassID != "all" {
		clauses = append(clauses, "s.class_id = "+next())
		args = append(args, f.ClassID)
	}
	if f.Search != "" {
		p1 := fmt.Sprintf("$%d", len(args)+1)
		p2 := fmt.Sprintf("$%d", len(args)+2)
		p3 := fmt.Sprintf("$%d", len(args)+3)
		clauses = append(clauses, fmt.Sprintf("(u.fullname ILIKE %s OR u.student_id ILIKE %s OR c.course_name ILIKE %s)", p1, p2, p3))
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

// totalPages is ceil(total/limit).
func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
