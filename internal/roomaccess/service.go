// Package roomaccess manages which classes may open their room and exposes
// the per-class access activity derived from attendance records.
package roomaccess

import (
	"context"
	"strings"
	"time"

	"campusattend/internal/course"
)

// ClassAccess is one class in the room access overview.
type ClassAccess struct {
	ID               string        `json:"id"`
	CourseName       string        `json:"course_name"`
	CourseCode       string        `json:"course_code"`
	ClassName        string        `json:"class_name"`
	RoomName         string        `json:"room_name"`
	LecturerName     string        `json:"lecturer_name"`
	Status           string        `json:"status"`
	Schedule         []course.Slot `json:"schedule"`
	Active           bool          `json:"is_active"`
	TodayAccessCount int           `json:"today_access_count"`
	LastAccess       *time.Time    `json:"last_access"`
}

// Totals summarizes the overview.
type Totals struct {
	TotalClasses  int `json:"totalClasses"`
	ActiveClasses int `json:"activeClasses"`
	TotalAccess   int `json:"totalAccess"`
}

// Overview is the full room access listing.
type Overview struct {
	Classes []ClassAccess `json:"classes"`
	Totals  Totals        `json:"totals"`
}

// AccessLog is one recorded room entry.
type AccessLog struct {
	ID          string    `json:"id"`
	StudentName string    `json:"student_name"`
	StudentNIM  string    `json:"student_nim"`
	Status      string    `json:"status"`
	CheckInTime time.Time `json:"check_in_time"`
}

// Detail is the drill-down for one class.
type Detail struct {
	Class         ClassAccess `json:"class"`
	EnrolledCount int         `json:"enrolled_count"`
	AccessLogs    []AccessLog `json:"access_logs"`
}

// RevokeResult reports what a revoke touched.
type RevokeResult struct {
	ClassID       string `json:"class_id"`
	EndedSessions int    `json:"ended_sessions"`
}

// Repository is the persistence surface.
type Repository interface {
	ListClasses(ctx context.Context, search string) ([]ClassAccess, error)
	GetClass(ctx context.Context, id string) (ClassAccess, error)
	EnrolledCount(ctx context.Context, classID string) (int, error)
	RecentAccessLogs(ctx context.Context, classID string, since time.Time, limit int) ([]AccessLog, error)
	SetStatus(ctx context.Context, classID, status string) error
	// RevokeAccess deactivates the class and ends its scheduled and ongoing
	// sessions dated within [from, to), all in one transaction.
	RevokeAccess(ctx context.Context, classID string, from, to time.Time) (int, error)
	UpdateSchedule(ctx context.Context, classID string, schedule []course.Slot) error
}

// Service applies access rules on top of the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsActive is the derived flag: a class grants room access only when it is
// administratively active and actually has scheduled meeting slots.
func IsActive(status string, schedule []course.Slot) bool {
	return status == "active" && len(schedule) > 0
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

// List returns the overview, optionally filtered to active or inactive
// classes after the flag is derived.
func (s *Service) List(ctx context.Context, filter, search string) (Overview, error) {
	classes, err := s.repo.ListClasses(ctx, strings.TrimSpace(search))
	if err != nil {
		return Overview{}, err
	}

	out := Overview{Classes: []ClassAccess{}}
	for _, c := range classes {
		c.Active = IsActive(c.Status, c.Schedule)
		switch filter {
		case "active":
			if !c.Active {
				continue
			}
		case "inactive":
			if c.Active {
				continue
			}
		}
		out.Classes = append(out.Classes, c)
		out.Totals.TotalClasses++
		if c.Active {
			out.Totals.ActiveClasses++
		}
		out.Totals.TotalAccess += c.TodayAccessCount
	}
	return out, nil
}

// Get returns the drill-down for one class with its last week of access logs.
func (s *Service) Get(ctx context.Context, classID string) (Detail, error) {
	c, err := s.repo.GetClass(ctx, classID)
	if err != nil {
		return Detail{}, err
	}
	c.Active = IsActive(c.Status, c.Schedule)

	enrolled, err := s.repo.EnrolledCount(ctx, classID)
	if err != nil {
		return Detail{}, err
	}
	logs, err := s.repo.RecentAccessLogs(ctx, classID, time.Now().Add(-7*24*time.Hour), 50)
	if err != nil {
		return Detail{}, err
	}
	if logs == nil {
		logs = []AccessLog{}
	}
	return Detail{Class: c, EnrolledCount: enrolled, AccessLogs: logs}, nil
}

// Revoke deactivates the class and ends today's open sessions for it.
func (s *Service) Revoke(ctx context.Context, classID string) (RevokeResult, error) {
	from, to := dayBounds(time.Now())
	ended, err := s.repo.RevokeAccess(ctx, classID, from, to)
	if err != nil {
		return RevokeResult{}, err
	}
	return RevokeResult{ClassID: classID, EndedSessions: ended}, nil
}

// Grant reactivates the class.
func (s *Service) Grant(ctx context.Context, classID string) error {
	return s.repo.SetStatus(ctx, classID, "active")
}

// SetSchedule validates and replaces the class schedule.
func (s *Service) SetSchedule(ctx context.Context, classID string, schedule []course.Slot) error {
	if err := course.ValidateSchedule(schedule); err != nil {
		return err
	}
	return s.repo.UpdateSchedule(ctx, classID, schedule)
}
