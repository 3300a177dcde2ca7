package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Session states; transitions are one-directional.
const (
	StatusScheduled = "scheduled"
	StatusOngoing   = "ongoing"
	StatusEnded     = "ended"
)

// Attendance record states.
const (
	Present = "present"
	Late    = "late"
	Absent  = "absent"
	Excused = "excused"
	Sick    = "sick"
)

// Domain errors surfaced to the HTTP layer.
var (
	ErrInvalid           = errors.New("invalid input")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotOngoing = errors.New("attendance can only be recorded while the session is ongoing")
	ErrNotEnrolled       = errors.New("student is not enrolled in this class")
	ErrBadTransition     = errors.New("invalid session status transition")
	ErrAlreadyMarked     = errors.New("attendance already recorded for this student")
)

// Session is one class meeting that accepts attendance while ongoing.
type Session struct {
	ID            string    `json:"id"`
	ClassID       string    `json:"class_id"`
	SessionNumber int       `json:"session_number"`
	SessionDate   string    `json:"session_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Topic         string    `json:"topic"`
	Status        string    `json:"status"`
	Method        string    `json:"attendance_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// Record is one student's attendance in a session.
type Record struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	StudentID   string    `json:"student_id"`
	Status      string    `json:"status"`
	CheckInTime time.Time `json:"check_in_time"`
	Method      string    `json:"attendance_method"`
	Confidence  *float64  `json:"confidence_score,omitempty"`
	VerifiedBy  *string   `json:"verified_by,omitempty"`
	Notes       string    `json:"notes"`
	ImageURL    string    `json:"-"`
}

// CourseOption is a dropdown entry for the history filter.
type CourseOption struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
	ClassName  string `json:"class_name"`
}

var validRecordStatus = map[string]bool{
	Present: true, Late: true, Absent: true, Excused: true, Sick: true,
}

// CanTransition enforces the one-directional session lifecycle
// scheduled -> ongoing -> ended.
func CanTransition(from, to string) bool {
	switch from {
	case StatusScheduled:
		return to == StatusOngoing || to == StatusEnded
	case StatusOngoing:
		return to == StatusEnded
	default:
		return false
	}
}

// Repository is the persistence surface the service needs.
type Repository interface {
	CreateSession(ctx context.Context, s Session) (Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	UpdateSessionStatus(ctx context.Context, id, status string) error
	IsEnrolled(ctx context.Context, classID, studentID string) (bool, error)
	HasRecord(ctx context.Context, sessionID, studentID string) (bool, error)
	InsertRecord(ctx context.Context, rec Record) (Record, error)
	SetConfidence(ctx context.Context, recordID string, confidence float64) error
	History(ctx context.Context, f HistoryFilter) ([]HistoryRecord, int, Statistics, error)
	HistoryAll(ctx context.Context, f HistoryFilter, cap int) ([]HistoryRecord, error)
	CourseOptions(ctx context.Context) ([]CourseOption, error)
}

// Service coordinates sessions and attendance marking.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateSession opens a new scheduled session for a class.
func (s *Service) CreateSession(ctx context.Context, sess Session) (Session, error) {
	if sess.ClassID == "" || sess.SessionDate == "" || sess.StartTime == "" || sess.EndTime == "" {
		return Session{}, fmt.Errorf("%w: class_id, session_date, start_time and end_time are required", ErrInvalid)
	}
	if sess.SessionNumber <= 0 {
		sess.SessionNumber = 1
	}
	if sess.Method == "" {
		sess.Method = "face"
	}
	sess.Status = StatusScheduled
	return s.repo.CreateSession(ctx, sess)
}

// SetStatus moves a session along its lifecycle; reverse moves are rejected.
func (s *Service) SetStatus(ctx context.Context, sessionID, to string) error {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}
	if !CanTransition(sess.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, sess.Status, to)
	}
	return s.repo.UpdateSessionStatus(ctx, sessionID, to)
}

// Mark records attendance for an enrolled student in an ongoing session.
func (s *Service) Mark(ctx context.Context, rec Record) (Record, error) {
	if rec.SessionID == "" || rec.StudentID == "" {
		return Record{}, fmt.Errorf("%w: session id and student id are required", ErrInvalid)
	}
	if !validRecordStatus[rec.Status] {
		return Record{}, fmt.Errorf("%w: unknown attendance status %q", ErrInvalid, rec.Status)
	}

	sess, err := s.repo.GetSession(ctx, rec.SessionID)
	if err != nil {
		return Record{}, err
	}
	if sess == nil {
		return Record{}, ErrSessionNotFound
	}
	if sess.Status != StatusOngoing {
		return Record{}, ErrSessionNotOngoing
	}

	enrolled, err := s.repo.IsEnrolled(ctx, sess.ClassID, rec.StudentID)
	if err != nil {
		return Record{}, err
	}
	if !enrolled {
		return Record{}, ErrNotEnrolled
	}

	marked, err := s.repo.HasRecord(ctx, rec.SessionID, rec.StudentID)
	if err != nil {
		return Record{}, err
	}
	if marked {
		return Record{}, ErrAlreadyMarked
	}

	if rec.CheckInTime.IsZero() {
		rec.CheckInTime = time.Now().UTC()
	}
	if rec.Method == "" {
		rec.Method = sess.Method
	}
	return s.repo.InsertRecord(ctx, rec)
}

// History returns a page of joined attendance rows plus aggregate counts
// computed over the same predicate.
func (s *Service) History(ctx context.Context, f HistoryFilter) (HistoryPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	records, total, stats, err := s.repo.History(ctx, f)
	if err != nil {
		return HistoryPage{}, err
	}
	if records == nil {
		records = []HistoryRecord{}
	}
	return HistoryPage{
		Records:        records,
		TotalRecords:   total,
		TotalPages:     totalPages(total, f.Limit),
		CurrentPage:    f.Page,
		RecordsPerPage: f.Limit,
		Statistics:     stats,
	}, nil
}

// HistoryAll re-runs the filter unpaginated for report exports; cap <= 0
// means no row limit.
func (s *Service) HistoryAll(ctx context.Context, f HistoryFilter, cap int) ([]HistoryRecord, error) {
	return s.repo.HistoryAll(ctx, f, cap)
}

// CourseOptions lists the filter dropdown entries.
func (s *Service) CourseOptions(ctx context.Context) ([]CourseOption, error) {
	return s.repo.CourseOptions(ctx)
}
