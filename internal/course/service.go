package course

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Domain errors surfaced to the HTTP layer.
var (
	ErrInvalid         = errors.New("invalid input")
	ErrCourseNotFound  = errors.New("course not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrCodeTaken       = errors.New("course code already exists")
	ErrAlreadyEnrolled = errors.New("student already enrolled in this class")
	ErrClassFull       = errors.New("class has reached maximum capacity")
	ErrNotEnrolled     = errors.New("student is not enrolled in this class")
)

// Course is a catalog entry.
type Course struct {
	ID           string    `json:"id"`
	CourseCode   string    `json:"course_code"`
	CourseName   string    `json:"course_name"`
	Credits      int       `json:"credits"`
	ProgramStudy string    `json:"program_study"`
	CreatedAt    time.Time `json:"created_at"`
}

// Class is one offering of a course with a weekly schedule.
type Class struct {
	ID             string    `json:"id"`
	CourseID       string    `json:"course_id"`
	CourseCode     string    `json:"course_code,omitempty"`
	CourseName     string    `json:"course_name,omitempty"`
	ClassName      string    `json:"class_name"`
	LecturerName   string    `json:"lecturer_name"`
	AcademicYear   string    `json:"academic_year"`
	SemesterPeriod string    `json:"semester_period"`
	MaxStudents    int       `json:"max_students"`
	Schedule       []Slot    `json:"schedule"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Enrollment links a student to a class.
type Enrollment struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	StudentNIM  string    `json:"student_nim,omitempty"`
	Status      string    `json:"status"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// CanEnroll is the admission rule applied inside the enrollment transaction:
// no duplicate active enrollment and a free seat below max capacity.
func CanEnroll(enrolledCount, maxStudents int, alreadyEnrolled bool) error {
	if alreadyEnrolled {
		return ErrAlreadyEnrolled
	}
	if maxStudents > 0 && enrolledCount >= maxStudents {
		return ErrClassFull
	}
	return nil
}

// Repository is the persistence surface the service needs.
type Repository interface {
	ListCourses(ctx context.Context, page, limit int, search string) ([]Course, int, error)
	GetCourse(ctx context.Context, id string) (*Course, error)
	GetCourseByCode(ctx context.Context, code string) (*Course, error)
	CreateCourse(ctx context.Context, c Course) (Course, error)
	UpdateCourse(ctx context.Context, c Course) error
	DeleteCourse(ctx context.Context, id string) error

	ListClasses(ctx context.Context, courseID string) ([]Class, error)
	GetClass(ctx context.Context, id string) (*Class, error)
	CreateClass(ctx context.Context, cls Class) (Class, error)
	UpdateClass(ctx context.Context, cls Class) error
	DeleteClass(ctx context.Context, id string) error

	ListEnrollments(ctx context.Context, classID string, page, limit int, status string) ([]Enrollment, int, error)
	Enroll(ctx context.Context, classID, studentID string) (Enrollment, error)
	Unenroll(ctx context.Context, classID, studentID string) error
}

// Service validates course and enrollment operations.
type Service struct {
	repo Repository
}

// NewService creates a course service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListCourses returns a page of the catalog.
func (s *Service) ListCourses(ctx context.Context, page, limit int, search string) ([]Course, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.repo.ListCourses(ctx, page, limit, search)
}

// CreateCourse validates and inserts a catalog entry.
func (s *Service) CreateCourse(ctx context.Context, c Course) (Course, error) {
	if c.CourseCode == "" || c.CourseName == "" {
		return Course{}, fmt.Errorf("%w: course_code and course_name are required", ErrInvalid)
	}
	if c.Credits < 0 {
		return Course{}, fmt.Errorf("%w: credits cannot be negative", ErrInvalid)
	}
	existing, err := s.repo.GetCourseByCode(ctx, c.CourseCode)
	if err != nil {
		return Course{}, err
	}
	if existing != nil {
		return Course{}, ErrCodeTaken
	}
	return s.repo.CreateCourse(ctx, c)
}

// UpdateCourse edits an existing catalog entry.
func (s *Service) UpdateCourse(ctx context.Context, c Course) error {
	current, err := s.repo.GetCourse(ctx, c.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrCourseNotFound
	}
	if c.CourseCode != "" && c.CourseCode != current.CourseCode {
		existing, err := s.repo.GetCourseByCode(ctx, c.CourseCode)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrCodeTaken
		}
	}
	return s.repo.UpdateCourse(ctx, c)
}

// DeleteCourse removes a course and, via cascade, its classes.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	current, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrCourseNotFound
	}
	return s.repo.DeleteCourse(ctx, id)
}

// ListClasses returns the classes offered for a course.
func (s *Service) ListClasses(ctx context.Context, courseID string) ([]Class, error) {
	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return s.repo.ListClasses(ctx, courseID)
}

// CreateClass validates the schedule and inserts the class.
func (s *Service) CreateClass(ctx context.Context, cls Class) (Class, error) {
	if cls.CourseID == "" || cls.ClassName == "" {
		return Class{}, fmt.Errorf("%w: course_id and class_name are required", ErrInvalid)
	}
	course, err := s.repo.GetCourse(ctx, cls.CourseID)
	if err != nil {
		return Class{}, err
	}
	if course == nil {
		return Class{}, ErrCourseNotFound
	}
	if err := ValidateSchedule(cls.Schedule); err != nil {
		return Class{}, err
	}
	if cls.MaxStudents <= 0 {
		cls.MaxStudents = 40
	}
	if cls.Status == "" {
		cls.Status = "active"
	}
	if cls.Schedule == nil {
		cls.Schedule = []Slot{}
	}
	return s.repo.CreateClass(ctx, cls)
}

// UpdateClass edits class fields; the schedule is validated when present.
func (s *Service) UpdateClass(ctx context.Context, cls Class) error {
	current, err := s.repo.GetClass(ctx, cls.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrClassNotFound
	}
	if cls.Schedule != nil {
		if err := ValidateSchedule(cls.Schedule); err != nil {
			return err
		}
	}
	return s.repo.UpdateClass(ctx, cls)
}

// DeleteClass removes a class.
func (s *Service) DeleteClass(ctx context.Context, id string) error {
	current, err := s.repo.GetClass(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrClassNotFound
	}
	return s.repo.DeleteClass(ctx, id)
}

// ListEnrollments returns a page of a class roster.
func (s *Service) ListEnrollments(ctx context.Context, classID string, page, limit int, status string) ([]Enrollment, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	cls, err := s.repo.GetClass(ctx, classID)
	if err != nil {
		return nil, 0, err
	}
	if cls == nil {
		return nil, 0, ErrClassNotFound
	}
	return s.repo.ListEnrollments(ctx, classID, page, limit, status)
}

// Enroll admits a student into a class. Duplicate and capacity checks run
// inside a single transaction holding a row lock on the class.
func (s *Service) Enroll(ctx context.Context, classID, studentID string) (Enrollment, error) {
	if classID == "" || studentID == "" {
		return Enrollment{}, fmt.Errorf("%w: class id and student id are required", ErrInvalid)
	}
	return s.repo.Enroll(ctx, classID, studentID)
}

// Unenroll releases a student's seat.
func (s *Service) Unenroll(ctx context.Context, classID, studentID string) error {
	return s.repo.Unenroll(ctx, classID, studentID)
}
