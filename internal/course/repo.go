package course

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepository persists courses, classes and enrollments in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

// ListCourses returns a filtered page plus the unpaginated total.
func (r *PGRepository) ListCourses(ctx context.Context, page, limit int, search string) ([]Course, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = " WHERE course_name ILIKE $1 OR course_code ILIKE $2"
		like := "%" + search + "%"
		args = append(args, like, like)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, course_code, course_name, credits, COALESCE(program_study, ''), created_at
		FROM courses%s
		ORDER BY course_name ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.Credits, &c.ProgramStudy, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

// GetCourse returns one course or nil when absent.
func (r *PGRepository) GetCourse(ctx context.Context, id string) (*Course, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, course_code, course_name, credits, COALESCE(program_study, ''), created_at
		FROM courses WHERE id = $1`, id)
	var c Course
	if err := row.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.Credits, &c.ProgramStudy, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// GetCourseByCode returns one course or nil when absent.
func (r *PGRepository) GetCourseByCode(ctx context.Context, code string) (*Course, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, course_code, course_name, credits, COALESCE(program_study, ''), created_at
		FROM courses WHERE course_code = $1`, code)
	var c Course
	if err := row.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.Credits, &c.ProgramStudy, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// CreateCourse inserts a catalog entry.
func (r *PGRepository) CreateCourse(ctx context.Context, c Course) (Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO courses (id, course_code, course_name, credits, program_study)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, c.ID, c.CourseCode, c.CourseName, c.Credits, c.ProgramStudy)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Course{}, err
	}
	return c, nil
}

// UpdateCourse rewrites mutable fields.
func (r *PGRepository) UpdateCourse(ctx context.Context, c Course) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE courses
		SET course_code = COALESCE(NULLIF($2, ''), course_code),
		    course_name = COALESCE(NULLIF($3, ''), course_name),
		    credits = CASE WHEN $4 > 0 THEN $4 ELSE credits END,
		    program_study = COALESCE(NULLIF($5, ''), program_study)
		WHERE id = $1
	`, c.ID, c.CourseCode, c.CourseName, c.Credits, c.ProgramStudy)
	return err
}

// DeleteCourse removes the course; classes cascade.
func (r *PGRepository) DeleteCourse(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	return err
}

const classColumns = `cc.id, cc.course_id, c.course_code, c.course_name, cc.class_name,
	COALESCE(cc.lecturer_name, ''), COALESCE(cc.academic_year, ''), COALESCE(cc.semester_period, ''),
	cc.max_students, cc.schedule, cc.status, cc.created_at`

func scanClass(row interface{ Scan(...any) error }) (Class, error) {
	var cls Class
	var schedule []byte
	err := row.Scan(&cls.ID, &cls.CourseID, &cls.CourseCode, &cls.CourseName, &cls.ClassName,
		&cls.LecturerName, &cls.AcademicYear, &cls.SemesterPeriod,
		&cls.MaxStudents, &schedule, &cls.Status, &cls.CreatedAt)
	if err != nil {
		return Class{}, err
	}
	cls.Schedule = []Slot{}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &cls.Schedule); err != nil {
			return Class{}, fmt.Errorf("class %s has malformed schedule: %w", cls.ID, err)
		}
	}
	return cls, nil
}

// ListClasses returns every class of a course, newest first.
func (r *PGRepository) ListClasses(ctx context.Context, courseID string) ([]Class, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+classColumns+`
		FROM course_classes cc
		JOIN courses c ON cc.course_id = c.id
		WHERE cc.course_id = $1
		ORDER BY cc.created_at DESC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []Class
	for rows.Next() {
		cls, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, cls)
	}
	return classes, rows.Err()
}

// GetClass returns one class or nil when absent.
func (r *PGRepository) GetClass(ctx context.Context, id string) (*Class, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+classColumns+`
		FROM course_classes cc
		JOIN courses c ON cc.course_id = c.id
		WHERE cc.id = $1`, id)
	cls, err := scanClass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cls, nil
}

// CreateClass inserts a class; the schedule is stored as JSONB and returned
// exactly as given.
func (r *PGRepository) CreateClass(ctx context.Context, cls Class) (Class, error) {
	if cls.ID == "" {
		cls.ID = uuid.NewString()
	}
	schedule, err := json.Marshal(cls.Schedule)
	if err != nil {
		return Class{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO course_classes (id, course_id, class_name, lecturer_name, academic_year, semester_period, max_students, schedule, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, cls.ID, cls.CourseID, cls.ClassName, cls.LecturerName, cls.AcademicYear,
		cls.SemesterPeriod, cls.MaxStudents, schedule, cls.Status)
	if err := row.Scan(&cls.CreatedAt); err != nil {
		return Class{}, err
	}
	return cls, nil
}

// UpdateClass rewrites mutable fields; a nil schedule keeps the stored one.
func (r *PGRepository) UpdateClass(ctx context.Context, cls Class) error {
	var schedule []byte
	if cls.Schedule != nil {
		var err error
		schedule, err = json.Marshal(cls.Schedule)
		if err != nil {
			return err
		}
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE course_classes
		SET class_name = COALESCE(NULLIF($2, ''), class_name),
		    lecturer_name = COALESCE(NULLIF($3, ''), lecturer_name),
		    academic_year = COALESCE(NULLIF($4, ''), academic_year),
		    semester_period = COALESCE(NULLIF($5, ''), semester_period),
		    max_students = CASE WHEN $6 > 0 THEN $6 ELSE max_students END,
		    schedule = COALESCE($7, schedule),
		    status = COALESCE(NULLIF($8, ''), status)
		WHERE id = $1
	`, cls.ID, cls.ClassName, cls.LecturerName, cls.AcademicYear,
		cls.SemesterPeriod, cls.MaxStudents, schedule, cls.Status)
	return err
}

// DeleteClass removes a class; enrollments and sessions cascade.
func (r *PGRepository) DeleteClass(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM course_classes WHERE id = $1", id)
	return err
}

// ListEnrollments returns a page of the roster with student info joined in.
func (r *PGRepository) ListEnrollments(ctx context.Context, classID string, page, limit int, status string) ([]Enrollment, int, error) {
	where := " WHERE se.class_id = $1"
	args := []any{classID}
	if status != "" && status != "all" {
		where += fmt.Sprintf(" AND se.status = $%d", len(args)+1)
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM student_enrollments se"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT se.id, se.class_id, se.student_id, u.fullname, COALESCE(u.student_id, ''), se.status, se.enrolled_at
		FROM student_enrollments se
		JOIN users u ON se.student_id = u.id
		%s
		ORDER BY se.enrolled_at ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.ID, &e.ClassID, &e.StudentID, &e.StudentName, &e.StudentNIM, &e.Status, &e.EnrolledAt); err != nil {
			return nil, 0, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, total, rows.Err()
}

// Enroll admits a student inside a single transaction. The class row is
// locked FOR UPDATE so concurrent enrollments cannot oversubscribe a class.
func (r *PGRepository) Enroll(ctx context.Context, classID, studentID string) (Enrollment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Enrollment{}, err
	}
	defer tx.Rollback()

	var maxStudents int
	err = tx.QueryRowContext(ctx, `
		SELECT max_students FROM course_classes WHERE id = $1 FOR UPDATE
	`, classID).Scan(&maxStudents)
	if errors.Is(err, sql.ErrNoRows) {
		return Enrollment{}, ErrClassNotFound
	}
	if err != nil {
		return Enrollment{}, err
	}

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM student_enrollments
		WHERE class_id = $1 AND student_id = $2 AND status IN ('enrolled','active')
	`, classID, studentID).Scan(&existing)
	if err != nil {
		return Enrollment{}, err
	}

	var enrolledCount int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM student_enrollments
		WHERE class_id = $1 AND status IN ('enrolled','active')
	`, classID).Scan(&enrolledCount)
	if err != nil {
		return Enrollment{}, err
	}

	if err := CanEnroll(enrolledCount, maxStudents, existing > 0); err != nil {
		return Enrollment{}, err
	}

	e := Enrollment{ID: uuid.NewString(), ClassID: classID, StudentID: studentID, Status: "enrolled"}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO student_enrollments (id, class_id, student_id, status)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (class_id, student_id) DO UPDATE SET status = 'enrolled', enrolled_at = NOW()
		RETURNING id, enrolled_at
	`, e.ID, e.ClassID, e.StudentID, e.Status).Scan(&e.ID, &e.EnrolledAt)
	if err != nil {
		return Enrollment{}, err
	}

	if err := tx.Commit(); err != nil {
		return Enrollment{}, err
	}
	return e, nil
}

// Unenroll frees the seat by marking the enrollment inactive.
func (r *PGRepository) Unenroll(ctx context.Context, classID, studentID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE student_enrollments SET status = 'inactive'
		WHERE class_id = $1 AND student_id = $2 AND status IN ('enrolled','active')
	`, classID, studentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotEnrolled
	}
	return nil
}
