package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepository persists attendance data in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

// CreateSession inserts a scheduled session.
func (r *PGRepository) CreateSession(ctx context.Context, s Session) (Session, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_sessions (id, class_id, session_number, session_date, start_time, end_time, topic, status, attendance_method)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, s.ID, s.ClassID, s.SessionNumber, s.SessionDate, s.StartTime, s.EndTime, s.Topic, s.Status, s.Method)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Session{}, err
	}
	return s, nil
}

// GetSession returns one session or nil when absent.
func (r *PGRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, class_id, session_number, session_date::text, start_time, end_time, COALESCE(topic, ''), status, attendance_method, created_at
		FROM attendance_sessions WHERE id = $1
	`, id)
	var s Session
	err := row.Scan(&s.ID, &s.ClassID, &s.SessionNumber, &s.SessionDate, &s.StartTime,
		&s.EndTime, &s.Topic, &s.Status, &s.Method, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSessionStatus moves a session to the given state.
func (r *PGRepository) UpdateSessionStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE attendance_sessions SET status = $2 WHERE id = $1", id, status)
	return err
}

// IsEnrolled reports whether the student holds a seat in the class.
func (r *PGRepository) IsEnrolled(ctx context.Context, classID, studentID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM student_enrollments
		WHERE class_id = $1 AND student_id = $2 AND status IN ('enrolled','active')
	`, classID, studentID).Scan(&count)
	return count > 0, err
}

// HasRecord reports whether the student already checked in for this session.
func (r *PGRepository) HasRecord(ctx context.Context, sessionID, studentID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM student_attendances WHERE session_id = $1 AND student_id = $2
	`, sessionID, studentID).Scan(&count)
	return count > 0, err
}

// InsertRecord writes a new attendance row.
func (r *PGRepository) InsertRecord(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO student_attendances (id, session_id, student_id, status, check_in_time, attendance_method, confidence_score, verified_by, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, rec.ID, rec.SessionID, rec.StudentID, rec.Status, rec.CheckInTime, rec.Method, rec.Confidence, rec.VerifiedBy, rec.Notes)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// SetConfidence stores the face service score once verification completes.
func (r *PGRepository) SetConfidence(ctx context.Context, recordID string, confidence float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE student_attendances SET confidence_score = $2 WHERE id = $1
	`, recordID, confidence)
	return err
}

const historyJoins = `
	FROM student_attendances sa
	LEFT JOIN attendance_sessions s ON sa.session_id = s.id
	LEFT JOIN course_classes cc ON s.class_id = cc.id
	LEFT JOIN courses c ON cc.course_id = c.id
	LEFT JOIN users u ON sa.student_id = u.id
	LEFT JOIN users verifier ON sa.verified_by = verifier.id
	WHERE 1=1`

const historySelect = `
	SELECT
		sa.id,
		sa.check_in_time,
		to_char(sa.check_in_time, 'HH24:MI') AS attendance_time,
		sa.status,
		sa.attendance_method,
		COALESCE(verifier.fullname, 'System'),
		COALESCE(sa.notes, ''),
		COALESCE(u.student_id, ''),
		COALESCE(u.fullname, ''),
		COALESCE(c.course_name, ''),
		COALESCE(c.course_code, ''),
		COALESCE(cc.class_name, ''),
		'N/A',
		COALESCE(s.session_number, 0),
		COALESCE(s.topic, '')`

func scanHistory(rows *sql.Rows) (HistoryRecord, error) {
	var rec HistoryRecord
	err := rows.Scan(&rec.ID, &rec.AttendanceDate, &rec.AttendanceTime, &rec.Status,
		&rec.Method, &rec.VerifiedBy, &rec.Notes, &rec.StudentNIM, &rec.StudentName,
		&rec.CourseName, &rec.CourseCode, &rec.ClassName, &rec.RoomName,
		&rec.SessionNumber, &rec.Topic)
	return rec, err
}

// History returns one page of joined rows, the unpaginated total, and status
// bucket counts over the same predicate.
func (r *PGRepository) History(ctx context.Context, f HistoryFilter) ([]HistoryRecord, int, Statistics, error) {
	where, args := buildHistoryWhere(f)

	var stats Statistics
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN sa.status = 'present' THEN 1 END),
			COUNT(CASE WHEN sa.status = 'late' THEN 1 END),
			COUNT(CASE WHEN sa.status = 'absent' THEN 1 END),
			COUNT(CASE WHEN sa.status IN ('excused','sick') THEN 1 END)
		`+historyJoins+where, args...).Scan(&stats.TotalRecords, &stats.Present, &stats.Late, &stats.Absent, &stats.Excused)
	if err != nil {
		return nil, 0, Statistics{}, err
	}

	query := fmt.Sprintf("%s%s%s ORDER BY sa.check_in_time DESC LIMIT $%d OFFSET $%d",
		historySelect, historyJoins, where, len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, Statistics{}, err
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, 0, Statistics{}, err
		}
		records = append(records, rec)
	}
	return records, stats.TotalRecords, stats, rows.Err()
}

// HistoryAll re-runs the predicate unpaginated for exports; cap > 0 bounds
// the result set.
func (r *PGRepository) HistoryAll(ctx context.Context, f HistoryFilter, cap int) ([]HistoryRecord, error) {
	where, args := buildHistoryWhere(f)
	query := historySelect + historyJoins + where + " ORDER BY sa.check_in_time DESC"
	if cap > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, cap)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CourseOptions lists active classes that have at least one session, for the
// history filter dropdown.
func (r *PGRepository) CourseOptions(ctx context.Context) ([]CourseOption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT cc.id, c.course_name, c.course_code, cc.class_name
		FROM course_classes cc
		JOIN courses c ON cc.course_id = c.id
		JOIN attendance_sessions s ON cc.id = s.class_id
		WHERE cc.status = 'active'
		ORDER BY c.course_name, cc.class_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []CourseOption
	for rows.Next() {
		var o CourseOption
		if err := rows.Scan(&o.ID, &o.Name, &o.CourseCode, &o.ClassName); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}
