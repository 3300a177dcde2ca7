package roomaccess

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"campusattend/internal/course"
)

// PGRepository backs the room access views with Postgres.
type PGRepository struct {
	db *sql.DB
}

func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

const classAccessSelect = `
	SELECT cc.id,
	       COALESCE(c.course_name, ''),
	       COALESCE(c.course_code, ''),
	       cc.class_name,
	       'N/A',
	       COALESCE(cc.lecturer_name, ''),
	       cc.status,
	       COALESCE(cc.schedule, '[]'::jsonb),
	       (SELECT COUNT(*)
	        FROM student_attendances sa
	        JOIN attendance_sessions s ON s.id = sa.session_id
	        WHERE s.class_id = cc.id
	          AND sa.status IN ('present', 'late')
	          AND sa.check_in_time >= date_trunc('day', NOW())
	          AND sa.check_in_time < date_trunc('day', NOW()) + interval '1 day'),
	       (SELECT MAX(sa.check_in_time)
	        FROM student_attendances sa
	        JOIN attendance_sessions s ON s.id = sa.session_id
	        WHERE s.class_id = cc.id)
	FROM course_classes cc
	LEFT JOIN courses c ON c.id = cc.course_id`

func scanClassAccess(row interface{ Scan(...any) error }) (ClassAccess, error) {
	var (
		c           ClassAccess
		scheduleRaw []byte
		lastAccess  sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.CourseName, &c.CourseCode, &c.ClassName, &c.RoomName,
		&c.LecturerName, &c.Status, &scheduleRaw, &c.TodayAccessCount, &lastAccess); err != nil {
		return ClassAccess{}, err
	}
	c.Schedule = []course.Slot{}
	if len(scheduleRaw) > 0 {
		if err := json.Unmarshal(scheduleRaw, &c.Schedule); err != nil {
			return ClassAccess{}, err
		}
	}
	if lastAccess.Valid {
		t := lastAccess.Time
		c.LastAccess = &t
	}
	return c, nil
}

func (r *PGRepository) ListClasses(ctx context.Context, search string) ([]ClassAccess, error) {
	query := classAccessSelect
	args := []any{}
	if search != "" {
		query += ` WHERE c.course_name ILIKE $1 OR c.course_code ILIKE $1 OR cc.class_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY c.course_name, cc.class_name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []ClassAccess
	for rows.Next() {
		c, err := scanClassAccess(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *PGRepository) GetClass(ctx context.Context, id string) (ClassAccess, error) {
	row := r.db.QueryRowContext(ctx, classAccessSelect+` WHERE cc.id = $1`, id)
	c, err := scanClassAccess(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ClassAccess{}, course.ErrClassNotFound
	}
	return c, err
}

func (r *PGRepository) EnrolledCount(ctx context.Context, classID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_enrollments WHERE class_id = $1 AND status IN ('enrolled','active')`,
		classID,
	).Scan(&n)
	return n, err
}

func (r *PGRepository) RecentAccessLogs(ctx context.Context, classID string, since time.Time, limit int) ([]AccessLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sa.id, COALESCE(u.fullname, ''), COALESCE(u.student_id, ''), sa.status, sa.check_in_time
		FROM student_attendances sa
		JOIN attendance_sessions s ON s.id = sa.session_id
		LEFT JOIN users u ON u.id = sa.student_id
		WHERE s.class_id = $1 AND sa.check_in_time >= $2
		ORDER BY sa.check_in_time DESC
		LIMIT $3`, classID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AccessLog
	for rows.Next() {
		var l AccessLog
		if err := rows.Scan(&l.ID, &l.StudentName, &l.StudentNIM, &l.Status, &l.CheckInTime); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *PGRepository) SetStatus(ctx context.Context, classID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE course_classes SET status = $1 WHERE id = $2`,
		status, classID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrClassNotFound
	}
	return nil
}

// RevokeAccess deactivates the class and ends only this class's open
// sessions dated today, atomically.
func (r *PGRepository) RevokeAccess(ctx context.Context, classID string, from, to time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE course_classes SET status = 'inactive' WHERE id = $1`,
		classID)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, course.ErrClassNotFound
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE attendance_sessions
		SET status = 'ended'
		WHERE class_id = $1
		  AND status IN ('scheduled', 'ongoing')
		  AND session_date >= $2 AND session_date < $3`,
		classID, from, to)
	if err != nil {
		return 0, err
	}
	ended, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(ended), nil
}

func (r *PGRepository) UpdateSchedule(ctx context.Context, classID string, schedule []course.Slot) error {
	raw, err := json.Marshal(schedule)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE course_classes SET schedule = $1 WHERE id = $2`,
		raw, classID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrClassNotFound
	}
	return nil
}
