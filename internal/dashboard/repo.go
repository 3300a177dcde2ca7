package dashboard

import (
	"context"
	"database/sql"
	"time"
)

// PGRepository runs the dashboard counts against Postgres.
type PGRepository struct {
	db *sql.DB
}

func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) CountStudents(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'student' AND status = 'active'`,
	).Scan(&n)
	return n, err
}

func (r *PGRepository) CountStudentsCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'student' AND status = 'active' AND created_at <= $1`,
		cutoff,
	).Scan(&n)
	return n, err
}

func (r *PGRepository) CountAttendancesBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_attendances WHERE check_in_time >= $1 AND check_in_time < $2`,
		from, to,
	).Scan(&n)
	return n, err
}

func (r *PGRepository) CountSessionsBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_sessions WHERE session_date >= $1 AND session_date < $2`,
		from, to,
	).Scan(&n)
	return n, err
}

func (r *PGRepository) CountAbsentSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_attendances WHERE status = 'absent' AND check_in_time >= $1`,
		since,
	).Scan(&n)
	return n, err
}

func (r *PGRepository) RecentAttendances(ctx context.Context, limit int) ([]AttendanceFeedItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sa.id,
		       COALESCE(u.fullname, ''),
		       COALESCE(u.student_id, ''),
		       COALESCE(c.course_name, ''),
		       sa.status,
		       sa.check_in_time
		FROM student_attendances sa
		LEFT JOIN users u ON u.id = sa.student_id
		LEFT JOIN attendance_sessions s ON s.id = sa.session_id
		LEFT JOIN course_classes cc ON cc.id = s.class_id
		LEFT JOIN courses c ON c.id = cc.course_id
		ORDER BY sa.check_in_time DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AttendanceFeedItem
	for rows.Next() {
		var it AttendanceFeedItem
		if err := rows.Scan(&it.ID, &it.StudentName, &it.StudentNIM, &it.CourseName, &it.Status, &it.CheckInTime); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepository) AttendanceDayCounts(ctx context.Context, from, to time.Time) (DayCounts, error) {
	var c DayCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN status = 'present' THEN 1 END),
		       COUNT(CASE WHEN status = 'late' THEN 1 END)
		FROM student_attendances
		WHERE check_in_time >= $1 AND check_in_time < $2`,
		from, to,
	).Scan(&c.Total, &c.Present, &c.Late)
	return c, err
}
