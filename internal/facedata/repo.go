package facedata

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// PGRepository backs the face data views with Postgres.
type PGRepository struct {
	db *sql.DB
}

func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) StudentNames(ctx context.Context, nims []string) (map[string]string, error) {
	names := make(map[string]string, len(nims))
	if len(nims) == 0 {
		return names, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT student_id, fullname FROM users WHERE student_id = ANY($1)`, nims)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var nim, name string
		if err := rows.Scan(&nim, &name); err != nil {
			return nil, err
		}
		names[nim] = name
	}
	return names, rows.Err()
}

func (r *PGRepository) InsertLog(ctx context.Context, l RecognitionLog) error {
	id := l.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO face_recognition_logs (id, student_id, session_id, image_url, matched, confidence)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, l.StudentID, l.SessionID, l.ImageURL, l.Matched, l.Confidence)
	return err
}

func (r *PGRepository) ListLogs(ctx context.Context, limit, offset int) ([]RecognitionLog, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM face_recognition_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, session_id, image_url, matched, confidence, created_at
		FROM face_recognition_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []RecognitionLog
	for rows.Next() {
		var (
			l          RecognitionLog
			sessionID  sql.NullString
			imageURL   sql.NullString
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.StudentID, &sessionID, &imageURL, &l.Matched, &confidence, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		if sessionID.Valid {
			v := sessionID.String
			l.SessionID = &v
		}
		if imageURL.Valid {
			v := imageURL.String
			l.ImageURL = &v
		}
		if confidence.Valid {
			v := confidence.Float64
			l.Confidence = &v
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}
