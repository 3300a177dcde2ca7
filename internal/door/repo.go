package door

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PGRepository stores devices, refresh tokens, and access logs in Postgres.
type PGRepository struct {
	db *sql.DB
}

func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) UpsertDevice(ctx context.Context, deviceID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO door_devices (device_id) VALUES ($1)
		ON CONFLICT (device_id) DO NOTHING`, deviceID)
	return err
}

func (r *PGRepository) SaveRefreshToken(ctx context.Context, token, deviceID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, device_id, expires_at)
		VALUES ($1, $2, $3)`, token, deviceID, expiresAt)
	return err
}

func (r *PGRepository) ConsumeRefreshToken(ctx context.Context, token string) (string, bool, error) {
	var deviceID string
	err := r.db.QueryRowContext(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE
		WHERE token = $1 AND revoked = FALSE AND expires_at > NOW()
		RETURNING device_id`, token).Scan(&deviceID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return deviceID, true, nil
}

func (r *PGRepository) InsertAccessLog(ctx context.Context, e Event) error {
	var roomID, userID any
	if e.RoomID != "" {
		roomID = e.RoomID
	}
	if e.UserID != "" {
		userID = e.UserID
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO door_access_logs (id, device_id, room_id, user_id, event_type, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), e.DeviceID, roomID, userID, e.EventType, e.OccurredAt)
	return err
}
