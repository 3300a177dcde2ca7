package room

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepository stores the room catalog in Postgres.
type PGRepository struct {
	db *sql.DB
}

func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) List(ctx context.Context, page, limit int, search string) ([]Room, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE room_name ILIKE $1 OR room_code ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, room_code, room_name, capacity, status FROM rooms` + where +
		` ORDER BY room_name`
	if search != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.ID, &rm.RoomCode, &rm.RoomName, &rm.Capacity, &rm.Status); err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, total, rows.Err()
}

func (r *PGRepository) Get(ctx context.Context, id string) (*Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, room_code, room_name, capacity, status FROM rooms WHERE id = $1`, id)
	var rm Room
	err := row.Scan(&rm.ID, &rm.RoomCode, &rm.RoomName, &rm.Capacity, &rm.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *PGRepository) GetByCode(ctx context.Context, code string) (*Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, room_code, room_name, capacity, status FROM rooms WHERE room_code = $1`, code)
	var rm Room
	err := row.Scan(&rm.ID, &rm.RoomCode, &rm.RoomName, &rm.Capacity, &rm.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *PGRepository) Create(ctx context.Context, rm Room) (Room, error) {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rooms (id, room_code, room_name, capacity, status)
		VALUES ($1, $2, $3, $4, $5)`,
		rm.ID, rm.RoomCode, rm.RoomName, rm.Capacity, rm.Status)
	if err != nil {
		return Room{}, err
	}
	return rm, nil
}

func (r *PGRepository) Update(ctx context.Context, rm Room) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE rooms
		SET room_code = COALESCE(NULLIF($2, ''), room_code),
		    room_name = COALESCE(NULLIF($3, ''), room_name),
		    capacity  = $4,
		    status    = COALESCE(NULLIF($5, ''), status)
		WHERE id = $1`,
		rm.ID, rm.RoomCode, rm.RoomName, rm.Capacity, rm.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) RecentEvents(ctx context.Context, roomID string, since time.Time, limit int) ([]AccessEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dal.id, dal.device_id, COALESCE(u.fullname, ''), dal.event_type, dal.occurred_at
		FROM door_access_logs dal
		LEFT JOIN users u ON u.id = dal.user_id
		WHERE dal.room_id = $1 AND dal.occurred_at >= $2
		ORDER BY dal.occurred_at DESC
		LIMIT $3`, roomID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []AccessEvent
	for rows.Next() {
		var e AccessEvent
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.UserName, &e.EventType, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
