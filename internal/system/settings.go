// Package system stores administrator-editable key/value settings.
package system

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

var ErrBadKey = errors.New("setting key required")

// Setting is one configuration row.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is the persistence surface.
type Repository interface {
	List(ctx context.Context) ([]Setting, error)
	Upsert(ctx context.Context, key, value string) error
}

// Service validates settings writes.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every setting.
func (s *Service) List(ctx context.Context) ([]Setting, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []Setting{}
	}
	return settings, nil
}

// Set stores one setting.
func (s *Service) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrBadKey
	}
	return s.repo.Upsert(ctx, key, value)
}

// PGRepository stores settings in Postgres.
type PGRepository struct {
	db *sql.DB
}

func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) List(ctx context.Context) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM system_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *PGRepository) Upsert(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	return err
}
