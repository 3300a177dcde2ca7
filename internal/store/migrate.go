package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied on startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		fullname TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('super-admin','lecturer','student')),
		gender TEXT,
		student_id TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id UUID PRIMARY KEY,
		course_code TEXT NOT NULL UNIQUE,
		course_name TEXT NOT NULL,
		credits INT NOT NULL DEFAULT 0,
		program_study TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS course_classes (
		id UUID PRIMARY KEY,
		course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		class_name TEXT NOT NULL,
		lecturer_name TEXT,
		academic_year TEXT,
		semester_period TEXT,
		max_students INT NOT NULL DEFAULT 40,
		schedule JSONB NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS student_enrollments (
		id UUID PRIMARY KEY,
		class_id UUID NOT NULL REFERENCES course_classes(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'enrolled',
		enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (class_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_sessions (
		id UUID PRIMARY KEY,
		class_id UUID NOT NULL REFERENCES course_classes(id) ON DELETE CASCADE,
		session_number INT NOT NULL DEFAULT 1,
		session_date DATE NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		topic TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled',
		attendance_method TEXT NOT NULL DEFAULT 'face',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS student_attendances (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES attendance_sessions(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status TEXT NOT NULL,
		check_in_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		attendance_method TEXT NOT NULL DEFAULT 'face',
		confidence_score DOUBLE PRECISION,
		verified_by UUID REFERENCES users(id),
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS face_datasets (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		sample_count INT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS face_recognition_logs (
		id UUID PRIMARY KEY,
		student_id UUID NOT NULL,
		session_id UUID,
		image_url TEXT,
		matched BOOLEAN NOT NULL DEFAULT FALSE,
		confidence DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id UUID PRIMARY KEY,
		room_code TEXT NOT NULL UNIQUE,
		room_name TEXT NOT NULL,
		capacity INT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS door_devices (
		device_id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token TEXT PRIMARY KEY,
		device_id TEXT NOT NULL REFERENCES door_devices(device_id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS door_access_logs (
		id UUID PRIMARY KEY,
		device_id TEXT NOT NULL,
		room_id UUID,
		user_id UUID,
		event_type TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS system_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_session ON student_attendances (session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendances_checkin ON student_attendances (check_in_time DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_class_date ON attendance_sessions (class_id, session_date)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_class ON student_enrollments (class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC)`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
