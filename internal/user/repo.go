package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PGRepository persists users in Postgres.
type PGRepository struct {
	db *sql.DB
}

// NewPGRepository creates a repo.
func NewPGRepository(db *sql.DB) *PGRepository {
	return &PGRepository{db: db}
}

const userColumns = `id, fullname, email, password, role, gender, student_id, status, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Fullname, &u.Email, &u.Password, &u.Role, &u.Gender,
		&u.StudentID, &u.Status, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List returns a filtered page plus the unpaginated total.
func (r *PGRepository) List(ctx context.Context, f ListFilter) ([]User, int, error) {
	clauses := []string{}
	args := []any{}
	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.Search != "" {
		p1, p2, p3 := fmt.Sprintf("$%d", len(args)+1), fmt.Sprintf("$%d", len(args)+2), fmt.Sprintf("$%d", len(args)+3)
		clauses = append(clauses, fmt.Sprintf("(fullname ILIKE %s OR email ILIKE %s OR student_id ILIKE %s)", p1, p2, p3))
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}
	if f.Role != "" && f.Role != "all" {
		clauses = append(clauses, "role = "+next())
		args = append(args, f.Role)
	}
	if f.Status != "" && f.Status != "all" {
		clauses = append(clauses, "status = "+next())
		args = append(args, f.Status)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// f.SortBy/f.SortOrder are whitelisted by the service before reaching here.
	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY %s %s LIMIT %s OFFSET %s",
		userColumns, where, f.SortBy, strings.ToUpper(f.SortOrder), next(), fmt.Sprintf("$%d", len(args)+2))
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// GetByID returns one user or nil when absent.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns one user or nil when absent.
func (r *PGRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and returns the stored row.
func (r *PGRepository) Create(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, fullname, email, password, role, gender, student_id, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at
	`, u.ID, u.Fullname, u.Email, u.Password, u.Role, u.Gender, u.StudentID, u.Status)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// Update rewrites the mutable profile fields.
func (r *PGRepository) Update(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET fullname = COALESCE(NULLIF($2, ''), fullname),
		    email = COALESCE(NULLIF($3, ''), email),
		    password = $4,
		    role = COALESCE(NULLIF($5, ''), role),
		    gender = COALESCE($6, gender),
		    student_id = COALESCE($7, student_id),
		    updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Fullname, u.Email, u.Password, u.Role, u.Gender, u.StudentID)
	return err
}

// Delete removes the row.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}

// UpdateStatus sets active/inactive on one account.
func (r *PGRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	return err
}

// BulkUpdateStatus sets one status on many accounts.
func (r *PGRepository) BulkUpdateStatus(ctx context.Context, ids []string, status string) (int, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET status = $2, updated_at = NOW() WHERE id = ANY($1)", ids, status)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

// TouchLastLogin stamps a successful login.
func (r *PGRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = NOW() WHERE id = $1", id)
	return err
}
