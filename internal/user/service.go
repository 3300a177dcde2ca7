package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusattend/internal/auth"
)

// Domain errors surfaced to the HTTP layer.
var (
	ErrInvalid     = errors.New("invalid input")
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrBadPassword = errors.New("invalid password")
	ErrInactive    = errors.New("account is inactive")
)

// User is a row in the users table. Password always carries the bcrypt hash.
type User struct {
	ID        string     `json:"id"`
	Fullname  string     `json:"fullname"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Role      string     `json:"role"`
	Gender    *string    `json:"gender,omitempty"`
	StudentID *string    `json:"student_id,omitempty"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ListFilter narrows and orders a user listing.
type ListFilter struct {
	Page      int
	Limit     int
	Search    string
	Role      string
	Status    string
	SortBy    string
	SortOrder string
}

// Page is one page of users plus pagination info.
type Page struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Pagination struct {
		Total      int `json:"total"`
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

// Repository is the persistence surface the service needs.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]User, int, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) error
	BulkUpdateStatus(ctx context.Context, ids []string, status string) (int, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// Service applies validation and hashing in front of the repository.
type Service struct {
	repo Repository
}

// NewService creates a user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validRoles = map[string]bool{
	auth.RoleSuperAdmin: true,
	auth.RoleLecturer:   true,
	auth.RoleStudent:    true,
}

var validStatuses = map[string]bool{"active": true, "inactive": true}

// sortColumns whitelists user-controlled ORDER BY input.
var sortColumns = map[string]string{
	"fullname":   "fullname",
	"email":      "email",
	"role":       "role",
	"status":     "status",
	"created_at": "created_at",
	"last_login": "last_login",
}

// List returns a page of users with pagination metadata.
func (s *Service) List(ctx context.Context, f ListFilter) (Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "created_at"
	}
	if strings.ToLower(f.SortOrder) != "asc" {
		f.SortOrder = "desc"
	} else {
		f.SortOrder = "asc"
	}

	users, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, err
	}

	page := Page{Users: users, Total: total}
	page.Pagination.Total = total
	page.Pagination.Page = f.Page
	page.Pagination.Limit = f.Limit
	page.Pagination.TotalPages = (total + f.Limit - 1) / f.Limit
	return page, nil
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Create validates, hashes the password, and inserts a new user.
func (s *Service) Create(ctx context.Context, u User, plainPassword string) (User, error) {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if u.Fullname == "" || u.Email == "" || plainPassword == "" {
		return User{}, fmt.Errorf("%w: fullname, email and password are required", ErrInvalid)
	}
	if !validRoles[u.Role] {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalid, u.Role)
	}
	if u.Role == auth.RoleStudent && (u.StudentID == nil || *u.StudentID == "") {
		return User{}, fmt.Errorf("%w: student accounts require a student id", ErrInvalid)
	}

	existing, err := s.repo.GetByEmail(ctx, u.Email)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(plainPassword)
	if err != nil {
		return User{}, err
	}
	u.Password = hash
	if u.Status == "" {
		u.Status = "active"
	}
	return s.repo.Create(ctx, u)
}

// Update edits profile fields; an empty newPassword keeps the current hash.
func (s *Service) Update(ctx context.Context, u User, newPassword string) error {
	current, err := s.Get(ctx, u.ID)
	if err != nil {
		return err
	}
	if u.Role != "" && !validRoles[u.Role] {
		return fmt.Errorf("%w: unknown role %q", ErrInvalid, u.Role)
	}
	if u.Email != "" && u.Email != current.Email {
		u.Email = strings.TrimSpace(strings.ToLower(u.Email))
		existing, err := s.repo.GetByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != u.ID {
			return ErrEmailTaken
		}
	}
	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		u.Password = hash
	} else {
		u.Password = current.Password
	}
	return s.repo.Update(ctx, u)
}

// Delete hard-deletes a user.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SetStatus transitions a single account between active and inactive.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// SetStatusBulk applies one status to many accounts, returning how many
// rows changed.
func (s *Service) SetStatusBulk(ctx context.Context, ids []string, status string) (int, error) {
	if !validStatuses[status] {
		return 0, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no user ids given", ErrInvalid)
	}
	return s.repo.BulkUpdateStatus(ctx, ids, status)
}

// Authenticate verifies credentials for login. Account status gates access.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, ErrBadPassword
	}
	if u.Status != "active" {
		return nil, ErrInactive
	}
	_ = s.repo.TouchLastLogin(ctx, u.ID)
	return u, nil
}
