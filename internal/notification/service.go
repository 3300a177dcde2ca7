// Package notification stores and serves per-user notifications. Rows are
// written by the background worker from queue messages and read through the
// API.
package notification

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound covers both a missing notification and one owned by another
// user; callers cannot distinguish the two.
var ErrNotFound = errors.New("notification not found")

// Notification is one row in a user's inbox.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Page is one page of a user's inbox.
type Page struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	Pagination    struct {
		CurrentPage  int `json:"currentPage"`
		TotalPages   int `json:"totalPages"`
		TotalRecords int `json:"totalRecords"`
	} `json:"pagination"`
}

// Repository is the persistence surface.
type Repository interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	Insert(ctx context.Context, n Notification) error
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
}

// Service applies pagination rules and ownership checks over the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.List(ctx, userID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return Page{}, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return Page{}, err
	}

	out := Page{Notifications: items, UnreadCount: unread}
	if out.Notifications == nil {
		out.Notifications = []Notification{}
	}
	out.Pagination.CurrentPage = page
	out.Pagination.TotalRecords = total
	out.Pagination.TotalPages = (total + limit - 1) / limit
	return out, nil
}

// Notify inserts a notification for a user. Used by the worker.
func (s *Service) Notify(ctx context.Context, n Notification) error {
	return s.repo.Insert(ctx, n)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks every unread notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
