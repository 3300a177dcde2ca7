// Package room manages the physical room catalog referenced by door
// access logs.
package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors surfaced to the HTTP layer.
var (
	ErrInvalid   = errors.New("invalid input")
	ErrNotFound  = errors.New("room not found")
	ErrCodeTaken = errors.New("room code already exists")
)

// Room is one physical room.
type Room struct {
	ID       string `json:"id"`
	RoomCode string `json:"room_code"`
	RoomName string `json:"room_name"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// AccessEvent is one door event recorded against a room.
type AccessEvent struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"device_id"`
	UserName   string    `json:"user_name"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Page is one page of rooms plus pagination info.
type Page struct {
	Rooms      []Room `json:"rooms"`
	Pagination struct {
		Total      int `json:"total"`
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

// Detail is one room with its recent door events.
type Detail struct {
	Room         Room          `json:"room"`
	RecentEvents []AccessEvent `json:"recent_events"`
}

// Repository is the persistence surface the service needs.
type Repository interface {
	List(ctx context.Context, page, limit int, search string) ([]Room, int, error)
	Get(ctx context.Context, id string) (*Room, error)
	GetByCode(ctx context.Context, code string) (*Room, error)
	Create(ctx context.Context, r Room) (Room, error)
	Update(ctx context.Context, r Room) error
	Delete(ctx context.Context, id string) error
	RecentEvents(ctx context.Context, roomID string, since time.Time, limit int) ([]AccessEvent, error)
}

// Service validates room catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a room service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of rooms matching the search term.
func (s *Service) List(ctx context.Context, page, limit int, search string) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	rooms, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return Page{}, err
	}
	if rooms == nil {
		rooms = []Room{}
	}
	p := Page{Rooms: rooms}
	p.Pagination.Total = total
	p.Pagination.Page = page
	p.Pagination.Limit = limit
	p.Pagination.TotalPages = (total + limit - 1) / limit
	return p, nil
}

// Get returns one room with its door events from the last seven days.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if r == nil {
		return Detail{}, ErrNotFound
	}
	events, err := s.repo.RecentEvents(ctx, id, time.Now().AddDate(0, 0, -7), 50)
	if err != nil {
		return Detail{}, err
	}
	if events == nil {
		events = []AccessEvent{}
	}
	return Detail{Room: *r, RecentEvents: events}, nil
}

// Create validates and inserts a room.
func (s *Service) Create(ctx context.Context, r Room) (Room, error) {
	r.RoomCode = strings.TrimSpace(r.RoomCode)
	r.RoomName = strings.TrimSpace(r.RoomName)
	if r.RoomCode == "" || r.RoomName == "" {
		return Room{}, fmt.Errorf("%w: room_code and room_name are required", ErrInvalid)
	}
	if r.Capacity < 0 {
		return Room{}, fmt.Errorf("%w: capacity cannot be negative", ErrInvalid)
	}
	existing, err := s.repo.GetByCode(ctx, r.RoomCode)
	if err != nil {
		return Room{}, err
	}
	if existing != nil {
		return Room{}, ErrCodeTaken
	}
	if r.Status == "" {
		r.Status = "active"
	}
	return s.repo.Create(ctx, r)
}

// Update edits a room; a changed code must stay unique.
func (s *Service) Update(ctx context.Context, r Room) error {
	current, err := s.repo.Get(ctx, r.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if r.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", ErrInvalid)
	}
	if r.RoomCode != "" && r.RoomCode != current.RoomCode {
		existing, err := s.repo.GetByCode(ctx, r.RoomCode)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != r.ID {
			return ErrCodeTaken
		}
	}
	return s.repo.Update(ctx, r)
}

// Delete removes a room from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
