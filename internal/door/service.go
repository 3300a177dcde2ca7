// Package door implements the device-facing API used by door controllers:
// registration, token refresh, and access event ingestion.
package door

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusattend/internal/auth"
)

var (
	ErrDeviceMismatch = errors.New("device id does not match token subject")
	ErrBadDeviceID    = errors.New("device id required")
	ErrBadEvent       = errors.New("event type required")
	ErrTokenInvalid   = errors.New("refresh token invalid or revoked")
)

// Event is one access event reported by a device.
type Event struct {
	DeviceID   string    `json:"device_id"`
	RoomID     string    `json:"room_id"`
	UserID     string    `json:"user_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Repository is the persistence surface.
type Repository interface {
	UpsertDevice(ctx context.Context, deviceID string) error
	SaveRefreshToken(ctx context.Context, token, deviceID string, expiresAt time.Time) error
	// ConsumeRefreshToken revokes the token and reports whether it was
	// live. Rotation: a refresh token is single use.
	ConsumeRefreshToken(ctx context.Context, token string) (deviceID string, ok bool, err error)
	InsertAccessLog(ctx context.Context, e Event) error
}

// Service handles device registration and event ingestion.
type Service struct {
	repo       Repository
	issuer     string
	signingKey string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(repo Repository, issuer, signingKey string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{repo: repo, issuer: issuer, signingKey: signingKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Register records the device and issues its token pair.
func (s *Service) Register(ctx context.Context, deviceID string) (auth.TokenPair, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return auth.TokenPair{}, ErrBadDeviceID
	}
	if err := s.repo.UpsertDevice(ctx, deviceID); err != nil {
		return auth.TokenPair{}, err
	}

	pair, err := auth.Issue(deviceID, "door", s.issuer, s.signingKey, s.accessTTL, s.refreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.repo.SaveRefreshToken(ctx, pair.RefreshToken, deviceID, pair.RefreshExp); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

// Refresh rotates a refresh token into a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if _, err := auth.Parse(refreshToken, s.signingKey, s.issuer); err != nil {
		return auth.TokenPair{}, ErrTokenInvalid
	}
	deviceID, ok, err := s.repo.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !ok {
		return auth.TokenPair{}, ErrTokenInvalid
	}

	pair, err := auth.Issue(deviceID, "door", s.issuer, s.signingKey, s.accessTTL, s.refreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.repo.SaveRefreshToken(ctx, pair.RefreshToken, deviceID, pair.RefreshExp); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

// RecordEvent stores an access event. tokenDeviceID comes from the bearer
// token subject and must match the payload.
func (s *Service) RecordEvent(ctx context.Context, tokenDeviceID string, e Event) error {
	if e.DeviceID == "" {
		return ErrBadDeviceID
	}
	if e.DeviceID != tokenDeviceID {
		return ErrDeviceMismatch
	}
	if e.EventType == "" {
		return ErrBadEvent
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return s.repo.InsertAccessLog(ctx, e)
}
