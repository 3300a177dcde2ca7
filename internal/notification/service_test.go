package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items []Notification
}

func (f *fakeRepo) List(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	var owned []Notification
	for _, n := range f.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		owned = append(owned, n)
	}
	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (f *fakeRepo) UnreadCount(_ context.Context, userID string) (int, error) {
	n := 0
	for _, item := range f.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Insert(_ context.Context, n Notification) error {
	f.items = append(f.items, n)
	return nil
}

func (f *fakeRepo) MarkRead(_ context.Context, userID, id string) error {
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			now := time.Now()
			f.items[i].IsRead = true
			f.items[i].ReadAt = &now
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) MarkAllRead(_ context.Context, userID string) error {
	for i, n := range f.items {
		if n.UserID == userID {
			f.items[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, id string) error {
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func seeded() *fakeRepo {
	return &fakeRepo{items: []Notification{
		{ID: "n1", UserID: "alice", Title: "Enrolled", IsRead: false},
		{ID: "n2", UserID: "alice", Title: "Session started", IsRead: true},
		{ID: "n3", UserID: "bob", Title: "Enrolled", IsRead: false},
	}}
}

func TestListPaginationAndUnread(t *testing.T) {
	svc := NewService(seeded())

	page, err := svc.List(context.Background(), "alice", false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, 1, page.UnreadCount)
	assert.Equal(t, 1, page.Pagination.CurrentPage, "page normalized to 1")
	assert.Equal(t, 2, page.Pagination.TotalRecords)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	unread, err := svc.List(context.Background(), "alice", true, 1, 20)
	require.NoError(t, err)
	require.Len(t, unread.Notifications, 1)
	assert.Equal(t, "n1", unread.Notifications[0].ID)
}

func TestMarkReadRequiresOwnership(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)

	assert.ErrorIs(t, svc.MarkRead(context.Background(), "alice", "n3"), ErrNotFound)
	require.NoError(t, svc.MarkRead(context.Background(), "alice", "n1"))
	assert.True(t, repo.items[0].IsRead)
	assert.NotNil(t, repo.items[0].ReadAt)
}

func TestDeleteRequiresOwnership(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), "bob", "n1"), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), "bob", "n3"))
	assert.Len(t, repo.items, 2)
}

func TestMarkAllRead(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)

	require.NoError(t, svc.MarkAllRead(context.Background(), "alice"))
	page, err := svc.List(context.Background(), "alice", true, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)
	assert.False(t, repo.items[2].IsRead, "other user untouched")
}
