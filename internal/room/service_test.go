package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rooms  []Room
	events map[string][]AccessEvent
}

func (f *fakeRepo) List(_ context.Context, page, limit int, search string) ([]Room, int, error) {
	return f.rooms, len(f.rooms), nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*Room, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			return &f.rooms[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*Room, error) {
	for i := range f.rooms {
		if f.rooms[i].RoomCode == code {
			return &f.rooms[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Create(_ context.Context, r Room) (Room, error) {
	r.ID = "room-new"
	f.rooms = append(f.rooms, r)
	return r, nil
}

func (f *fakeRepo) Update(_ context.Context, r Room) error {
	for i := range f.rooms {
		if f.rooms[i].ID == r.ID {
			f.rooms[i] = r
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			f.rooms = append(f.rooms[:i], f.rooms[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) RecentEvents(_ context.Context, roomID string, _ time.Time, _ int) ([]AccessEvent, error) {
	return f.events[roomID], nil
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms: []Room{
			{ID: "room-1", RoomCode: "GD1-101", RoomName: "Lecture Hall 101", Capacity: 60, Status: "active"},
			{ID: "room-2", RoomCode: "GD1-102", RoomName: "Lab 102", Capacity: 30, Status: "active"},
		},
		events: map[string][]AccessEvent{
			"room-1": {
				{ID: "ev-1", DeviceID: "door-01", UserName: "Alice", EventType: "entry", OccurredAt: time.Now()},
			},
		},
	}
}

func TestCreateRoom(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), Room{RoomCode: "GD2-201", RoomName: "Seminar Room", Capacity: 20})
	require.NoError(t, err)
	assert.Equal(t, "room-new", created.ID)
	assert.Equal(t, "active", created.Status)
}

func TestCreateRoomRejectsDuplicateCode(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Room{RoomCode: "GD1-101", RoomName: "Duplicate"})
	assert.ErrorIs(t, err, ErrCodeTaken)
}

func TestCreateRoomValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Room{RoomCode: "", RoomName: "No Code"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Create(context.Background(), Room{RoomCode: "GD3-301", RoomName: "Bad Capacity", Capacity: -1})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUpdateRoomCodeStaysUnique(t *testing.T) {
	svc := NewService(newFakeRepo())

	err := svc.Update(context.Background(), Room{ID: "room-2", RoomCode: "GD1-101"})
	assert.ErrorIs(t, err, ErrCodeTaken)

	err = svc.Update(context.Background(), Room{ID: "room-2", RoomCode: "GD1-103", RoomName: "Lab 103"})
	assert.NoError(t, err)
}

func TestGetRoomDetailIncludesEvents(t *testing.T) {
	svc := NewService(newFakeRepo())

	detail, err := svc.Get(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, "GD1-101", detail.Room.RoomCode)
	require.Len(t, detail.RecentEvents, 1)
	assert.Equal(t, "door-01", detail.RecentEvents[0].DeviceID)

	detail, err = svc.Get(context.Background(), "room-2")
	require.NoError(t, err)
	assert.Empty(t, detail.RecentEvents)
}

func TestRoomNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrNotFound)
}
