package roomaccess

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusattend/internal/course"
)

type fakeSession struct {
	classID string
	status  string
	date    time.Time
}

type fakeRepo struct {
	classes  []ClassAccess
	sessions []fakeSession
	statuses map[string]string
	schedule map[string][]course.Slot
}

func newFakeRepo(classes ...ClassAccess) *fakeRepo {
	f := &fakeRepo{classes: classes, statuses: map[string]string{}, schedule: map[string][]course.Slot{}}
	for _, c := range classes {
		f.statuses[c.ID] = c.Status
	}
	return f
}

func (f *fakeRepo) ListClasses(context.Context, string) ([]ClassAccess, error) {
	return f.classes, nil
}

func (f *fakeRepo) GetClass(_ context.Context, id string) (ClassAccess, error) {
	for _, c := range f.classes {
		if c.ID == id {
			return c, nil
		}
	}
	return ClassAccess{}, course.ErrClassNotFound
}

func (f *fakeRepo) EnrolledCount(context.Context, string) (int, error) { return 12, nil }

func (f *fakeRepo) RecentAccessLogs(context.Context, string, time.Time, int) ([]AccessLog, error) {
	return nil, nil
}

func (f *fakeRepo) SetStatus(_ context.Context, classID, status string) error {
	if _, ok := f.statuses[classID]; !ok {
		return course.ErrClassNotFound
	}
	f.statuses[classID] = status
	return nil
}

func (f *fakeRepo) RevokeAccess(_ context.Context, classID string, from, to time.Time) (int, error) {
	if _, ok := f.statuses[classID]; !ok {
		return 0, course.ErrClassNotFound
	}
	f.statuses[classID] = "inactive"
	ended := 0
	for i, s := range f.sessions {
		if s.classID != classID {
			continue
		}
		if s.status != "scheduled" && s.status != "ongoing" {
			continue
		}
		if s.date.Before(from) || !s.date.Before(to) {
			continue
		}
		f.sessions[i].status = "ended"
		ended++
	}
	return ended, nil
}

func (f *fakeRepo) UpdateSchedule(_ context.Context, classID string, schedule []course.Slot) error {
	if _, ok := f.statuses[classID]; !ok {
		return course.ErrClassNotFound
	}
	f.schedule[classID] = schedule
	return nil
}

func slot(day, start, end string) course.Slot {
	return course.Slot{Day: day, StartTime: start, EndTime: end}
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive("active", []course.Slot{slot("Monday", "08:00", "10:00")}))
	assert.False(t, IsActive("active", nil), "no schedule means no access")
	assert.False(t, IsActive("inactive", []course.Slot{slot("Monday", "08:00", "10:00")}))
}

func TestListDerivesFlagAndTotals(t *testing.T) {
	repo := newFakeRepo(
		ClassAccess{ID: "a", Status: "active", Schedule: []course.Slot{slot("Monday", "08:00", "10:00")}, TodayAccessCount: 5},
		ClassAccess{ID: "b", Status: "active", TodayAccessCount: 2}, // no schedule
		ClassAccess{ID: "c", Status: "inactive", Schedule: []course.Slot{slot("Tuesday", "08:00", "10:00")}},
	)
	svc := NewService(repo)

	overview, err := svc.List(context.Background(), "all", "")
	require.NoError(t, err)
	assert.Equal(t, Totals{TotalClasses: 3, ActiveClasses: 1, TotalAccess: 7}, overview.Totals)

	active, err := svc.List(context.Background(), "active", "")
	require.NoError(t, err)
	require.Len(t, active.Classes, 1)
	assert.Equal(t, "a", active.Classes[0].ID)

	inactive, err := svc.List(context.Background(), "inactive", "")
	require.NoError(t, err)
	assert.Len(t, inactive.Classes, 2)
}

func TestRevokeEndsOnlyTargetClassTodaySessions(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	repo := newFakeRepo(
		ClassAccess{ID: "target", Status: "active"},
		ClassAccess{ID: "other", Status: "active"},
	)
	repo.sessions = []fakeSession{
		{classID: "target", status: "ongoing", date: now},
		{classID: "target", status: "scheduled", date: now},
		{classID: "target", status: "ended", date: now},
		{classID: "target", status: "scheduled", date: yesterday},
		{classID: "other", status: "ongoing", date: now},
	}
	svc := NewService(repo)

	result, err := svc.Revoke(context.Background(), "target")
	require.NoError(t, err)
	assert.Equal(t, 2, result.EndedSessions)
	assert.Equal(t, "inactive", repo.statuses["target"])
	assert.Equal(t, "active", repo.statuses["other"])
	assert.Equal(t, "ongoing", repo.sessions[4].status, "other class untouched")
	assert.Equal(t, "scheduled", repo.sessions[3].status, "yesterday untouched")
}

func TestRevokeUnknownClass(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Revoke(context.Background(), "nope")
	assert.ErrorIs(t, err, course.ErrClassNotFound)
}

func TestGrant(t *testing.T) {
	repo := newFakeRepo(ClassAccess{ID: "a", Status: "inactive"})
	svc := NewService(repo)
	require.NoError(t, svc.Grant(context.Background(), "a"))
	assert.Equal(t, "active", repo.statuses["a"])
}

func TestSetScheduleRejectsConflicts(t *testing.T) {
	repo := newFakeRepo(ClassAccess{ID: "a", Status: "active"})
	svc := NewService(repo)

	err := svc.SetSchedule(context.Background(), "a", []course.Slot{
		slot("Monday", "08:00", "10:00"),
		slot("Monday", "09:00", "11:00"),
	})
	assert.Error(t, err)
	assert.Empty(t, repo.schedule["a"], "conflicting schedule must not be saved")

	err = svc.SetSchedule(context.Background(), "a", []course.Slot{
		slot("Monday", "08:00", "10:00"),
		slot("Monday", "10:00", "12:00"),
	})
	require.NoError(t, err)
	assert.Len(t, repo.schedule["a"], 2)
}
