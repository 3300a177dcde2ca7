package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	students     int
	studentsOld  int
	attendToday  int
	attendOld    int
	sessionToday int
	sessionOld   int
	absences     int
	feed         []AttendanceFeedItem
	day          DayCounts
}

func (f *fakeRepo) CountStudents(context.Context) (int, error) { return f.students, nil }
func (f *fakeRepo) CountStudentsCreatedBefore(context.Context, time.Time) (int, error) {
	return f.studentsOld, nil
}
func (f *fakeRepo) CountAttendancesBetween(_ context.Context, from, _ time.Time) (int, error) {
	if time.Since(from) > 24*time.Hour {
		return f.attendOld, nil
	}
	return f.attendToday, nil
}
func (f *fakeRepo) CountSessionsBetween(_ context.Context, from, _ time.Time) (int, error) {
	if time.Since(from) > 24*time.Hour {
		return f.sessionOld, nil
	}
	return f.sessionToday, nil
}
func (f *fakeRepo) CountAbsentSince(context.Context, time.Time) (int, error) { return f.absences, nil }
func (f *fakeRepo) RecentAttendances(context.Context, int) ([]AttendanceFeedItem, error) {
	return f.feed, nil
}
func (f *fakeRepo) AttendanceDayCounts(context.Context, time.Time, time.Time) (DayCounts, error) {
	return f.day, nil
}

type fakeDatasets struct {
	people map[string][2]int // person -> [total, old]
}

func (f *fakeDatasets) People(context.Context) ([]string, error) {
	var out []string
	for p := range f.people {
		out = append(out, p)
	}
	return out, nil
}
func (f *fakeDatasets) CountImages(_ context.Context, p string) (int, error) {
	return f.people[p][0], nil
}
func (f *fakeDatasets) CountImagesBefore(_ context.Context, p string, _ time.Time) (int, error) {
	return f.people[p][1], nil
}

type fakeChecker bool

func (f fakeChecker) Healthy(context.Context) bool { return bool(f) }

type fakePinger struct{ err error }

func (f fakePinger) Health(context.Context) error { return f.err }

func TestStatisticsTrends(t *testing.T) {
	repo := &fakeRepo{
		students: 50, studentsOld: 50,
		attendToday: 8, attendOld: 4,
		sessionToday: 3, sessionOld: 0,
	}
	ds := &fakeDatasets{people: map[string][2]int{
		"alice": {10, 5},
		"bob":   {2, 1},
	}}
	svc := NewService(repo, ds, time.Second, fakeChecker(true), fakeChecker(true), fakePinger{}, fakePinger{})

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, stats.TotalStudents)
	assert.Equal(t, 8, stats.TodayAttendance)
	assert.Equal(t, 12, stats.TotalFaceDatasets)
	assert.Equal(t, 3, stats.RoomAccess)

	assert.Equal(t, 0.0, stats.Trends.Students)
	assert.Equal(t, 100.0, stats.Trends.Attendance)
	assert.Equal(t, 100.0, stats.Trends.Datasets) // 12 now vs 6 a week ago
	assert.Equal(t, 100.0, stats.Trends.Access)   // zero baseline with activity
}

func TestAlerts(t *testing.T) {
	repo := &fakeRepo{students: 5, absences: 20}
	ds := &fakeDatasets{people: map[string][2]int{"alice": {3, 0}}}
	svc := NewService(repo, ds, time.Second, fakeChecker(true), fakeChecker(true), fakePinger{}, fakePinger{})

	alerts, err := svc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, "warning", alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "4 students")
	assert.Equal(t, "error", alerts[1].Type)
	assert.Equal(t, "info", alerts[2].Type)
}

func TestSystemStatusReflectsClients(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeDatasets{}, time.Second,
		fakeChecker(true), fakeChecker(false),
		fakePinger{}, fakePinger{err: errors.New("connection refused")})

	components := svc.SystemStatus(context.Background())
	require.Len(t, components, 4)
	assert.Equal(t, "online", components[0].Status)
	assert.Equal(t, "offline", components[1].Status)
	assert.Equal(t, "online", components[2].Status)
	assert.Equal(t, "offline", components[3].Status)
	assert.Contains(t, components[3].Detail, "connection refused")
}

func TestChartDerivesAbsent(t *testing.T) {
	repo := &fakeRepo{day: DayCounts{Total: 10, Present: 6, Late: 1}}
	svc := NewService(repo, &fakeDatasets{}, time.Second, fakeChecker(true), fakeChecker(true), fakePinger{}, fakePinger{})

	points, err := svc.Chart(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, 3, points[0].Absent)
}
