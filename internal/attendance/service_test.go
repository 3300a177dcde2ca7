package attendance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusScheduled, StatusOngoing))
	assert.True(t, CanTransition(StatusScheduled, StatusEnded))
	assert.True(t, CanTransition(StatusOngoing, StatusEnded))

	// one-directional: no reverse moves
	assert.False(t, CanTransition(StatusOngoing, StatusScheduled))
	assert.False(t, CanTransition(StatusEnded, StatusOngoing))
	assert.False(t, CanTransition(StatusEnded, StatusScheduled))
	assert.False(t, CanTransition(StatusEnded, StatusEnded))
}

type fakeRepo struct {
	sessions map[string]*Session
	enrolled map[string]bool
	marked   map[string]bool
	records  []Record
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: map[string]*Session{},
		enrolled: map[string]bool{},
		marked:   map[string]bool{},
	}
}

func (f *fakeRepo) CreateSession(_ context.Context, s Session) (Session, error) {
	if s.ID == "" {
		s.ID = "sess-" + s.ClassID
	}
	cp := s
	f.sessions[s.ID] = &cp
	return s, nil
}
func (f *fakeRepo) GetSession(_ context.Context, id string) (*Session, error) {
	return f.sessions[id], nil
}
func (f *fakeRepo) UpdateSessionStatus(_ context.Context, id, status string) error {
	f.sessions[id].Status = status
	return nil
}
func (f *fakeRepo) IsEnrolled(_ context.Context, classID, studentID string) (bool, error) {
	return f.enrolled[classID+"/"+studentID], nil
}
func (f *fakeRepo) HasRecord(_ context.Context, sessionID, studentID string) (bool, error) {
	return f.marked[sessionID+"/"+studentID], nil
}
func (f *fakeRepo) InsertRecord(_ context.Context, rec Record) (Record, error) {
	f.records = append(f.records, rec)
	f.marked[rec.SessionID+"/"+rec.StudentID] = true
	return rec, nil
}
func (f *fakeRepo) SetConfidence(_ context.Context, _ string, _ float64) error { return nil }
func (f *fakeRepo) History(_ context.Context, _ HistoryFilter) ([]HistoryRecord, int, Statistics, error) {
	return nil, 0, Statistics{}, nil
}
func (f *fakeRepo) HistoryAll(_ context.Context, _ HistoryFilter, _ int) ([]HistoryRecord, error) {
	return nil, nil
}
func (f *fakeRepo) CourseOptions(_ context.Context) ([]CourseOption, error) { return nil, nil }

func TestSetStatusRejectsReverse(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &Session{ID: "s1", Status: StatusEnded}
	svc := NewService(repo)

	err := svc.SetStatus(context.Background(), "s1", StatusOngoing)
	assert.ErrorIs(t, err, ErrBadTransition)

	err = svc.SetStatus(context.Background(), "missing", StatusOngoing)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSetStatusAdvances(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &Session{ID: "s1", Status: StatusScheduled}
	svc := NewService(repo)

	require.NoError(t, svc.SetStatus(context.Background(), "s1", StatusOngoing))
	assert.Equal(t, StatusOngoing, repo.sessions["s1"].Status)
	require.NoError(t, svc.SetStatus(context.Background(), "s1", StatusEnded))
	assert.Equal(t, StatusEnded, repo.sessions["s1"].Status)
}

func TestMarkRequiresOngoingSession(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &Session{ID: "s1", ClassID: "c1", Status: StatusScheduled}
	repo.enrolled["c1/stu1"] = true
	svc := NewService(repo)

	_, err := svc.Mark(context.Background(), Record{SessionID: "s1", StudentID: "stu1", Status: Present})
	assert.ErrorIs(t, err, ErrSessionNotOngoing)

	repo.sessions["s1"].Status = StatusEnded
	_, err = svc.Mark(context.Background(), Record{SessionID: "s1", StudentID: "stu1", Status: Present})
	assert.ErrorIs(t, err, ErrSessionNotOngoing)
}

func TestMarkRequiresEnrollment(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &Session{ID: "s1", ClassID: "c1", Status: StatusOngoing}
	svc := NewService(repo)

	_, err := svc.Mark(context.Background(), Record{SessionID: "s1", StudentID: "ghost", Status: Present})
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestMarkRejectsDuplicates(t *testing.T) {
	repo := newFakeRepo()
	repo.sessions["s1"] = &Session{ID: "s1", ClassID: "c1", Status: StatusOngoing, Method: "face"}
	repo.enrolled["c1/stu1"] = true
	svc := NewService(repo)

	rec, err := svc.Mark(context.Background(), Record{SessionID: "s1", StudentID: "stu1", Status: Late})
	require.NoError(t, err)
	assert.Equal(t, "face", rec.Method, "method defaults to the session's")
	assert.False(t, rec.CheckInTime.IsZero())

	_, err = svc.Mark(context.Background(), Record{SessionID: "s1", StudentID: "stu1", Status: Present})
	assert.ErrorIs(t, err, ErrAlreadyMarked)
}

func TestMarkValidatesStatus(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Mark(context.Background(), Record{SessionID: "s1", StudentID: "stu1", Status: "vanished"})
	assert.Error(t, err)
}
