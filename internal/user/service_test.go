package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusattend/internal/auth"
)

type fakeRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
	listed  []User
	total   int
	lastF   ListFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*User{}, byEmail: map[string]*User{}}
}

func (f *fakeRepo) add(u User) {
	cp := u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]User, int, error) {
	f.lastF = filter
	return f.listed, f.total, nil
}
func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error)       { return f.byID[id], nil }
func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) { return f.byEmail[email], nil }
func (f *fakeRepo) Create(_ context.Context, u User) (User, error) {
	f.add(u)
	return u, nil
}
func (f *fakeRepo) Update(_ context.Context, u User) error  { return nil }
func (f *fakeRepo) Delete(_ context.Context, _ string) error { return nil }
func (f *fakeRepo) UpdateStatus(_ context.Context, id, status string) error {
	if u := f.byID[id]; u != nil {
		u.Status = status
	}
	return nil
}
func (f *fakeRepo) BulkUpdateStatus(_ context.Context, ids []string, status string) (int, error) {
	n := 0
	for _, id := range ids {
		if u := f.byID[id]; u != nil {
			u.Status = status
			n++
		}
	}
	return n, nil
}
func (f *fakeRepo) TouchLastLogin(_ context.Context, _ string) error { return nil }

func TestListNormalizesFilter(t *testing.T) {
	repo := newFakeRepo()
	repo.total = 25
	svc := NewService(repo)

	page, err := svc.List(context.Background(), ListFilter{Page: 0, Limit: -4, SortBy: "password; DROP TABLE users", SortOrder: "sideways"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lastF.Page)
	assert.Equal(t, 10, repo.lastF.Limit)
	assert.Equal(t, "created_at", repo.lastF.SortBy)
	assert.Equal(t, "desc", repo.lastF.SortOrder)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.add(User{ID: "u1", Email: "taken@campus.test"})
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), User{Fullname: "A", Email: "TAKEN@campus.test", Role: auth.RoleLecturer}, "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateValidates(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), User{Fullname: "A", Email: "a@b.c", Role: "janitor"}, "pw")
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), User{Fullname: "A", Email: "a@b.c", Role: auth.RoleStudent}, "pw")
	assert.Error(t, err, "student without student_id must be rejected")

	nim := "2110101"
	created, err := svc.Create(context.Background(), User{Fullname: "A", Email: "a@b.c", Role: auth.RoleStudent, StudentID: &nim}, "pw")
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)
	assert.NotEqual(t, "pw", created.Password, "password must be stored hashed")
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	repo.add(User{ID: "u1", Email: "l@campus.test", Password: hash, Status: "active"})
	svc := NewService(repo)

	u, err := svc.Authenticate(context.Background(), "L@campus.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.Authenticate(context.Background(), "l@campus.test", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)

	_, err = svc.Authenticate(context.Background(), "ghost@campus.test", "pw")
	assert.ErrorIs(t, err, ErrNotFound)

	repo.add(User{ID: "u2", Email: "off@campus.test", Password: hash, Status: "inactive"})
	_, err = svc.Authenticate(context.Background(), "off@campus.test", "correct-horse")
	assert.ErrorIs(t, err, ErrInactive)
}

func TestSetStatusBulk(t *testing.T) {
	repo := newFakeRepo()
	repo.add(User{ID: "u1", Email: "a@x", Status: "active"})
	repo.add(User{ID: "u2", Email: "b@x", Status: "active"})
	svc := NewService(repo)

	_, err := svc.SetStatusBulk(context.Background(), []string{"u1"}, "frozen")
	assert.Error(t, err)

	n, err := svc.SetStatusBulk(context.Background(), []string{"u1", "u2"}, "inactive")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "inactive", repo.byID["u1"].Status)
}
