package facedata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusattend/internal/faceclient"
)

type fakeRepo struct {
	names map[string]string
	logs  []RecognitionLog
}

func (f *fakeRepo) StudentNames(_ context.Context, nims []string) (map[string]string, error) {
	out := map[string]string{}
	for _, nim := range nims {
		if name, ok := f.names[nim]; ok {
			out[nim] = name
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertLog(_ context.Context, l RecognitionLog) error {
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeRepo) ListLogs(_ context.Context, limit, offset int) ([]RecognitionLog, int, error) {
	return f.logs, len(f.logs), nil
}

type fakeDatasets struct {
	counts map[string]int
}

func (f *fakeDatasets) People(context.Context) ([]string, error) {
	var out []string
	for p := range f.counts {
		out = append(out, p)
	}
	return out, nil
}
func (f *fakeDatasets) CountImages(_ context.Context, p string) (int, error) {
	return f.counts[p], nil
}
func (f *fakeDatasets) CountImagesBefore(context.Context, string, time.Time) (int, error) {
	return 0, nil
}

type fakeVerifier struct {
	result *faceclient.VerifyResult
	err    error
}

func (f *fakeVerifier) Verify(context.Context, string, string) (*faceclient.VerifyResult, error) {
	return f.result, f.err
}

type fakeRecords struct {
	scores map[string]float64
}

func (f *fakeRecords) SetConfidence(_ context.Context, recordID string, confidence float64) error {
	f.scores[recordID] = confidence
	return nil
}

func TestDatasetsResolvesNames(t *testing.T) {
	repo := &fakeRepo{names: map[string]string{"2110101": "Alice"}}
	ds := &fakeDatasets{counts: map[string]int{"2110101": 5, "2110102": 3}}
	svc := NewService(repo, ds, nil, nil)

	entries, err := svc.Datasets(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byNIM := map[string]DatasetEntry{}
	for _, e := range entries {
		byNIM[e.StudentNIM] = e
	}
	assert.Equal(t, "Alice", byNIM["2110101"].StudentName)
	assert.Equal(t, 5, byNIM["2110101"].SampleCount)
	assert.Empty(t, byNIM["2110102"].StudentName, "unknown NIM keeps empty name")
}

func TestProcessVerification(t *testing.T) {
	repo := &fakeRepo{}
	records := &fakeRecords{scores: map[string]float64{}}
	verifier := &fakeVerifier{result: &faceclient.VerifyResult{Verified: true, Confidence: 0.87}}
	svc := NewService(repo, &fakeDatasets{}, verifier, records)

	err := svc.ProcessVerification(context.Background(), VerifyJob{
		AttendanceID: "att-1",
		StudentID:    "2110101",
		ImageURL:     "https://img.example/1.jpg",
	})
	require.NoError(t, err)

	require.Len(t, repo.logs, 1)
	assert.True(t, repo.logs[0].Matched)
	require.NotNil(t, repo.logs[0].Confidence)
	assert.Equal(t, 0.87, *repo.logs[0].Confidence)
	assert.Equal(t, 0.87, records.scores["att-1"])
}

func TestProcessVerificationServiceFailure(t *testing.T) {
	repo := &fakeRepo{}
	records := &fakeRecords{scores: map[string]float64{}}
	verifier := &fakeVerifier{err: errors.New("service down")}
	svc := NewService(repo, &fakeDatasets{}, verifier, records)

	err := svc.ProcessVerification(context.Background(), VerifyJob{AttendanceID: "a", StudentID: "s"})
	assert.Error(t, err)
	assert.Empty(t, repo.logs)
	assert.Empty(t, records.scores)
}

func TestProcessVerificationRejectsIncompleteJob(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeDatasets{}, &fakeVerifier{}, &fakeRecords{scores: map[string]float64{}})
	assert.Error(t, svc.ProcessVerification(context.Background(), VerifyJob{}))
}
