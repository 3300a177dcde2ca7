// Package facedata serves the read-only face data views and runs the
// asynchronous verification path consumed from the job queue.
package facedata

import (
	"context"
	"fmt"
	"time"

	"campusattend/internal/dataset"
	"campusattend/internal/faceclient"
)

// VerifyJob is the queue payload for one pending verification.
type VerifyJob struct {
	AttendanceID string `json:"attendance_id"`
	StudentID    string `json:"student_id"`
	ImageURL     string `json:"image_url"`
}

// DatasetEntry is one student's dataset summary.
type DatasetEntry struct {
	StudentNIM  string `json:"student_nim"`
	StudentName string `json:"student_name"`
	SampleCount int    `json:"sample_count"`
}

// RecognitionLog is one stored verification outcome.
type RecognitionLog struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	SessionID  *string   `json:"session_id"`
	ImageURL   *string   `json:"image_url"`
	Matched    bool      `json:"matched"`
	Confidence *float64  `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// LogPage is one page of recognition logs.
type LogPage struct {
	Logs       []RecognitionLog `json:"logs"`
	Pagination struct {
		CurrentPage  int `json:"currentPage"`
		TotalPages   int `json:"totalPages"`
		TotalRecords int `json:"totalRecords"`
	} `json:"pagination"`
}

// Repository is the persistence surface.
type Repository interface {
	// StudentNames resolves dataset directory keys (student NIMs) to names.
	StudentNames(ctx context.Context, nims []string) (map[string]string, error)
	InsertLog(ctx context.Context, l RecognitionLog) error
	ListLogs(ctx context.Context, limit, offset int) ([]RecognitionLog, int, error)
}

// Verifier is the face service surface the worker needs.
type Verifier interface {
	Verify(ctx context.Context, studentID, imageURL string) (*faceclient.VerifyResult, error)
}

// ConfidenceSetter writes the verification score back to the attendance row.
type ConfidenceSetter interface {
	SetConfidence(ctx context.Context, recordID string, confidence float64) error
}

// Service serves dataset summaries and processes verification jobs.
type Service struct {
	repo     Repository
	datasets dataset.Store
	verifier Verifier
	records  ConfidenceSetter
}

func NewService(repo Repository, datasets dataset.Store, verifier Verifier, records ConfidenceSetter) *Service {
	return &Service{repo: repo, datasets: datasets, verifier: verifier, records: records}
}

// Datasets lists per-student sample counts from the dataset directory.
func (s *Service) Datasets(ctx context.Context) ([]DatasetEntry, error) {
	people, err := s.datasets.People(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.repo.StudentNames(ctx, people)
	if err != nil {
		return nil, err
	}

	entries := make([]DatasetEntry, 0, len(people))
	for _, nim := range people {
		count, err := s.datasets.CountImages(ctx, nim)
		if err != nil {
			return nil, err
		}
		entries = append(entries, DatasetEntry{
			StudentNIM:  nim,
			StudentName: names[nim],
			SampleCount: count,
		})
	}
	return entries, nil
}

// Logs returns one page of recognition logs, newest first.
func (s *Service) Logs(ctx context.Context, page, limit int) (LogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	logs, total, err := s.repo.ListLogs(ctx, limit, (page-1)*limit)
	if err != nil {
		return LogPage{}, err
	}
	out := LogPage{Logs: logs}
	if out.Logs == nil {
		out.Logs = []RecognitionLog{}
	}
	out.Pagination.CurrentPage = page
	out.Pagination.TotalRecords = total
	out.Pagination.TotalPages = (total + limit - 1) / limit
	return out, nil
}

// ProcessVerification runs one queued job: ask the face service, log the
// outcome, and write the score onto the attendance record.
func (s *Service) ProcessVerification(ctx context.Context, job VerifyJob) error {
	if job.StudentID == "" || job.AttendanceID == "" {
		return fmt.Errorf("verification job missing ids")
	}

	result, err := s.verifier.Verify(ctx, job.StudentID, job.ImageURL)
	if err != nil {
		return fmt.Errorf("verify student %s: %w", job.StudentID, err)
	}

	confidence := result.Confidence
	log := RecognitionLog{
		StudentID:  job.StudentID,
		Matched:    result.Verified,
		Confidence: &confidence,
	}
	if job.ImageURL != "" {
		url := job.ImageURL
		log.ImageURL = &url
	}
	if err := s.repo.InsertLog(ctx, log); err != nil {
		return err
	}
	return s.records.SetConfidence(ctx, job.AttendanceID, result.Confidence)
}
