// Package dataset abstracts the face-image sample store. The production
// recognition pipeline keeps one directory of image files per person; this
// application only ever reads counts and timestamps from it.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store exposes the read surface the dashboard and face endpoints need.
type Store interface {
	People(ctx context.Context) ([]string, error)
	CountImages(ctx context.Context, personID string) (int, error)
	CountImagesBefore(ctx context.Context, personID string, cutoff time.Time) (int, error)
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
}

// FSStore reads a directory tree with one subdirectory per person.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at dir.
func NewFSStore(dir string) *FSStore {
	return &FSStore{root: dir}
}

// People lists person ids that have a dataset directory. A missing root is
// an empty dataset, not an error.
func (s *FSStore) People(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var people []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			people = append(people, e.Name())
		}
	}
	return people, nil
}

// CountImages counts image files in a person's directory.
func (s *FSStore) CountImages(ctx context.Context, personID string) (int, error) {
	return s.count(ctx, personID, time.Time{})
}

// CountImagesBefore counts image files modified at or before cutoff.
func (s *FSStore) CountImagesBefore(ctx context.Context, personID string, cutoff time.Time) (int, error) {
	return s.count(ctx, personID, cutoff)
}

func (s *FSStore) count(ctx context.Context, personID string, cutoff time.Time) (int, error) {
	dir := filepath.Join(s.root, personID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		if !cutoff.IsZero() {
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
		}
		count++
	}
	return count, nil
}
