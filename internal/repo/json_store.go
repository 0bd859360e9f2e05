// Package repo – JSONFileStore
//
// JSONFileStore keeps every submission in a single JSON document holding an
// array of domain.Submission, in arrival order. The document and its
// directory are created lazily on the first append.
//
// Every Append runs read-modify-write under the store's mutex, so concurrent
// requests in this process cannot lose each other's records. The rewritten
// document goes to a temporary file in the same directory, is fsynced, and is
// renamed over the original; readers never observe a half-written file.
// Separate processes writing the same file are not coordinated.
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tbourn/go-contact-site/internal/domain"
)

// ErrCorruptDocument is returned when the submissions document exists but
// does not decode as a JSON array of submissions.
var ErrCorruptDocument = errors.New("submissions document is not a JSON array")

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// JSONFileStore appends submissions to a JSON document on disk.
// It is safe for concurrent use.
type JSONFileStore struct {
	dir  string
	path string
	mu   sync.Mutex
}

// NewJSONFileStore returns a store writing dir/name. Nothing is touched on
// disk until the first Append.
func NewJSONFileStore(dir, name string) *JSONFileStore {
	return &JSONFileStore{dir: dir, path: filepath.Join(dir, name)}
}

// Path returns the location of the submissions document.
func (s *JSONFileStore) Path() string { return s.path }

// Append records fields (already validated and normalized) as a new
// submission created at now, and returns the stored record.
func (s *JSONFileStore) Append(ctx context.Context, f domain.ContactFields, now time.Time) (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensure(); err != nil {
		return nil, err
	}

	subs, err := s.readAll()
	if err != nil {
		return nil, err
	}

	var last int64
	if n := len(subs); n > 0 {
		last = subs[n-1].ID
	}
	rec := domain.NewSubmission(domain.NextID(last, now), f, now)
	subs = append(subs, rec)

	if err := s.writeAll(subs); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ensure creates the directory and an empty-array document when missing.
func (s *JSONFileStore) ensure() error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("repo: create data dir: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("repo: stat submissions: %w", err)
	}
	return s.writeAll([]domain.Submission{})
}

// readAll decodes the whole document. A blank file reads as an empty list.
func (s *JSONFileStore) readAll() ([]domain.Submission, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("repo: read submissions: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.Submission{}, nil
	}
	var subs []domain.Submission
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if subs == nil {
		// literal "null"
		return nil, ErrCorruptDocument
	}
	return subs, nil
}

// writeAll replaces the document with subs via temp file + rename.
func (s *JSONFileStore) writeAll(subs []domain.Submission) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("repo: encode submissions: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".submissions-*.tmp")
	if err != nil {
		return fmt.Errorf("repo: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("repo: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("repo: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("repo: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return fmt.Errorf("repo: chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("repo: replace submissions: %w", err)
	}
	return nil
}
