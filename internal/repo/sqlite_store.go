// Package repo – SQLiteStore
//
// SQLiteStore is the alternative backend selected with STORE_DRIVER=sqlite.
// It keeps the same append-only contract as JSONFileStore: one row per
// accepted contact request, ids from domain.NextID, no update or delete path.
package repo

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-contact-site/internal/domain"
)

// SQLiteStore appends submissions to the "submissions" table.
// It is safe for concurrent use.
type SQLiteStore struct {
	db *gorm.DB
	// mu serializes id allocation with the insert; SQLite would otherwise
	// let two writers read the same MAX(id).
	mu sync.Mutex
}

// NewSQLiteStore wraps an opened and migrated database handle.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append inserts a new submission for fields created at now.
func (s *SQLiteStore) Append(ctx context.Context, f domain.ContactFields, now time.Time) (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec domain.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&domain.Submission{}).
			Select("COALESCE(MAX(id), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		rec = domain.NewSubmission(domain.NextID(last, now), f, now)
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
