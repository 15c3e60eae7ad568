// Package store persists players, the destination catalog and admin
// accounts in SQLite. Destinations are JSONB documents; player scores are
// plain integer columns so increments stay atomic.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

const timeLayout = "2006-01-02T15:04:05.000Z"

// SQLiteStore implements globetrotter.PlayerStore and
// globetrotter.DestinationProvider.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New expects a database already migrated with internal/migrations.
func New(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) nowUTC() string {
	return s.now().UTC().Format(timeLayout)
}

func newID() string {
	return uuid.NewString()
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(timeLayout, v)
	return t
}

// Check adapts the store to health.Checker.
func (s *SQLiteStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
