// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/infrastructure/database"
)

// NewDB opens a migrated SQLite database under t.TempDir.
func NewDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "focusqueue.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.MigrateUp())
	return db
}

// FixedClock is a settable clock.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock starts the clock at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// At builds a FixedClock on the given local wall-clock time.
func At(year int, month time.Month, day, hour, minute, second int) *FixedClock {
	return NewFixedClock(time.Date(year, month, day, hour, minute, second, 0, time.Local))
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
