package repositories

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jerehe1/folio/pkg/database"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "folio_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// steppingClock returns a clock that advances one second per call
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func ptr[T any](v T) *T {
	return &v
}
