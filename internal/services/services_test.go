package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jerehe1/folio/internal/models"
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

// fakeSource serves a fixed listing and records the page sizes it was asked for
type fakeSource struct {
	mu        sync.Mutex
	summaries []models.RepositorySummary
	err       error
	pageSizes []int
}

func (f *fakeSource) ListOwnerRepositories(ctx context.Context, account string, pageSize int) ([]models.RepositorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageSizes = append(f.pageSizes, pageSize)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.RepositorySummary, len(f.summaries))
	copy(out, f.summaries)
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
