package services

import (
	"context"

	"github.com/jerehe1/folio/internal/models"
)

// OverrideStore persists project overrides keyed by repository name.
// Implementations live in repositories (SQLite), repositories/mongodb and repositories/surrealdb.
type OverrideStore interface {
	GetByID(ctx context.Context, id string) (*models.Override, error)
	GetByRepoName(ctx context.Context, repoName string) (*models.Override, error)
	List(ctx context.Context) ([]*models.Override, error)
	// Upsert creates the override for patch.RepoName or merges the set fields
	// into the existing one. The bool reports whether a record was created.
	Upsert(ctx context.Context, patch models.OverridePatch) (*models.Override, bool, error)
	Replace(ctx context.Context, override *models.Override) error
	Delete(ctx context.Context, id string) error
	DeleteByRepoName(ctx context.Context, repoName string) (bool, error)
}
