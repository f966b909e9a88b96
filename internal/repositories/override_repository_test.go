package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jerehe1/folio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOverrideRepo(t *testing.T) *OverrideRepository {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewOverrideRepository(newTestDB(t)).WithClock(steppingClock(start))
}

func TestOverrideUpsertCreatesWithDefaults(t *testing.T) {
	repo := newOverrideRepo(t)
	ctx := context.Background()

	override, created, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "blog"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, override.ID)
	assert.Equal(t, "blog", override.RepoName)
	assert.False(t, override.Featured)
	assert.False(t, override.Hidden)
	assert.Equal(t, 0, override.Order)
	assert.Nil(t, override.CustomDescription)

	stored, err := repo.GetByRepoName(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, override.ID, stored.ID)
	assert.True(t, override.CreatedAt.Equal(stored.CreatedAt))
}

func TestOverrideUpsertMergesOnlyGivenFields(t *testing.T) {
	repo := newOverrideRepo(t)
	ctx := context.Background()

	first, _, err := repo.Upsert(ctx, models.OverridePatch{
		RepoName:          "blog",
		CustomDescription: ptr("My blog"),
		Featured:          ptr(true),
		Order:             ptr(5),
	})
	require.NoError(t, err)

	second, created, err := repo.Upsert(ctx, models.OverridePatch{
		RepoName: "blog",
		Hidden:   ptr(true),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.CustomDescription)
	assert.Equal(t, "My blog", *second.CustomDescription)
	assert.True(t, second.Featured)
	assert.True(t, second.Hidden)
	assert.Equal(t, 5, second.Order)

	// empty string clears an optional field
	third, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "blog", CustomDescription: ptr("  ")})
	require.NoError(t, err)
	assert.Nil(t, third.CustomDescription)
}

func TestOverrideUpsertIsIdempotent(t *testing.T) {
	repo := newOverrideRepo(t)
	ctx := context.Background()

	patch := models.OverridePatch{
		RepoName:    "blog",
		CustomImage: ptr("https://img.example/blog.png"),
		LiveURL:     ptr("https://blog.example"),
		Featured:    ptr(true),
		Order:       ptr(3),
	}

	first, _, err := repo.Upsert(ctx, patch)
	require.NoError(t, err)
	second, _, err := repo.Upsert(ctx, patch)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CustomImage, second.CustomImage)
	assert.Equal(t, first.LiveURL, second.LiveURL)
	assert.Equal(t, first.Featured, second.Featured)
	assert.Equal(t, first.Hidden, second.Hidden)
	assert.Equal(t, first.Order, second.Order)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOverrideListOrder(t *testing.T) {
	repo := newOverrideRepo(t)
	ctx := context.Background()

	for _, patch := range []models.OverridePatch{
		{RepoName: "low", Order: ptr(1)},
		{RepoName: "high", Order: ptr(10)},
		{RepoName: "older-zero"},
		{RepoName: "newer-zero"},
	} {
		_, _, err := repo.Upsert(ctx, patch)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)

	var names []string
	for _, o := range list {
		names = append(names, o.RepoName)
	}
	assert.Equal(t, []string{"high", "low", "newer-zero", "older-zero"}, names)
}

func TestOverrideReplaceAndDelete(t *testing.T) {
	repo := newOverrideRepo(t)
	ctx := context.Background()

	created, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "blog", Featured: ptr(true), Order: ptr(2)})
	require.NoError(t, err)

	replacement := &models.Override{ID: created.ID, RepoName: "blog", Hidden: true}
	require.NoError(t, repo.Replace(ctx, replacement))

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Featured)
	assert.True(t, stored.Hidden)
	assert.Equal(t, 0, stored.Order)

	missing := &models.Override{ID: "does-not-exist", RepoName: "x"}
	assert.ErrorIs(t, repo.Replace(ctx, missing), models.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), models.ErrNotFound)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOverrideReplaceDuplicateRepoName(t *testing.T) {
	repo := newOverrideRepo(t)
	ctx := context.Background()

	_, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "a"})
	require.NoError(t, err)
	b, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "b"})
	require.NoError(t, err)

	b.RepoName = "a"
	assert.ErrorIs(t, repo.Replace(ctx, b), models.ErrConflict)
}

func TestOverrideDeleteByRepoName(t *testing.T) {
	repo := newOverrideRepo(t)
	ctx := context.Background()

	_, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "blog"})
	require.NoError(t, err)

	deleted, err := repo.DeleteByRepoName(ctx, "blog")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByRepoName(ctx, "blog")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOverrideConcurrentUpsertKeepsOneRecord(t *testing.T) {
	repo := NewOverrideRepository(newTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(order int) {
			defer wg.Done()
			_, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "blog", Order: ptr(order)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
