package surrealdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupSurreal(t *testing.T) *OverrideRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v2",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", "root", "--pass", "root", "memory"},
			WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate surrealdb container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8000")
	require.NoError(t, err)

	db, err := database.ConnectSurreal(ctx, database.SurrealOptions{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, port.Port()),
		Namespace: "folio",
		Database:  "test",
		Username:  "root",
		Password:  "root",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	repo := NewOverrideRepository(db)
	require.NoError(t, repo.InitSchema(ctx))
	return repo
}

func ptr[T any](v T) *T { return &v }

func TestSurrealOverrideRepository(t *testing.T) {
	repo := setupSurreal(t)
	ctx := context.Background()

	t.Run("upsert creates then merges", func(t *testing.T) {
		created, isNew, err := repo.Upsert(ctx, models.OverridePatch{
			RepoName:    "alpha",
			Featured:    ptr(true),
			CustomImage: ptr("https://img.example.com/a.png"),
		})
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.True(t, created.Featured)
		assert.Equal(t, 0, created.Order)

		merged, isNew, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "alpha", Order: ptr(4), CustomImage: ptr("")})
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Equal(t, created.ID, merged.ID)
		assert.True(t, merged.Featured)
		assert.Equal(t, 4, merged.Order)
		assert.Nil(t, merged.CustomImage)
	})

	t.Run("replace can rename", func(t *testing.T) {
		o, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "beta"})
		require.NoError(t, err)

		o.RepoName = "beta-renamed"
		o.Hidden = true
		require.NoError(t, repo.Replace(ctx, o))

		_, err = repo.GetByRepoName(ctx, "beta")
		assert.ErrorIs(t, err, models.ErrNotFound)
		got, err := repo.GetByRepoName(ctx, "beta-renamed")
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
		assert.True(t, got.Hidden)
	})

	t.Run("replace onto an existing name conflicts", func(t *testing.T) {
		o, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "gamma"})
		require.NoError(t, err)
		o.RepoName = "alpha"
		assert.ErrorIs(t, repo.Replace(ctx, o), models.ErrConflict)
	})

	t.Run("delete", func(t *testing.T) {
		o, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "delta"})
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, o.ID))
		assert.ErrorIs(t, repo.Delete(ctx, o.ID), models.ErrNotFound)

		deleted, err := repo.DeleteByRepoName(ctx, "gamma")
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = repo.DeleteByRepoName(ctx, "gamma")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("list orders by sort order", func(t *testing.T) {
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, all)
		assert.Equal(t, "alpha", all[0].RepoName)
	})
}
