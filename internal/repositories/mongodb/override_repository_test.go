package mongodb

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupMongo(t *testing.T) *OverrideRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate mongo container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := database.ConnectMongo(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo := NewOverrideRepository(client.Database("folio_test"))
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func ptr[T any](v T) *T { return &v }

func TestMongoOverrideRepository(t *testing.T) {
	repo := setupMongo(t)
	ctx := context.Background()

	t.Run("upsert creates then merges", func(t *testing.T) {
		created, isNew, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "alpha", Featured: ptr(true)})
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.True(t, created.Featured)
		assert.False(t, created.Hidden)
		assert.Nil(t, created.CustomDescription)

		merged, isNew, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "alpha", CustomDescription: ptr("Hand written")})
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Equal(t, created.ID, merged.ID)
		assert.True(t, merged.Featured)
		require.NotNil(t, merged.CustomDescription)
		assert.Equal(t, "Hand written", *merged.CustomDescription)
		assert.Equal(t, created.CreatedAt, merged.CreatedAt)
	})

	t.Run("replace and delete", func(t *testing.T) {
		o, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "beta"})
		require.NoError(t, err)

		o.Order = 7
		o.LiveURL = ptr("https://beta.example.com")
		require.NoError(t, repo.Replace(ctx, o))

		got, err := repo.GetByRepoName(ctx, "beta")
		require.NoError(t, err)
		assert.Equal(t, 7, got.Order)

		require.NoError(t, repo.Delete(ctx, o.ID))
		assert.ErrorIs(t, repo.Delete(ctx, o.ID), models.ErrNotFound)
		_, err = repo.GetByID(ctx, o.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("delete by repo name reports existence", func(t *testing.T) {
		_, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "gamma"})
		require.NoError(t, err)

		deleted, err := repo.DeleteByRepoName(ctx, "gamma")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteByRepoName(ctx, "gamma")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("concurrent upserts keep one record", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, err := repo.Upsert(ctx, models.OverridePatch{RepoName: "delta", Order: ptr(i)})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		all, err := repo.List(ctx)
		require.NoError(t, err)
		count := 0
		for _, o := range all {
			if o.RepoName == "delta" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}
