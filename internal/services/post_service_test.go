package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = &models.Identity{UserID: "author-1", Username: "jere", Role: models.RoleAdmin}

func TestPostLifecycle(t *testing.T) {
	svc := NewPostService(repositories.NewPostRepository(newTestDB(t)))
	ctx := context.Background()

	draft, err := svc.CreatePost(ctx, models.PostInput{
		Title:   "Draft",
		Content: "Not ready",
	}, testAuthor)
	require.NoError(t, err)
	assert.False(t, draft.Published)
	assert.Equal(t, "Not ready", draft.Excerpt)

	post, err := svc.CreatePost(ctx, models.PostInput{
		Title:     "Hello",
		Content:   "# Heading\n\nSome **bold** text.\n\n<script>alert(1)</script>",
		Tags:      []string{" Go ", "Web"},
		Published: true,
	}, testAuthor)
	require.NoError(t, err)
	assert.Equal(t, "jere", post.AuthorName)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	assert.Contains(t, post.ContentHTML, "<h1")
	assert.Contains(t, post.ContentHTML, "<strong>bold</strong>")
	assert.NotContains(t, post.ContentHTML, "<script>")

	published, err := svc.ListPublished(ctx, "")
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, post.ID, published[0].ID)

	tagged, err := svc.ListPublished(ctx, "GO")
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	updated, err := svc.UpdatePost(ctx, draft.ID, models.PostInput{Title: "Ready", Content: "Now ready", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "Ready", updated.Title)

	got, err := svc.GetPublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ready", got.Title)

	require.NoError(t, svc.DeletePost(ctx, draft.ID))
	assert.ErrorIs(t, svc.DeletePost(ctx, draft.ID), models.ErrNotFound)

	_, err = svc.UpdatePost(ctx, "missing", models.PostInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreatePostValidation(t *testing.T) {
	svc := NewPostService(repositories.NewPostRepository(newTestDB(t)))

	_, err := svc.CreatePost(context.Background(), models.PostInput{Content: "body"}, testAuthor)
	assert.ErrorIs(t, err, models.ErrPostTitleRequired)

	_, err = svc.CreatePost(context.Background(), models.PostInput{Title: "title"}, testAuthor)
	assert.ErrorIs(t, err, models.ErrPostContentRequired)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", Excerpt("short\n\n  text"))

	long := strings.Repeat("é", 250)
	got := Excerpt(long)
	assert.Equal(t, 200, utf8.RuneCountInString(got))
}
