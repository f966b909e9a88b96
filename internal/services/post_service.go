package services

import (
	"bytes"
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/logger"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// excerptLength is the rune length of a generated excerpt
const excerptLength = 200

// PostStore persists blog posts.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, publishedOnly bool, tag string) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
}

type PostService struct {
	posts    PostStore
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	now      func() time.Time
}

func NewPostService(posts PostStore) *PostService {
	return &PostService{
		posts:    posts,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListPublished returns published posts, newest first, optionally filtered by tag
func (s *PostService) ListPublished(ctx context.Context, tag string) ([]*models.Post, error) {
	return s.list(ctx, true, tag)
}

// ListAll returns every post including drafts
func (s *PostService) ListAll(ctx context.Context) ([]*models.Post, error) {
	return s.list(ctx, false, "")
}

func (s *PostService) list(ctx context.Context, publishedOnly bool, tag string) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx, publishedOnly, strings.ToLower(strings.TrimSpace(tag)))
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		s.render(p)
	}
	return posts, nil
}

// GetPublished returns a published post. Drafts are reported as not found.
func (s *PostService) GetPublished(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, models.ErrNotFound
	}
	s.render(post)
	return post, nil
}

// CreatePost stores a new post authored by the caller
func (s *PostService) CreatePost(ctx context.Context, in models.PostInput, author *models.Identity) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Excerpt == "" {
		in.Excerpt = Excerpt(in.Content)
	}

	post := models.NewPost(in, author, s.now())
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"post_id": post.ID,
		"author":  author.Username,
	}).Info("Post created")
	s.render(post)
	return post, nil
}

// UpdatePost replaces the editable fields of an existing post
func (s *PostService) UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Excerpt == "" {
		in.Excerpt = Excerpt(in.Content)
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.ApplyInput(in, s.now())
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.render(post)
	return post, nil
}

// DeletePost removes a post by ID
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithField("post_id", id).Info("Post deleted")
	return nil
}

// render fills ContentHTML with sanitized HTML for the markdown content
func (s *PostService) render(post *models.Post) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(post.Content), &buf); err != nil {
		logger.WithFields(logrus.Fields{
			"post_id": post.ID,
			"error":   err.Error(),
		}).Warn("Failed to render markdown")
		post.ContentHTML = s.policy.Sanitize(post.Content)
		return
	}
	post.ContentHTML = string(s.policy.SanitizeBytes(buf.Bytes()))
}

// Excerpt returns the first runes of content with whitespace collapsed
func Excerpt(content string) string {
	plain := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(plain) <= excerptLength {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:excerptLength]))
}
