package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. Content is markdown; ContentHTML is rendered on read.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml,omitempty"`
	Excerpt     string    `json:"excerpt"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	Tags        []string  `json:"tags"`
	Published   bool      `json:"published"`
	CoverImage  string    `json:"coverImage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PostInput is the editable part of a post as sent by the admin panel.
type PostInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
	CoverImage string   `json:"coverImage"`
}

// Validate trims the input and checks required fields.
func (in *PostInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	if in.Title == "" {
		return ErrPostTitleRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return ErrPostContentRequired
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	in.Tags = tags
	return nil
}

// NewPost creates a Post from validated input with a generated UUID.
func NewPost(in PostInput, author *Identity, now time.Time) *Post {
	p := &Post{
		ID:         uuid.New().String(),
		AuthorID:   author.UserID,
		AuthorName: author.Username,
		CreatedAt:  now,
	}
	p.ApplyInput(in, now)
	return p
}

// ApplyInput replaces the editable fields of p.
func (p *Post) ApplyInput(in PostInput, now time.Time) {
	p.Title = in.Title
	p.Content = in.Content
	p.Excerpt = in.Excerpt
	p.Tags = in.Tags
	p.Published = in.Published
	p.CoverImage = in.CoverImage
	p.UpdatedAt = now
}

var (
	ErrPostTitleRequired   = NewValidationError("title", "Title is required")
	ErrPostContentRequired = NewValidationError("content", "Content is required")
)
