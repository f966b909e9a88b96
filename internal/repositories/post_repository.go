package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jerehe1/folio/internal/models"
)

const postColumns = `id, title, content, excerpt, author_id, author_name, tags, published, cover_image, created_at, updated_at`

// PostRepository persists blog posts in SQLite
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.AuthorID,
		post.AuthorName,
		joinTags(post.Tags),
		boolToInt(post.Published),
		post.CoverImage,
		post.CreatedAt,
		post.UpdatedAt,
	)
	return translateError(err)
}

// Update replaces the editable fields of a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = ?, content = ?, excerpt = ?, tags = ?, published = ?, cover_image = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Content,
		post.Excerpt,
		joinTags(post.Tags),
		boolToInt(post.Published),
		post.CoverImage,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(result)
}

// GetByID returns a post regardless of its published state
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

// List returns posts newest first. publishedOnly hides drafts; a non-empty tag
// restricts the result to posts carrying it.
func (r *PostRepository) List(ctx context.Context, publishedOnly bool, tag string) ([]*models.Post, error) {
	var conditions []string
	var args []any
	if publishedOnly {
		conditions = append(conditions, "published = 1")
	}
	if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
		conditions = append(conditions, "instr(tags, ',' || ? || ',') > 0")
		args = append(args, tag)
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Delete removes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var tags string
	var published int
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.AuthorID,
		&post.AuthorName,
		&tags,
		&published,
		&post.CoverImage,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	post.Tags = parseTags(tags)
	post.Published = published == 1
	return &post, nil
}

// joinTags stores tags as ",a,b," so a single tag can be matched with instr
func joinTags(tags []string) string {
	return "," + strings.Join(tags, ",") + ","
}

func parseTags(stored string) []string {
	stored = strings.Trim(stored, ",")
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, ",")
}
