package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jerehe1/folio/internal/models"
)

const overrideColumns = `id, repo_name, custom_description, custom_image, live_url, featured, hidden, sort_order, created_at, updated_at`

// OverrideRepository persists project overrides in SQLite.
type OverrideRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewOverrideRepository(db *sql.DB) *OverrideRepository {
	return &OverrideRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source, used by tests.
func (r *OverrideRepository) WithClock(now func() time.Time) *OverrideRepository {
	r.now = now
	return r
}

func scanOverride(row rowScanner) (*models.Override, error) {
	var o models.Override
	var description, image, liveURL sql.NullString
	var featured, hidden int
	err := row.Scan(
		&o.ID,
		&o.RepoName,
		&description,
		&image,
		&liveURL,
		&featured,
		&hidden,
		&o.Order,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	o.CustomDescription = stringPtr(description)
	o.CustomImage = stringPtr(image)
	o.LiveURL = stringPtr(liveURL)
	o.Featured = featured == 1
	o.Hidden = hidden == 1
	return &o, nil
}

// GetByID retrieves an override by its primary key
func (r *OverrideRepository) GetByID(ctx context.Context, id string) (*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM project_overrides WHERE id = ?`
	return scanOverride(r.db.QueryRowContext(ctx, query, id))
}

// GetByRepoName retrieves an override by repository identifier
func (r *OverrideRepository) GetByRepoName(ctx context.Context, repoName string) (*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM project_overrides WHERE repo_name = ?`
	return scanOverride(r.db.QueryRowContext(ctx, query, repoName))
}

// List returns every override, highest sort order first, then most recently modified
func (r *OverrideRepository) List(ctx context.Context) ([]*models.Override, error) {
	query := `SELECT ` + overrideColumns + ` FROM project_overrides ORDER BY sort_order DESC, updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := []*models.Override{}
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// Upsert creates the override for patch.RepoName or merges the set fields of
// patch into the existing one. The boolean reports whether a record was created.
func (r *OverrideRepository) Upsert(ctx context.Context, patch models.OverridePatch) (*models.Override, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	now := r.now()
	created := false

	query := `SELECT ` + overrideColumns + ` FROM project_overrides WHERE repo_name = ?`
	override, err := scanOverride(tx.QueryRowContext(ctx, query, patch.RepoName))
	switch {
	case errors.Is(err, models.ErrNotFound):
		override = models.NewOverride(patch.RepoName, now)
		created = true
	case err != nil:
		return nil, false, err
	}

	patch.Apply(override)
	override.UpdatedAt = now

	if created {
		err = insertOverride(ctx, tx, override)
	} else {
		err = updateOverride(ctx, tx, override)
	}
	if err != nil {
		return nil, false, translateError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return override, created, nil
}

// Replace overwrites every editable field of the override with the same ID
func (r *OverrideRepository) Replace(ctx context.Context, override *models.Override) error {
	override.UpdatedAt = r.now()

	query := `
		UPDATE project_overrides
		SET repo_name = ?, custom_description = ?, custom_image = ?, live_url = ?,
			featured = ?, hidden = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		override.RepoName,
		nullString(override.CustomDescription),
		nullString(override.CustomImage),
		nullString(override.LiveURL),
		boolToInt(override.Featured),
		boolToInt(override.Hidden),
		override.Order,
		override.UpdatedAt,
		override.ID,
	)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(result)
}

// Delete removes an override by its primary key
func (r *OverrideRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM project_overrides WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteByRepoName removes the override for a repository, reporting whether one existed
func (r *OverrideRepository) DeleteByRepoName(ctx context.Context, repoName string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM project_overrides WHERE repo_name = ?`, repoName)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func insertOverride(ctx context.Context, tx *sql.Tx, o *models.Override) error {
	query := `
		INSERT INTO project_overrides (` + overrideColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, query,
		o.ID,
		o.RepoName,
		nullString(o.CustomDescription),
		nullString(o.CustomImage),
		nullString(o.LiveURL),
		boolToInt(o.Featured),
		boolToInt(o.Hidden),
		o.Order,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func updateOverride(ctx context.Context, tx *sql.Tx, o *models.Override) error {
	query := `
		UPDATE project_overrides
		SET custom_description = ?, custom_image = ?, live_url = ?,
			featured = ?, hidden = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := tx.ExecContext(ctx, query,
		nullString(o.CustomDescription),
		nullString(o.CustomImage),
		nullString(o.LiveURL),
		boolToInt(o.Featured),
		boolToInt(o.Hidden),
		o.Order,
		o.UpdatedAt,
		o.ID,
	)
	return err
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
