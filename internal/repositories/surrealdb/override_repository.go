package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jerehe1/folio/internal/models"
	sdk "github.com/surrealdb/surrealdb.go"
)

const overrideTable = "project_override"

// overrideRecord is the stored shape of an override. Records are keyed by
// repository name; uid is the stable identifier exposed to callers.
type overrideRecord struct {
	UID               string  `json:"uid"`
	RepoName          string  `json:"repo_name"`
	CustomDescription *string `json:"custom_description"`
	CustomImage       *string `json:"custom_image"`
	LiveURL           *string `json:"live_url"`
	Featured          bool    `json:"featured"`
	Hidden            bool    `json:"hidden"`
	SortOrder         int     `json:"sort_order"`
	CreatedAt         int64   `json:"created_at"`
	UpdatedAt         int64   `json:"updated_at"`
}

func (r *overrideRecord) toModel() *models.Override {
	return &models.Override{
		ID:                r.UID,
		RepoName:          r.RepoName,
		CustomDescription: r.CustomDescription,
		CustomImage:       r.CustomImage,
		LiveURL:           r.LiveURL,
		Featured:          r.Featured,
		Hidden:            r.Hidden,
		Order:             r.SortOrder,
		CreatedAt:         time.Unix(0, r.CreatedAt).UTC(),
		UpdatedAt:         time.Unix(0, r.UpdatedAt).UTC(),
	}
}

// OverrideRepository persists project overrides in SurrealDB.
type OverrideRepository struct {
	db  *sdk.DB
	now func() time.Time
}

func NewOverrideRepository(db *sdk.DB) *OverrideRepository {
	return &OverrideRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *OverrideRepository) InitSchema(ctx context.Context) error {
	schema := `
DEFINE TABLE IF NOT EXISTS project_override SCHEMAFULL;

DEFINE FIELD IF NOT EXISTS uid                ON TABLE project_override TYPE string;
DEFINE FIELD IF NOT EXISTS repo_name          ON TABLE project_override TYPE string;
DEFINE FIELD IF NOT EXISTS custom_description ON TABLE project_override TYPE option<string>;
DEFINE FIELD IF NOT EXISTS custom_image       ON TABLE project_override TYPE option<string>;
DEFINE FIELD IF NOT EXISTS live_url           ON TABLE project_override TYPE option<string>;
DEFINE FIELD IF NOT EXISTS featured           ON TABLE project_override TYPE bool DEFAULT false;
DEFINE FIELD IF NOT EXISTS hidden             ON TABLE project_override TYPE bool DEFAULT false;
DEFINE FIELD IF NOT EXISTS sort_order         ON TABLE project_override TYPE int DEFAULT 0;
DEFINE FIELD IF NOT EXISTS created_at         ON TABLE project_override TYPE int;
DEFINE FIELD IF NOT EXISTS updated_at         ON TABLE project_override TYPE int;

DEFINE INDEX IF NOT EXISTS idx_uid       ON TABLE project_override FIELDS uid UNIQUE;
DEFINE INDEX IF NOT EXISTS idx_repo_name ON TABLE project_override FIELDS repo_name UNIQUE;
`
	if _, err := sdk.Query[any](ctx, r.db, schema, nil); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (r *OverrideRepository) selectOne(ctx context.Context, query string, vars map[string]any) (*models.Override, error) {
	records, err := r.query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.ErrNotFound
	}
	return records[0].toModel(), nil
}

func (r *OverrideRepository) query(ctx context.Context, query string, vars map[string]any) ([]overrideRecord, error) {
	results, err := sdk.Query[[]overrideRecord](ctx, r.db, query, vars)
	if err != nil {
		return nil, translateError(err)
	}
	if len(*results) == 0 {
		return nil, nil
	}
	// Only the final statement's result matters for multi-statement queries
	return (*results)[len(*results)-1].Result, nil
}

func (r *OverrideRepository) GetByID(ctx context.Context, id string) (*models.Override, error) {
	return r.selectOne(ctx,
		`SELECT * FROM project_override WHERE uid = $uid`,
		map[string]any{"uid": id})
}

func (r *OverrideRepository) GetByRepoName(ctx context.Context, repoName string) (*models.Override, error) {
	return r.selectOne(ctx,
		`SELECT * FROM type::thing("project_override", $key)`,
		map[string]any{"key": repoName})
}

// List returns every override, highest sort order first, then most recently modified
func (r *OverrideRepository) List(ctx context.Context) ([]*models.Override, error) {
	records, err := r.query(ctx,
		`SELECT * FROM project_override ORDER BY sort_order DESC, updated_at DESC`, nil)
	if err != nil {
		return nil, err
	}
	overrides := make([]*models.Override, 0, len(records))
	for i := range records {
		overrides = append(overrides, records[i].toModel())
	}
	return overrides, nil
}

// Upsert merges the set fields of the patch into the record keyed by repo name
// in one statement. uid and created_at keep their stored values when present.
func (r *OverrideRepository) Upsert(ctx context.Context, patch models.OverridePatch) (*models.Override, bool, error) {
	newID := uuid.New().String()
	vars := map[string]any{
		"key": patch.RepoName,
		"uid": newID,
		"now": r.now().UnixNano(),
	}
	sets := []string{
		"uid = uid OR $uid",
		"repo_name = $key",
		"created_at = created_at OR $now",
		"updated_at = $now",
	}

	var scratch models.Override
	patch.Apply(&scratch)

	optional := func(field string, given bool, value *string) {
		if !given {
			return
		}
		if value == nil {
			sets = append(sets, field+" = NONE")
			return
		}
		sets = append(sets, field+" = $"+field)
		vars[field] = *value
	}
	optional("custom_description", patch.CustomDescription != nil, scratch.CustomDescription)
	optional("custom_image", patch.CustomImage != nil, scratch.CustomImage)
	optional("live_url", patch.LiveURL != nil, scratch.LiveURL)
	if patch.Featured != nil {
		sets = append(sets, "featured = $featured")
		vars["featured"] = scratch.Featured
	}
	if patch.Hidden != nil {
		sets = append(sets, "hidden = $hidden")
		vars["hidden"] = scratch.Hidden
	}
	if patch.Order != nil {
		sets = append(sets, "sort_order = $sort_order")
		vars["sort_order"] = scratch.Order
	}

	query := `UPSERT type::thing("project_override", $key) SET ` +
		strings.Join(sets, ", ") +
		` RETURN AFTER`
	override, err := r.selectOne(ctx, query, vars)
	if err != nil {
		return nil, false, err
	}
	return override, override.ID == newID, nil
}

// Replace overwrites every editable field of the override with the same ID.
// A changed repo name moves the record to its new key.
func (r *OverrideRepository) Replace(ctx context.Context, override *models.Override) error {
	current, err := r.GetByID(ctx, override.ID)
	if err != nil {
		return err
	}
	override.CreatedAt = current.CreatedAt
	override.UpdatedAt = r.now()
	content := recordContent(override)

	if current.RepoName == override.RepoName {
		_, err := r.query(ctx,
			`UPDATE type::thing("project_override", $key) CONTENT $data RETURN NONE`,
			map[string]any{"key": override.RepoName, "data": content})
		return err
	}

	if _, err := r.GetByRepoName(ctx, override.RepoName); err == nil {
		return models.ErrConflict
	}
	_, err = r.query(ctx, `
BEGIN TRANSACTION;
DELETE type::thing("project_override", $old);
CREATE type::thing("project_override", $key) CONTENT $data RETURN NONE;
COMMIT TRANSACTION;`,
		map[string]any{"old": current.RepoName, "key": override.RepoName, "data": content})
	return err
}

func (r *OverrideRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.query(ctx,
		`DELETE project_override WHERE uid = $uid RETURN BEFORE`,
		map[string]any{"uid": id})
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *OverrideRepository) DeleteByRepoName(ctx context.Context, repoName string) (bool, error) {
	deleted, err := r.query(ctx,
		`DELETE type::thing("project_override", $key) RETURN BEFORE`,
		map[string]any{"key": repoName})
	if err != nil {
		return false, err
	}
	return len(deleted) > 0, nil
}

// recordContent omits unset optional fields so they are stored as NONE rather than NULL.
func recordContent(o *models.Override) map[string]any {
	data := map[string]any{
		"uid":        o.ID,
		"repo_name":  o.RepoName,
		"featured":   o.Featured,
		"hidden":     o.Hidden,
		"sort_order": o.Order,
		"created_at": o.CreatedAt.UnixNano(),
		"updated_at": o.UpdatedAt.UnixNano(),
	}
	if o.CustomDescription != nil {
		data["custom_description"] = *o.CustomDescription
	}
	if o.CustomImage != nil {
		data["custom_image"] = *o.CustomImage
	}
	if o.LiveURL != nil {
		data["live_url"] = *o.LiveURL
	}
	return data
}

func translateError(err error) error {
	if strings.Contains(err.Error(), "already contains") {
		return models.ErrConflict
	}
	return err
}
