package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jerehe1/folio/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const overrideCollection = "project_overrides"

// overrideDocument is the stored shape of an override
type overrideDocument struct {
	ID                string    `bson:"_id"`
	RepoName          string    `bson:"repo_name"`
	CustomDescription *string   `bson:"custom_description"`
	CustomImage       *string   `bson:"custom_image"`
	LiveURL           *string   `bson:"live_url"`
	Featured          bool      `bson:"featured"`
	Hidden            bool      `bson:"hidden"`
	Order             int       `bson:"sort_order"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func (d *overrideDocument) toModel() *models.Override {
	return &models.Override{
		ID:                d.ID,
		RepoName:          d.RepoName,
		CustomDescription: d.CustomDescription,
		CustomImage:       d.CustomImage,
		LiveURL:           d.LiveURL,
		Featured:          d.Featured,
		Hidden:            d.Hidden,
		Order:             d.Order,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

// OverrideRepository persists project overrides as MongoDB documents.
type OverrideRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewOverrideRepository(db *mongo.Database) *OverrideRepository {
	return &OverrideRepository{
		collection: db.Collection(overrideCollection),
		// BSON dates carry millisecond precision
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureIndexes creates the unique index on repo_name.
func (r *OverrideRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "repo_name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_repo_name"),
	})
	return err
}

func (r *OverrideRepository) findOne(ctx context.Context, filter bson.M) (*models.Override, error) {
	var doc overrideDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toModel(), nil
}

func (r *OverrideRepository) GetByID(ctx context.Context, id string) (*models.Override, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *OverrideRepository) GetByRepoName(ctx context.Context, repoName string) (*models.Override, error) {
	return r.findOne(ctx, bson.M{"repo_name": repoName})
}

// List returns every override, highest sort order first, then most recently modified
func (r *OverrideRepository) List(ctx context.Context) ([]*models.Override, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: -1},
		{Key: "updated_at", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	overrides := []*models.Override{}
	for cursor.Next(ctx) {
		var doc overrideDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		overrides = append(overrides, doc.toModel())
	}
	return overrides, cursor.Err()
}

// Upsert is a single findOneAndUpdate: set fields go to $set, defaults for the
// rest only apply on insert, so concurrent writers never lose the document.
func (r *OverrideRepository) Upsert(ctx context.Context, patch models.OverridePatch) (*models.Override, bool, error) {
	now := r.now()
	newID := uuid.New().String()

	// Apply to a scratch record to get the normalized values of the set fields
	var scratch models.Override
	patch.Apply(&scratch)

	set := bson.M{"updated_at": now}
	onInsert := bson.M{
		"_id":        newID,
		"repo_name":  patch.RepoName,
		"created_at": now,
	}
	assign := func(key string, given bool, value, zero any) {
		if given {
			set[key] = value
		} else {
			onInsert[key] = zero
		}
	}
	assign("custom_description", patch.CustomDescription != nil, scratch.CustomDescription, nil)
	assign("custom_image", patch.CustomImage != nil, scratch.CustomImage, nil)
	assign("live_url", patch.LiveURL != nil, scratch.LiveURL, nil)
	assign("featured", patch.Featured != nil, scratch.Featured, false)
	assign("hidden", patch.Hidden != nil, scratch.Hidden, false)
	assign("sort_order", patch.Order != nil, scratch.Order, 0)

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc overrideDocument
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"repo_name": patch.RepoName},
		bson.M{"$set": set, "$setOnInsert": onInsert},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, false, translateError(err)
	}
	return doc.toModel(), doc.ID == newID, nil
}

// Replace overwrites every editable field of the override with the same ID
func (r *OverrideRepository) Replace(ctx context.Context, override *models.Override) error {
	override.UpdatedAt = r.now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": override.ID},
		bson.M{"$set": bson.M{
			"repo_name":          override.RepoName,
			"custom_description": override.CustomDescription,
			"custom_image":       override.CustomImage,
			"live_url":           override.LiveURL,
			"featured":           override.Featured,
			"hidden":             override.Hidden,
			"sort_order":         override.Order,
			"updated_at":         override.UpdatedAt,
		}},
	)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *OverrideRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *OverrideRepository) DeleteByRepoName(ctx context.Context, repoName string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"repo_name": repoName})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func translateError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrConflict
	}
	return err
}
