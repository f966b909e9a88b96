package services

import (
	"context"
	"strings"

	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/logger"
	"github.com/sirupsen/logrus"
)

type OverrideService struct {
	store OverrideStore
}

func NewOverrideService(store OverrideStore) *OverrideService {
	return &OverrideService{store: store}
}

// ListOverrides returns every override, highest order first
func (s *OverrideService) ListOverrides(ctx context.Context) ([]*models.Override, error) {
	return s.store.List(ctx)
}

// GetOverride retrieves an override by ID
func (s *OverrideService) GetOverride(ctx context.Context, id string) (*models.Override, error) {
	return s.store.GetByID(ctx, id)
}

// SaveOverride creates or merges the override for patch.RepoName
func (s *OverrideService) SaveOverride(ctx context.Context, patch models.OverridePatch) (*models.Override, bool, error) {
	if err := patch.Validate(); err != nil {
		return nil, false, err
	}

	override, created, err := s.store.Upsert(ctx, patch)
	if err != nil {
		return nil, false, err
	}

	logger.WithFields(logrus.Fields{
		"repo_name": override.RepoName,
		"created":   created,
	}).Info("Project override saved")
	return override, created, nil
}

// ReplaceOverride overwrites all editable fields of the override with id
func (s *OverrideService) ReplaceOverride(ctx context.Context, id string, override *models.Override) (*models.Override, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, models.ErrNotFound
	}
	if err := override.Validate(); err != nil {
		return nil, err
	}

	override.ID = id
	if err := s.store.Replace(ctx, override); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

// DeleteOverride removes an override by ID
func (s *OverrideService) DeleteOverride(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithField("id", id).Info("Project override deleted")
	return nil
}

// DeleteOverrideByRepo removes the override of a repository
func (s *OverrideService) DeleteOverrideByRepo(ctx context.Context, repoName string) error {
	deleted, err := s.store.DeleteByRepoName(ctx, repoName)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrNotFound
	}
	logger.WithField("repo_name", repoName).Info("Project override deleted")
	return nil
}
