package services

import (
	"context"

	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/config"
	"golang.org/x/sync/errgroup"
)

type ProjectService struct {
	source           RepositorySource
	overrides        OverrideStore
	account          string
	pageSize         int
	adminPageSize    int
	placeholderImage string
}

func NewProjectService(source RepositorySource, overrides OverrideStore, gh config.GitHubConfig, placeholderImage string) *ProjectService {
	return &ProjectService{
		source:           source,
		overrides:        overrides,
		account:          gh.Account,
		pageSize:         gh.PageSize,
		adminPageSize:    gh.AdminPageSize,
		placeholderImage: placeholderImage,
	}
}

// ListProjects fetches repositories and overrides concurrently and reconciles
// them. origin is the scheme and host used for screenshot proxy URLs.
func (s *ProjectService) ListProjects(ctx context.Context, origin string) ([]models.ProjectView, error) {
	var summaries []models.RepositorySummary
	var overrides []*models.Override

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summaries, err = s.source.ListOwnerRepositories(gctx, s.account, s.pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = s.overrides.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ReconcileProjects(summaries, IndexOverrides(overrides), ReconcileOptions{
		Account:          s.account,
		Origin:           origin,
		PlaceholderImage: s.placeholderImage,
	}), nil
}

// AdminRepositories returns the raw repository summaries for the admin picker
func (s *ProjectService) AdminRepositories(ctx context.Context) ([]models.RepositorySummary, error) {
	summaries, err := s.source.ListOwnerRepositories(ctx, s.account, s.adminPageSize)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		if summaries[i].Description == "" {
			summaries[i].Description = NoDescription
		}
	}
	return summaries, nil
}
