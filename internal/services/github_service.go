package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/jerehe1/folio/internal/metrics"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/config"
	"github.com/jerehe1/folio/pkg/logger"
	"golang.org/x/oauth2"
)

// RepositorySource lists the repositories owned by an account.
type RepositorySource interface {
	ListOwnerRepositories(ctx context.Context, account string, pageSize int) ([]models.RepositorySummary, error)
}

// GitHubSource lists repositories through the GitHub REST API.
type GitHubSource struct {
	client *github.Client
}

// NewGitHubSource builds a client with the configured timeout, optional token
// and optional API base URL.
func NewGitHubSource(cfg config.GitHubConfig) (*GitHubSource, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout

	client := github.NewClient(httpClient)
	if cfg.APIURL != "" {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}

	return &GitHubSource{client: client}, nil
}

// ListOwnerRepositories makes a single listing call for account, most recently
// updated first. Forks are excluded. Any failure is reported as ErrUpstreamUnavailable.
func (s *GitHubSource) ListOwnerRepositories(ctx context.Context, account string, pageSize int) ([]models.RepositorySummary, error) {
	opt := &github.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	repos, _, err := s.client.Repositories.List(ctx, account, opt)
	metrics.ObserveUpstream(err)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"account": account,
			"error":   err.Error(),
		}).Error("Failed to list repositories")
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	summaries := make([]models.RepositorySummary, 0, len(repos))
	for _, repo := range repos {
		if repo.GetFork() {
			continue
		}
		summaries = append(summaries, MapRepository(repo))
	}
	return summaries, nil
}

// MapRepository converts the API representation into a RepositorySummary
func MapRepository(repo *github.Repository) models.RepositorySummary {
	summary := models.RepositorySummary{
		Name:        repo.GetName(),
		Description: repo.GetDescription(),
		Topics:      repo.Topics,
		Language:    repo.GetLanguage(),
		Homepage:    repo.GetHomepage(),
		HTMLURL:     repo.GetHTMLURL(),
		Stars:       repo.GetStargazersCount(),
		Fork:        repo.GetFork(),
	}
	if summary.Topics == nil {
		summary.Topics = []string{}
	}
	if repo.UpdatedAt != nil {
		summary.UpdatedAt = repo.UpdatedAt.Time.UTC()
	}
	return summary
}
