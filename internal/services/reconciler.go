package services

import (
	"net/url"
	"sort"
	"strings"

	"github.com/jerehe1/folio/internal/models"
)

// NoDescription is shown when neither the override nor the repository has a description
const NoDescription = "No description available"

// ReconcileOptions carries the request-scoped inputs of ReconcileProjects.
type ReconcileOptions struct {
	// Account owns the repositories; used for the pages-hosting fallback URL
	Account string
	// Origin is the scheme and host the screenshot proxy is served from, e.g. https://example.com
	Origin string
	// PlaceholderImage is used when no other image can be derived
	PlaceholderImage string
}

// ReconcileProjects merges repository summaries with their overrides into the
// public project list. Forks and hidden projects are dropped. The result is
// sorted featured first, then by order descending, then most recently updated.
func ReconcileProjects(summaries []models.RepositorySummary, overrides map[string]*models.Override, opts ReconcileOptions) []models.ProjectView {
	projects := make([]models.ProjectView, 0, len(summaries))

	for _, summary := range summaries {
		if summary.Fork {
			continue
		}

		override := overrides[summary.Name]
		if override == nil {
			override = &models.Override{RepoName: summary.Name}
		}
		if override.Hidden {
			continue
		}

		live := EffectiveLiveURL(summary, override, opts.Account)
		projects = append(projects, models.ProjectView{
			ID:           summary.Name,
			Title:        summary.Name,
			Description:  effectiveDescription(summary, override),
			Technologies: technologies(summary),
			Language:     summary.Language,
			GitHub:       summary.HTMLURL,
			Live:         live,
			Image:        effectiveImage(override, live, opts),
			Featured:     override.Featured,
			Stars:        summary.Stars,
			Order:        override.Order,
			UpdatedAt:    summary.UpdatedAt,
		})
	}

	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i], projects[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if a.Order != b.Order {
			return a.Order > b.Order
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})

	return projects
}

// EffectiveLiveURL picks the repository homepage, then the override live URL,
// skipping either when it points back at the source host. Without either it
// falls back to the account's pages-hosting URL.
func EffectiveLiveURL(summary models.RepositorySummary, override *models.Override, account string) string {
	if live := normalizeLiveURL(summary.Homepage); live != "" && !IsSourceHostURL(live) {
		return live
	}
	if override != nil && override.LiveURL != nil {
		if live := normalizeLiveURL(*override.LiveURL); live != "" && !IsSourceHostURL(live) {
			return live
		}
	}
	return PagesURL(account, summary.Name)
}

// PagesURL is the deterministic pages-hosting address of a repository
func PagesURL(account, repoName string) string {
	return "https://" + strings.ToLower(account) + ".github.io/" + repoName + "/"
}

// ScreenshotURL builds the same-origin proxy address that renders target
func ScreenshotURL(origin, target string) string {
	return strings.TrimRight(origin, "/") + "/api/screenshot/" + url.PathEscape(target)
}

// IsSourceHostURL reports whether raw points at the code-hosting site itself
func IsSourceHostURL(raw string) bool {
	u, err := url.Parse(normalizeLiveURL(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Hostname()) {
	case "github.com", "www.github.com":
		return true
	}
	return false
}

// normalizeLiveURL trims the value and adds an https scheme to bare hosts
func normalizeLiveURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

func effectiveImage(override *models.Override, live string, opts ReconcileOptions) string {
	if override.CustomImage != nil && *override.CustomImage != "" {
		return *override.CustomImage
	}
	if live != "" && !IsSourceHostURL(live) {
		return ScreenshotURL(opts.Origin, live)
	}
	return opts.PlaceholderImage
}

func effectiveDescription(summary models.RepositorySummary, override *models.Override) string {
	if override.CustomDescription != nil {
		if d := strings.TrimSpace(*override.CustomDescription); d != "" {
			return d
		}
	}
	if d := strings.TrimSpace(summary.Description); d != "" {
		return d
	}
	return NoDescription
}

// technologies is the union of topics and language, deduplicated
// case-insensitively in first-seen order
func technologies(summary models.RepositorySummary) []string {
	seen := make(map[string]bool, len(summary.Topics)+1)
	techs := make([]string, 0, len(summary.Topics)+1)

	add := func(t string) {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			return
		}
		seen[key] = true
		techs = append(techs, t)
	}

	for _, topic := range summary.Topics {
		add(topic)
	}
	add(summary.Language)
	return techs
}

// IndexOverrides keys overrides by repository name
func IndexOverrides(overrides []*models.Override) map[string]*models.Override {
	index := make(map[string]*models.Override, len(overrides))
	for _, o := range overrides {
		index[o.RepoName] = o
	}
	return index
}
