package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Override holds admin-curated metadata for one repository.
// RepoName is unique across all overrides.
type Override struct {
	ID                string    `json:"id"`
	RepoName          string    `json:"repoName"`
	CustomDescription *string   `json:"customDescription"`
	CustomImage       *string   `json:"customImage"`
	LiveURL           *string   `json:"liveUrl"`
	Featured          bool      `json:"featured"`
	Hidden            bool      `json:"hidden"`
	Order             int       `json:"order"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NewOverride creates an Override with defaults and a generated UUID.
func NewOverride(repoName string, now time.Time) *Override {
	return &Override{
		ID:        uuid.New().String(),
		RepoName:  repoName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OverridePatch carries the fields of an upsert. Nil fields leave the stored value untouched.
type OverridePatch struct {
	RepoName          string  `json:"repoName"`
	CustomDescription *string `json:"customDescription"`
	CustomImage       *string `json:"customImage"`
	LiveURL           *string `json:"liveUrl"`
	Featured          *bool   `json:"featured"`
	Hidden            *bool   `json:"hidden"`
	Order             *int    `json:"order"`
}

// Validate checks the patch has a repository identifier.
func (p *OverridePatch) Validate() error {
	p.RepoName = strings.TrimSpace(p.RepoName)
	if p.RepoName == "" {
		return ErrRepoNameRequired
	}
	return nil
}

// Apply merges the set fields of p into o. Empty strings clear optional text fields.
func (p *OverridePatch) Apply(o *Override) {
	if p.CustomDescription != nil {
		o.CustomDescription = normalizeOptional(p.CustomDescription)
	}
	if p.CustomImage != nil {
		o.CustomImage = normalizeOptional(p.CustomImage)
	}
	if p.LiveURL != nil {
		o.LiveURL = normalizeOptional(p.LiveURL)
	}
	if p.Featured != nil {
		o.Featured = *p.Featured
	}
	if p.Hidden != nil {
		o.Hidden = *p.Hidden
	}
	if p.Order != nil {
		o.Order = *p.Order
	}
}

// Validate checks the record before a full replace.
func (o *Override) Validate() error {
	o.RepoName = strings.TrimSpace(o.RepoName)
	if o.RepoName == "" {
		return ErrRepoNameRequired
	}
	o.CustomDescription = normalizeOptional(o.CustomDescription)
	o.CustomImage = normalizeOptional(o.CustomImage)
	o.LiveURL = normalizeOptional(o.LiveURL)
	return nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var (
	ErrRepoNameRequired = NewValidationError("repoName", "Repository name is required")
)
