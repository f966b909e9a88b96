package models

import "time"

// RepositorySummary is one repository as reported by the code-hosting API.
// It is fetched per request and never persisted.
type RepositorySummary struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Topics      []string  `json:"topics"`
	Language    string    `json:"language"`
	Homepage    string    `json:"homepage"`
	HTMLURL     string    `json:"htmlUrl"`
	Stars       int       `json:"stars"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Fork        bool      `json:"fork"`
}
