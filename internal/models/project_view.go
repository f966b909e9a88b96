package models

import "time"

// ProjectView is one entry of the public project list, derived fresh per request.
type ProjectView struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	Language     string    `json:"language,omitempty"`
	GitHub       string    `json:"github"`
	Live         string    `json:"live"`
	Image        string    `json:"image"`
	Featured     bool      `json:"featured"`
	Stars        int       `json:"stars"`
	Order        int       `json:"order"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
