package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProjectHandler struct {
	projectService  *services.ProjectService
	overrideService *services.OverrideService
	exportService   *services.ExportService
	publicBaseURL   string
}

func NewProjectHandler(
	projectService *services.ProjectService,
	overrideService *services.OverrideService,
	exportService *services.ExportService,
	publicBaseURL string,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		overrideService: overrideService,
		exportService:   exportService,
		publicBaseURL:   strings.TrimRight(publicBaseURL, "/"),
	}
}

// ListProjects returns the public, reconciled project list
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context(), h.origin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GitHubRepos lists the raw repositories for the admin picker
func (h *ProjectHandler) GitHubRepos(c *gin.Context) {
	repos, err := h.projectService.AdminRepositories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repos)
}

// ListOverrides returns every stored override
func (h *ProjectHandler) ListOverrides(c *gin.Context) {
	overrides, err := h.overrideService.ListOverrides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overrides)
}

// SaveOverride creates or merges the override named in the body
func (h *ProjectHandler) SaveOverride(c *gin.Context) {
	var patch models.OverridePatch
	if !bindJSON(c, &patch) {
		return
	}

	override, created, err := h.overrideService.SaveOverride(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, override)
}

// ReplaceOverride overwrites an override by ID
func (h *ProjectHandler) ReplaceOverride(c *gin.Context) {
	var override models.Override
	if !bindJSON(c, &override) {
		return
	}

	updated, err := h.overrideService.ReplaceOverride(c.Request.Context(), c.Param("id"), &override)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteOverride removes an override by ID
func (h *ProjectHandler) DeleteOverride(c *gin.Context) {
	if err := h.overrideService.DeleteOverride(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings removed successfully"})
}

// DeleteOverrideByRepo removes the override of a repository
func (h *ProjectHandler) DeleteOverrideByRepo(c *gin.Context) {
	if err := h.overrideService.DeleteOverrideByRepo(c.Request.Context(), c.Param("repo")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings removed successfully"})
}

// ExportOverrides downloads all overrides as a spreadsheet
func (h *ProjectHandler) ExportOverrides(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteOverridesXLSX(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("project-overrides-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// origin is the configured public base URL, or the scheme and host of the request
func (h *ProjectHandler) origin(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}
