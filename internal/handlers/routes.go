package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jerehe1/folio/internal/metrics"
	"github.com/jerehe1/folio/internal/middleware"
)

// Handlers groups the route handlers mounted by SetupRoutes.
type Handlers struct {
	Project    *ProjectHandler
	Screenshot *ScreenshotHandler
	Auth       *AuthHandler
	Blog       *BlogHandler
	Health     *HealthHandler
	NotFound   *NotFoundHandler
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(h Handlers, auth middleware.Authenticator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Screenshot targets arrive path-escaped, including slashes
	router.UseRawPath = true
	router.UnescapePathValues = true

	SetupRoutes(router, h, auth)
	return router
}

// SetupRoutes registers the public, authenticated and admin routes
func SetupRoutes(router *gin.Engine, h Handlers, auth middleware.Authenticator) {
	requireAuth := middleware.AuthRequired(auth)
	requireAdmin := middleware.AdminRequired(auth)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.HealthCheck)
		api.GET("/projects", h.Project.ListProjects)
		api.GET("/screenshot/:target", h.Screenshot.Screenshot)
		api.GET("/blogs", h.Blog.ListPublished)
		api.GET("/blogs/:id", h.Blog.GetPublished)
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/logout", h.Auth.Logout)
		authRoutes.GET("/me", requireAuth, h.Auth.Me)
	}

	admin := api.Group("/admin")
	admin.Use(requireAuth, requireAdmin)
	{
		admin.GET("/projects", h.Project.ListOverrides)
		admin.POST("/projects", h.Project.SaveOverride)
		admin.GET("/projects/github-repos", h.Project.GitHubRepos)
		admin.GET("/projects/export", h.Project.ExportOverrides)
		admin.PUT("/projects/:id", h.Project.ReplaceOverride)
		admin.DELETE("/projects/:id", h.Project.DeleteOverride)
		admin.DELETE("/projects/by-repo/:repo", h.Project.DeleteOverrideByRepo)

		admin.GET("/blogs", h.Blog.ListAll)
		admin.POST("/blogs", h.Blog.Create)
		admin.PUT("/blogs/:id", h.Blog.Update)
		admin.DELETE("/blogs/:id", h.Blog.Delete)
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.NoRoute(h.NotFound.NotFound)
}
