package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jerehe1/folio/internal/middleware"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/internal/services"
)

type BlogHandler struct {
	postService *services.PostService
}

func NewBlogHandler(postService *services.PostService) *BlogHandler {
	return &BlogHandler{postService: postService}
}

// ListPublished returns published posts, optionally filtered by ?tag=
func (h *BlogHandler) ListPublished(c *gin.Context) {
	posts, err := h.postService.ListPublished(c.Request.Context(), c.Query("tag"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPublished returns one published post
func (h *BlogHandler) GetPublished(c *gin.Context) {
	post, err := h.postService.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListAll returns every post including drafts
func (h *BlogHandler) ListAll(c *gin.Context) {
	posts, err := h.postService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Create stores a new post authored by the caller
func (h *BlogHandler) Create(c *gin.Context) {
	var in models.PostInput
	if !bindJSON(c, &in) {
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), in, middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Update replaces the editable fields of a post
func (h *BlogHandler) Update(c *gin.Context) {
	var in models.PostInput
	if !bindJSON(c, &in) {
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete removes a post
func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted"})
}
