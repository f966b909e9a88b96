package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/internal/services"
)

type ScreenshotHandler struct {
	screenshotService *services.ScreenshotService
	cacheControl      string
}

func NewScreenshotHandler(screenshotService *services.ScreenshotService, cacheTTL time.Duration) *ScreenshotHandler {
	return &ScreenshotHandler{
		screenshotService: screenshotService,
		cacheControl:      "public, max-age=" + strconv.Itoa(int(cacheTTL.Seconds())),
	}
}

// Screenshot serves a PNG of the page named by the path-escaped target URL,
// or redirects to the placeholder when it cannot be rendered
func (h *ScreenshotHandler) Screenshot(c *gin.Context) {
	target := strings.TrimSpace(c.Param("target"))
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid http(s) URL is required", "field": "target"})
		return
	}

	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))
	fullPage, _ := strconv.ParseBool(c.Query("fullPage"))

	result := h.screenshotService.Capture(c.Request.Context(), models.ScreenshotRequest{
		URL:      u.String(),
		Width:    width,
		Height:   height,
		FullPage: fullPage,
	})
	if !result.Rendered() {
		c.Redirect(http.StatusFound, result.Placeholder)
		return
	}

	cacheStatus := "MISS"
	if result.Hit {
		cacheStatus = "HIT"
	}
	c.Header("Cache-Control", h.cacheControl)
	c.Header("X-Cache", cacheStatus)
	c.Data(http.StatusOK, "image/png", result.Image.Data)
}
