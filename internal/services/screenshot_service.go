package services

import (
	"context"
	"time"

	"github.com/jerehe1/folio/internal/cache"
	"github.com/jerehe1/folio/internal/metrics"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/config"
	"github.com/jerehe1/folio/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Screenshot dimension bounds
const (
	MinScreenshotWidth  = 320
	MaxScreenshotWidth  = 3840
	MinScreenshotHeight = 240
	MaxScreenshotHeight = 2160
)

// CaptureResult is the outcome of a capture. Image is nil when rendering
// failed and the caller should fall back to Placeholder.
type CaptureResult struct {
	Image       *models.Screenshot
	Hit         bool
	Placeholder string
}

// Rendered reports whether an image is available
func (r CaptureResult) Rendered() bool {
	return r.Image != nil
}

// ScreenshotService renders pages through a Renderer and caches the PNGs for a fixed TTL.
type ScreenshotService struct {
	renderer      Renderer
	cache         *cache.TTL[models.ScreenshotRequest, []byte]
	timeout       time.Duration
	placeholder   string
	defaultWidth  int
	defaultHeight int
}

func NewScreenshotService(renderer Renderer, store *cache.TTL[models.ScreenshotRequest, []byte], cfg config.ScreenshotConfig) *ScreenshotService {
	return &ScreenshotService{
		renderer:      renderer,
		cache:         store,
		timeout:       cfg.Timeout,
		placeholder:   cfg.PlaceholderURL,
		defaultWidth:  cfg.Width,
		defaultHeight: cfg.Height,
	}
}

// PlaceholderURL is the static image served when rendering fails
func (s *ScreenshotService) PlaceholderURL() string {
	return s.placeholder
}

// Normalize applies default dimensions and clamps them to the supported range
func (s *ScreenshotService) Normalize(req models.ScreenshotRequest) models.ScreenshotRequest {
	if req.Width <= 0 {
		req.Width = s.defaultWidth
	}
	if req.Height <= 0 {
		req.Height = s.defaultHeight
	}
	req.Width = clamp(req.Width, MinScreenshotWidth, MaxScreenshotWidth)
	req.Height = clamp(req.Height, MinScreenshotHeight, MaxScreenshotHeight)
	return req
}

// Capture returns the cached image for req while it is fresh, otherwise
// renders it once and caches the result. Render failures never surface as
// errors; the result carries the placeholder instead.
func (s *ScreenshotService) Capture(ctx context.Context, req models.ScreenshotRequest) CaptureResult {
	req = s.Normalize(req)
	result := CaptureResult{Placeholder: s.placeholder}

	if data, capturedAt, ok := s.cache.Get(req); ok {
		metrics.ObserveScreenshotLookup(metrics.CacheHit)
		logger.WithField("url", req.URL).Debug("Screenshot cache hit")
		result.Image = &models.Screenshot{Data: data, CapturedAt: capturedAt}
		result.Hit = true
		return result
	}
	metrics.ObserveScreenshotLookup(metrics.CacheMiss)

	// A render that outlives the client request still fills the cache
	renderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	data, err := s.renderer.Render(renderCtx, req)
	if err != nil {
		metrics.ObserveScreenshotFailure()
		logger.WithFields(logrus.Fields{
			"url":   req.URL,
			"error": err.Error(),
		}).Warn("Screenshot render failed, using placeholder")
		return result
	}

	capturedAt := s.cache.Set(req, data)
	result.Image = &models.Screenshot{Data: data, CapturedAt: capturedAt}
	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
