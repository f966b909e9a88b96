package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/config"
)

// maxScreenshotBytes bounds a rendered image read into memory
const maxScreenshotBytes = 10 << 20

var ErrRendererDisabled = errors.New("screenshot rendering is not configured")

// Renderer turns a page address into PNG bytes.
type Renderer interface {
	Render(ctx context.Context, req models.ScreenshotRequest) ([]byte, error)
}

// HTTPRenderer calls a hosted screenshot API with an access key.
type HTTPRenderer struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

func NewHTTPRenderer(cfg config.ScreenshotConfig) *HTTPRenderer {
	return &HTTPRenderer{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.APIURL,
		apiKey:   cfg.APIKey,
	}
}

// Render makes one request to the rendering API. Non-2xx responses and
// non-image bodies are errors.
func (r *HTTPRenderer) Render(ctx context.Context, req models.ScreenshotRequest) ([]byte, error) {
	if r.apiKey == "" {
		return nil, ErrRendererDisabled
	}

	params := url.Values{}
	params.Set("access_key", r.apiKey)
	params.Set("url", req.URL)
	params.Set("viewport_width", strconv.Itoa(req.Width))
	params.Set("viewport_height", strconv.Itoa(req.Height))
	params.Set("full_page", strconv.FormatBool(req.FullPage))
	params.Set("format", "png")
	params.Set("block_ads", "true")
	params.Set("block_cookie_banners", "true")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build render request: %w", err)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rendering API returned status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("rendering API returned content type %q", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxScreenshotBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("rendering API returned an empty body")
	}
	return data, nil
}
