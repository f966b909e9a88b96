package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3}

func newTestRenderer(t *testing.T, apiKey string) *HTTPRenderer {
	t.Helper()
	r := NewHTTPRenderer(config.ScreenshotConfig{
		APIURL:  "https://render.example.com/take",
		APIKey:  apiKey,
		Timeout: time.Second,
	})
	gock.InterceptClient(r.client)
	t.Cleanup(func() {
		gock.RestoreClient(r.client)
		gock.Off()
	})
	return r
}

var renderRequest = models.ScreenshotRequest{URL: "https://jerehe1.github.io/blog/", Width: 1280, Height: 800}

func TestHTTPRendererSuccess(t *testing.T) {
	r := newTestRenderer(t, "secret")

	gock.New("https://render.example.com").
		Get("/take").
		MatchParam("access_key", "secret").
		MatchParam("url", "https://jerehe1.github.io/blog/").
		MatchParam("viewport_width", "1280").
		MatchParam("viewport_height", "800").
		MatchParam("full_page", "false").
		MatchParam("format", "png").
		Reply(200).
		SetHeader("Content-Type", "image/png").
		BodyString(string(pngBytes))

	data, err := r.Render(context.Background(), renderRequest)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.True(t, gock.IsDone())
}

func TestHTTPRendererFailures(t *testing.T) {
	cases := []struct {
		name  string
		setup func()
	}{
		{"server error", func() {
			gock.New("https://render.example.com").Get("/take").Reply(500).BodyString("oops")
		}},
		{"non image body", func() {
			gock.New("https://render.example.com").Get("/take").Reply(200).
				SetHeader("Content-Type", "application/json").BodyString(`{"error":"quota"}`)
		}},
		{"empty body", func() {
			gock.New("https://render.example.com").Get("/take").Reply(200).SetHeader("Content-Type", "image/png")
		}},
		{"network error", func() {
			gock.New("https://render.example.com").Get("/take").ReplyError(errors.New("connection reset"))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRenderer(t, "secret")
			tc.setup()

			data, err := r.Render(context.Background(), renderRequest)
			assert.Error(t, err)
			assert.Nil(t, data)
		})
	}
}

func TestHTTPRendererWithoutKey(t *testing.T) {
	r := newTestRenderer(t, "")
	_, err := r.Render(context.Background(), renderRequest)
	assert.ErrorIs(t, err, ErrRendererDisabled)
}
