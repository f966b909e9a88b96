package models

import "time"

// ScreenshotRequest identifies one rendering of a page. It is comparable and
// used directly as the cache key.
type ScreenshotRequest struct {
	URL      string
	Width    int
	Height   int
	FullPage bool
}

// Screenshot is a captured PNG together with its capture time.
type Screenshot struct {
	Data       []byte
	CapturedAt time.Time
}
