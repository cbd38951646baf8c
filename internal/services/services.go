// package services implements the SoundCloud API client adapter
package services

import (
	"context"

	"github.com/desertthunder/scx/internal/models"
)

// Preference keys holding the session tokens.
const (
	PrefAccessToken  = "access_token"
	PrefRefreshToken = "refresh_token"
)

// WebRequests is the transport capability requests are sent through.
//
// Implementations return an [*HTTPError] carrying status and body for failure statuses (>= 400).
// Redirects are not followed: a 302 is reported as a [Response].
type WebRequests interface {
	Get(ctx context.Context, url string) (*Response, error)
	Post(ctx context.Context, url, body string) (*Response, error)
}

// Response is the status and body of a completed request.
type Response struct {
	Status int
	Value  string
}

// Preferences is a durable string key-value store.
type Preferences interface {
	// Get returns the stored value, or "" with a nil error when key is absent.
	Get(key string) (string, error)

	// Set writes every key in values as a single atomic update.
	Set(values map[string]string) error
}

// ItemFactory builds host-domain items from primitive fields.
type ItemFactory interface {
	NewPlayable(f models.PlayableFields) models.Item
	NewBrowsable(f models.BrowsableFields) models.Item
}
