package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/shared"
)

// streamEndpoint is the ad-hoc route for resolving a stream redirect.
var streamEndpoint = Endpoint{Name: "stream_url", Method: MethodGet}

// ResolveStreamURL follows one short-lived redirect for a stream URI.
//
// An absolute uri is requested as given; a relative one is joined onto the API base URL. Its query
// (e.g. a private track's secret_token) is kept either way.
// Only a 302 whose body carries a "location" field succeeds; anything else fails with [shared.ErrNotStreamable].
func (s *SoundCloudService) ResolveStreamURL(ctx context.Context, uri string) (string, error) {
	target, err := s.streamTarget(uri)
	if err != nil {
		return "", err
	}

	resp, err := s.executor.ExecuteURL(ctx, streamEndpoint, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrNotStreamable, err)
	}

	if resp.Status != http.StatusFound {
		return "", fmt.Errorf("%w: can not get stream url (status %d)", shared.ErrNotStreamable, resp.Status)
	}

	var body struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(resp.Value), &body); err != nil || body.Location == "" {
		return "", fmt.Errorf("%w: redirect without location", shared.ErrNotStreamable)
	}
	return body.Location, nil
}

func (s *SoundCloudService) streamTarget(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return "", fmt.Errorf("%w: invalid stream uri %q", shared.ErrNotStreamable, uri)
	}
	if u.IsAbs() {
		return uri, nil
	}

	target := s.registry.BaseURL() + "/" + strings.TrimPrefix(u.Path, "/")
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target, nil
}

// Track fetches a single track by id and normalizes it.
func (s *SoundCloudService) Track(ctx context.Context, trackID int64) (models.Item, error) {
	record, err := s.trackRecord(ctx, trackID)
	if err != nil {
		return nil, err
	}

	item, liked, err := s.normalizer.Track(record, s.session.Authenticated())
	if err != nil {
		return nil, fmt.Errorf("track %d: %w", trackID, err)
	}
	if liked {
		s.liked.Add(trackID)
	}
	return item, nil
}

// DownloadURL resolves a direct download URL for a track.
//
// The track must be streamable; the resolved URL always carries a client_id parameter.
func (s *SoundCloudService) DownloadURL(ctx context.Context, trackID int64) (string, error) {
	record, err := s.trackRecord(ctx, trackID)
	if err != nil {
		return "", err
	}

	if record.Streamable == nil || !*record.Streamable {
		return "", fmt.Errorf("%w: track %d", shared.ErrNotStreamable, trackID)
	}
	if record.StreamURL == nil {
		return "", fmt.Errorf("%w: track %d has no stream_url", shared.ErrMalformedResponse, trackID)
	}

	location, err := s.ResolveStreamURL(ctx, *record.StreamURL)
	if err != nil {
		return "", err
	}
	return withClientID(location, s.clientID), nil
}

// TryDownloadURL is [SoundCloudService.DownloadURL] reporting failure as ok == false.
// The cause is logged, not returned.
func (s *SoundCloudService) TryDownloadURL(ctx context.Context, trackID int64) (string, bool) {
	location, err := s.DownloadURL(ctx, trackID)
	if err != nil {
		s.logger.Warn("no download available", "track", trackID, "error", err)
		return "", false
	}
	return location, true
}

func (s *SoundCloudService) trackRecord(ctx context.Context, trackID int64) (*TrackRecord, error) {
	ep, err := s.registry.Resolve(EndpointTrack)
	if err != nil {
		return nil, err
	}

	resp, err := s.executor.Execute(ctx, ep, map[string]string{"id": strconv.FormatInt(trackID, 10)}, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %d", shared.ErrTrackNotFound, trackID)
		}
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: track %d returned status %d", shared.ErrAPIRequest, trackID, resp.Status)
	}

	var record TrackRecord
	if err := json.Unmarshal([]byte(resp.Value), &record); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedResponse, err)
	}
	return &record, nil
}

// withClientID adds client_id to rawURL when it is missing.
func withClientID(rawURL, clientID string) string {
	if clientID == "" {
		return rawURL
	}
	return appendQuery(rawURL, "client_id", clientID)
}

// IsNotStreamable reports whether err means the item can not be played.
func IsNotStreamable(err error) bool {
	return errors.Is(err, shared.ErrNotStreamable)
}
