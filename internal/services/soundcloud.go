package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/shared"
)

// SearchKind selects the collection a search runs against.
type SearchKind string

const (
	SearchTracks    SearchKind = "tracks"
	SearchPlaylists SearchKind = "playlists"
)

func (k SearchKind) endpoint() (EndpointName, error) {
	switch k {
	case SearchTracks, "":
		return EndpointSearchTracks, nil
	case SearchPlaylists:
		return EndpointSearchPlaylists, nil
	default:
		return "", fmt.Errorf("%w: search kind %q", shared.ErrInvalidArgument, k)
	}
}

// Options configures [NewSoundCloudService].
type Options struct {
	Credentials shared.SoundCloudConfig
	API         shared.APIConfig

	// Preferences stores the session tokens and is required.
	Preferences Preferences

	// Transport defaults to an [HTTPTransport].
	Transport WebRequests

	// Factory defaults to [models.Factory].
	Factory ItemFactory

	// Liked seeds the liked-track set.
	Liked []int64

	Logger *log.Logger
}

// SoundCloudService exposes every collection, like and stream operation of the API.
type SoundCloudService struct {
	registry   *Registry
	executor   *Executor
	paginator  *Paginator
	normalizer *Normalizer
	tokens     *TokenManager
	session    *Session
	liked      *LikedTracks
	clientID   string
	logger     *log.Logger
}

func NewSoundCloudService(opts Options) (*SoundCloudService, error) {
	if opts.Preferences == nil {
		return nil, fmt.Errorf("%w: a preferences store is required", shared.ErrMissingConfig)
	}
	if opts.API.BaseURL == "" || opts.API.TokenURL == "" {
		return nil, fmt.Errorf("%w: api base_url and token_url are required", shared.ErrInvalidConfig)
	}
	if opts.Credentials.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(nil, logger)
	}

	session, err := LoadSession(opts.Preferences)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(opts.API.BaseURL, opts.API.TokenURL)
	executor := NewExecutor(transport, session, opts.Credentials.ClientID, logger)

	return &SoundCloudService{
		registry:   registry,
		executor:   executor,
		paginator:  NewPaginator(registry, executor, opts.API.PageSize),
		normalizer: NewNormalizer(opts.Factory, logger),
		tokens:     NewTokenManager(registry, executor, session, opts.Preferences, opts.Credentials, opts.API.AuthURL, logger),
		session:    session,
		liked:      NewLikedTracks(opts.Liked...),
		clientID:   opts.Credentials.ClientID,
		logger:     shared.WithLogger(logger, "service", "soundcloud"),
	}, nil
}

func (s *SoundCloudService) Name() string { return "SoundCloud" }

func (s *SoundCloudService) Registry() *Registry { return s.registry }
func (s *SoundCloudService) Session() *Session   { return s.session }
func (s *SoundCloudService) Liked() *LikedTracks { return s.liked }

// Authenticated reports whether the session holds an access token.
func (s *SoundCloudService) Authenticated() bool { return s.session.Authenticated() }

// AuthURL returns the page a user visits to authorize the client.
func (s *SoundCloudService) AuthURL(state string) string { return s.tokens.AuthURL(state) }

// ExchangeCode trades an authorization code (or refresh token) for a persisted token pair.
func (s *SoundCloudService) ExchangeCode(ctx context.Context, code string, refresh bool) error {
	return s.tokens.ExchangeCode(ctx, code, refresh)
}

// Refresh renews the session with the stored refresh token.
func (s *SoundCloudService) Refresh(ctx context.Context) error { return s.tokens.Refresh(ctx) }

// Logout clears the stored tokens.
func (s *SoundCloudService) Logout() error { return s.tokens.Logout() }

// Collection fetches the next page of any collection endpoint and normalizes it.
//
// Playlist collections go through the playlist normalizer; liked ids from track pages join [LikedTracks].
func (s *SoundCloudService) Collection(ctx context.Context, name EndpointName, reset bool, arg string) ([]models.Item, error) {
	ep, err := s.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	raw, err := s.paginator.FetchPage(ctx, name, reset, arg)
	if err != nil {
		return nil, err
	}

	if ep.Playlists {
		return s.normalizer.NormalizePlaylists(raw), nil
	}

	result := s.normalizer.Normalize(raw, s.session.Authenticated())
	s.liked.Add(result.Liked...)
	return result.Items, nil
}

// Stream returns the next page of the authenticated user's stream.
func (s *SoundCloudService) Stream(ctx context.Context, reset bool) ([]models.Item, error) {
	return s.Collection(ctx, EndpointStream, reset, "")
}

// Likes returns the next page of liked tracks.
func (s *SoundCloudService) Likes(ctx context.Context, reset bool) ([]models.Item, error) {
	return s.Collection(ctx, EndpointLikes, reset, "")
}

// Search returns the next page of results for query. Cursors are kept per query.
func (s *SoundCloudService) Search(ctx context.Context, query string, kind SearchKind, reset bool) ([]models.Item, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	name, err := kind.endpoint()
	if err != nil {
		return nil, err
	}
	return s.Collection(ctx, name, reset, query)
}

// UserTracks returns the next page of a user's tracks.
func (s *SoundCloudService) UserTracks(ctx context.Context, userID int64, reset bool) ([]models.Item, error) {
	items, err := s.Collection(ctx, EndpointUserTracks, reset, strconv.FormatInt(userID, 10))
	if isStatus(err, http.StatusNotFound) {
		return nil, fmt.Errorf("%w: %d", shared.ErrUserNotFound, userID)
	}
	return items, err
}

// SelfTracks returns the authenticated user's own tracks followed by their own playlists.
//
// If the playlists page fails the tracks cursor is rolled back, so a retry fetches the same tracks page again.
func (s *SoundCloudService) SelfTracks(ctx context.Context, reset bool) ([]models.Item, error) {
	prev := ""
	if !reset {
		prev, _ = s.paginator.Cursor(EndpointSelfTracks, "")
	}

	tracks, err := s.Collection(ctx, EndpointSelfTracks, reset, "")
	if err != nil {
		return nil, err
	}

	playlists, err := s.Collection(ctx, EndpointSelfPlaylists, reset, "")
	if err != nil {
		s.paginator.Restore(EndpointSelfTracks, "", prev)
		return nil, err
	}
	return append(tracks, playlists...), nil
}

// Playlists returns the next page of liked playlists.
func (s *SoundCloudService) Playlists(ctx context.Context, reset bool) ([]models.Item, error) {
	return s.Collection(ctx, EndpointPlaylistLikes, reset, "")
}

// Playlist returns the next page of a playlist's tracks.
func (s *SoundCloudService) Playlist(ctx context.Context, playlistID int64, reset bool) ([]models.Item, error) {
	return s.Collection(ctx, EndpointPlaylist, reset, strconv.FormatInt(playlistID, 10))
}

// Followers returns the next page of users following the authenticated user.
func (s *SoundCloudService) Followers(ctx context.Context, reset bool) ([]models.Item, error) {
	return s.Collection(ctx, EndpointFollowers, reset, "")
}

// Followings returns the next page of users the authenticated user follows.
func (s *SoundCloudService) Followings(ctx context.Context, reset bool) ([]models.Item, error) {
	return s.Collection(ctx, EndpointFollowings, reset, "")
}

// ResetCursor forgets pagination state for a collection key.
func (s *SoundCloudService) ResetCursor(name EndpointName, arg string) {
	s.paginator.Reset(name, arg)
}

// HasMore reports whether a collection key has a stored next page.
func (s *SoundCloudService) HasMore(name EndpointName, arg string) bool {
	_, ok := s.paginator.Cursor(name, arg)
	return ok
}

// Cursor returns the stored next page URL of a collection key.
func (s *SoundCloudService) Cursor(name EndpointName, arg string) (string, bool) {
	return s.paginator.Cursor(name, arg)
}

// RestoreCursor resumes a collection key from a cursor saved by an earlier run.
func (s *SoundCloudService) RestoreCursor(name EndpointName, arg, next string) {
	s.paginator.Restore(name, arg, next)
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
