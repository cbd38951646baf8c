package services

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/desertthunder/scx/internal/shared"
)

// Method is the HTTP verb of an [Endpoint].
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

// EndpointName identifies a logical API operation.
type EndpointName string

const (
	EndpointToken           EndpointName = "token"
	EndpointStream          EndpointName = "stream"
	EndpointLikes           EndpointName = "likes"
	EndpointSelfTracks      EndpointName = "self_tracks"
	EndpointSelfPlaylists   EndpointName = "self_playlists"
	EndpointPlaylistLikes   EndpointName = "playlist_likes"
	EndpointPlaylist        EndpointName = "playlist"
	EndpointUserTracks      EndpointName = "user_tracks"
	EndpointFollowers       EndpointName = "followers"
	EndpointFollowings      EndpointName = "followings"
	EndpointLike            EndpointName = "like"
	EndpointUnlike          EndpointName = "unlike"
	EndpointTrack           EndpointName = "track"
	EndpointSearchTracks    EndpointName = "search_tracks"
	EndpointSearchPlaylists EndpointName = "search_playlists"
)

// Endpoint describes one API route. Values are built once by [NewRegistry] and never mutated.
type Endpoint struct {
	Name         EndpointName
	URLTemplate  string
	Method       Method
	RequiresAuth bool
	Paginated    bool

	// Param names the template placeholder filled by a collection argument (an id or a search query).
	Param string

	// Playlists marks collections whose records are playlists rather than kind-tagged records.
	Playlists bool
}

// Expand substitutes "{key}" placeholders in the template.
//
// Values in the path are path-escaped, values in the query string are query-escaped.
// A placeholder left without a value is an error.
func (e Endpoint) Expand(params map[string]string) (string, error) {
	path, query, hasQuery := strings.Cut(e.URLTemplate, "?")
	for k, v := range params {
		placeholder := "{" + k + "}"
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(v))
		if hasQuery {
			query = strings.ReplaceAll(query, placeholder, url.QueryEscape(v))
		}
	}

	expanded := path
	if hasQuery {
		expanded += "?" + query
	}

	if start := strings.Index(expanded, "{"); start >= 0 {
		if end := strings.Index(expanded[start:], "}"); end > 0 {
			return "", fmt.Errorf("%w: %s for endpoint %s", shared.ErrMissingArgument, expanded[start+1:start+end], e.Name)
		}
	}
	return expanded, nil
}

// endpointTable lists every route relative to the API base URL. The token route is absolute.
var endpointTable = []Endpoint{
	{Name: EndpointToken, Method: MethodPost},
	{Name: EndpointStream, URLTemplate: "/me/feed/tracks", Method: MethodGet, RequiresAuth: true, Paginated: true},
	{Name: EndpointLikes, URLTemplate: "/me/likes/tracks", Method: MethodGet, RequiresAuth: true, Paginated: true},
	{Name: EndpointSelfTracks, URLTemplate: "/me/tracks", Method: MethodGet, RequiresAuth: true, Paginated: true},
	{Name: EndpointSelfPlaylists, URLTemplate: "/me/playlists", Method: MethodGet, RequiresAuth: true, Paginated: true, Playlists: true},
	{Name: EndpointPlaylistLikes, URLTemplate: "/me/likes/playlists", Method: MethodGet, RequiresAuth: true, Paginated: true, Playlists: true},
	{Name: EndpointPlaylist, URLTemplate: "/playlists/{id}/tracks", Method: MethodGet, Paginated: true, Param: "id"},
	{Name: EndpointUserTracks, URLTemplate: "/users/{id}/tracks", Method: MethodGet, Paginated: true, Param: "id"},
	{Name: EndpointFollowers, URLTemplate: "/me/followers", Method: MethodGet, RequiresAuth: true, Paginated: true},
	{Name: EndpointFollowings, URLTemplate: "/me/followings", Method: MethodGet, RequiresAuth: true, Paginated: true},
	{Name: EndpointLike, URLTemplate: "/likes/tracks/{id}", Method: MethodPost, RequiresAuth: true},
	{Name: EndpointUnlike, URLTemplate: "/likes/tracks/{id}/delete", Method: MethodPost, RequiresAuth: true},
	{Name: EndpointTrack, URLTemplate: "/tracks/{id}", Method: MethodGet},
	{Name: EndpointSearchTracks, URLTemplate: "/tracks?q={query}", Method: MethodGet, Paginated: true, Param: "query"},
	{Name: EndpointSearchPlaylists, URLTemplate: "/playlists?q={query}", Method: MethodGet, Paginated: true, Param: "query", Playlists: true},
}

// Registry resolves endpoint names to their [Endpoint] definitions.
type Registry struct {
	baseURL   string
	endpoints map[EndpointName]Endpoint
}

// NewRegistry builds the fixed endpoint set rooted at baseURL, with the OAuth2 token route at tokenURL.
func NewRegistry(baseURL, tokenURL string) *Registry {
	base := strings.TrimRight(baseURL, "/")
	endpoints := make(map[EndpointName]Endpoint, len(endpointTable))
	for _, ep := range endpointTable {
		if ep.Name == EndpointToken {
			ep.URLTemplate = tokenURL
		} else {
			ep.URLTemplate = base + ep.URLTemplate
		}
		endpoints[ep.Name] = ep
	}
	return &Registry{baseURL: base, endpoints: endpoints}
}

// BaseURL returns the API root without a trailing slash.
func (r *Registry) BaseURL() string { return r.baseURL }

// Resolve returns the endpoint registered under name.
func (r *Registry) Resolve(name EndpointName) (Endpoint, error) {
	ep, ok := r.endpoints[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", shared.ErrUnknownEndpoint, name)
	}
	return ep, nil
}

// Collections returns the names of every paginated endpoint, sorted.
func (r *Registry) Collections() []EndpointName {
	var names []EndpointName
	for name, ep := range r.endpoints {
		if ep.Paginated {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
