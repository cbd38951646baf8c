// Package services implements a client adapter for the SoundCloud API.
//
// [SoundCloudService] is the entry point. It composes the pieces below and exposes every
// collection, like, stream and token operation.
//
// # Endpoints
//
// [Registry] maps each [EndpointName] to an immutable [Endpoint]: URL template, HTTP
// verb, whether an access token is required and whether the route is paginated.
// Resolving an unknown name fails with [shared.ErrUnknownEndpoint].
//
// # Requests
//
// [Executor] signs requests (oauth_token when a session exists, client_id otherwise),
// sends them through the injected [WebRequests] transport and maps failures:
//   - invalid_grant : [shared.ErrInvalidCredentials]
//   - any other reported error : [*APIError], unwrapping to [shared.ErrTokenExpired] on 401
//   - 302 : not an error, returned as-is for stream resolution
//
// [HTTPTransport] is the default transport. It does not follow redirects.
//
// # Pagination
//
// [Paginator] keeps one continuation URL per (endpoint, argument) key. A reset drops
// the cursor; a page without next_href leaves none, so the next fetch restarts.
//
// # Normalization
//
// [DecodeRecord] decodes the kind-tagged union (track, like, user, unknown).
// [Normalizer] maps records onto [models.Item] values through an [ItemFactory], skipping
// unstreamable or malformed records individually, and returns liked track ids as part
// of its [Result] instead of mutating shared state.
//
// # Tokens
//
// [TokenManager] exchanges authorization codes and refresh tokens, writing both tokens
// to [Preferences] in one call before updating the [Session]. It never refreshes on
// its own: callers that see [shared.ErrTokenExpired] refresh and retry once.
//
// # Downloads
//
// [SoundCloudService.DownloadURL] returns typed errors; [SoundCloudService.TryDownloadURL]
// degrades to "no download available" for callers that prefer that policy.
package services
