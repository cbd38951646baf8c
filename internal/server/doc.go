// Package server provides the short-lived HTTP server behind "scx auth login".
//
// [BasicRouter] implements [Router] over [http.ServeMux] with method filtering and a
// [Middleware] stack ([Logging], [Recover]).
//
// [OAuthHandler] serves the redirect URI of the authorization code flow. It checks the
// state parameter, hands the code to an [Exchanger] (the services token manager), and
// reports the outcome once through [OAuthHandler.Result]. The CLI shuts the server
// down as soon as a result arrives.
package server
