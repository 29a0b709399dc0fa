// Package services defines the [Adapter] interface for external music
// services and implements it for Last.fm, Spotify, and YouTube.
//
// # Adapter Interface
//
// All services implement one closed capability interface, so collection
// listing and track fetching work uniformly regardless of where the data
// lives. The interface is deliberately not a shared implementation: each
// service's pagination convention and rate-limit policy differs enough that
// only the surface is common.
//
// # Last.fm Implementation
//
// [LastFMService] authenticates with an API key per request. Last.fm has no
// user playlists; the adapter exposes the Top/Loved/Recent track listings as
// collections. Pagination is page-numbered, and requests pass through a
// client-side fixed-window limiter.
//
// # Spotify Implementation
//
// [SpotifyService] uses the OAuth2 client-credentials flow via
// [clientcredentials.Config]; the oauth2 transport refreshes the app token
// transparently. Pagination is offset/limit following the `next` cursor.
// HTTP 429 responses carry a Retry-After hint that is surfaced on the error.
//
// # YouTube Implementation
//
// [YouTubeService] authenticates with a Data API v3 key per request and pages
// with pageToken cursors. Videos are turned into tracks by parsing artist and
// title from the video title, and durations are resolved with batched
// videos.list calls.
//
// # Registry
//
// [Registry] holds at most one adapter per service type, replacing on
// re-registration. It is safe for concurrent use; reads vastly outnumber
// writes after startup.
//
// # Error Handling
//
// Adapters map service failures onto the typed errors in the shared package:
//   - [shared.ErrAuthFailed] : missing or rejected credentials
//   - [shared.RateLimitError] : throttled, with the retry-after hint when given
//   - [shared.ErrServiceUnavailable] : transport failure or 5xx
//   - [shared.ErrCollectionNotFound] : unknown collection ID
//
// TestConnection is the one exception to propagation: it folds every failure
// into a [models.ConnectionResult] for display and never returns an error.
package services
