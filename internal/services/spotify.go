// Spotify API implementation of [Adapter]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
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
	"time"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	spotifyPlaylistPageSize = 50
	spotifyTrackPageSize    = 100
)

type spotifyOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string              `json:"id"`
	Type         string              `json:"type"`
	Name         string              `json:"name"`
	Artists      []SpotifyArtist     `json:"artists"`
	Album        SpotifyAlbum        `json:"album"`
	DurationMS   int                 `json:"duration_ms"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

type spotifyTrackRef struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Owner       spotifyOwner    `json:"owner"`
	Public      bool            `json:"public"`
	Tracks      spotifyTrackRef `json:"tracks"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyPaginatedTracks represents a paginated response of playlist tracks.
type SpotifyPaginatedTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// SpotifyPlaylist represents a full playlist object.
type SpotifyPlaylist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Owner       spotifyOwner    `json:"owner"`
	Public      bool            `json:"public"`
	Tracks      spotifyTrackRef `json:"tracks"`
}

// SpotifyService implements [Adapter] for the Spotify Web API.
//
// Authentication uses the OAuth2 client-credentials flow: the [oauth2]
// transport fetches and refreshes the app token transparently, so no
// interactive login is involved. Only public data (a user's public playlists)
// is reachable with this grant.
type SpotifyService struct {
	userID string

	baseURL    string
	httpClient *http.Client
}

// NewSpotifyService creates a Spotify adapter from the given credentials.
// Requires "client_id" and "client_secret"; "user_id" scopes whose playlists
// ListCollections returns and may be empty.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		userID:     credentials["user_id"],
		baseURL:    spotifyBaseURL,
		httpClient: config.Client(context.Background()),
	}, nil
}

func (s *SpotifyService) Type() models.ServiceType {
	return models.ServiceSpotify
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: token request rejected: %v", shared.ErrAuthFailed, retrieveErr)
		}
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: spotify status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: spotify status 404", shared.ErrCollectionNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &shared.RateLimitError{Service: s.Name(), RetryAfter: retryAfterHint(resp.Header)}
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: spotify status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListCollections retrieves the configured user's public playlists, following
// Spotify's offset/limit pagination until `next` is exhausted. Without a
// user_id there is nothing to list and the result is empty.
func (s *SpotifyService) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	collections := []models.CollectionInfo{}
	if s.userID == "" {
		return collections, nil
	}

	offset := 0
	for {
		endpoint := fmt.Sprintf("/users/%s/playlists?limit=%d&offset=%d",
			url.PathEscape(s.userID), spotifyPlaylistPageSize, offset)

		var page SpotifyPaginatedPlaylists
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			collections = append(collections, spotifyToCollection(item))
		}

		if page.Next == nil {
			break
		}
		offset += spotifyPlaylistPageSize
	}

	return collections, nil
}

// FetchTracks retrieves every track of a playlist in playlist order.
func (s *SpotifyService) FetchTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	tracks := []models.Track{}

	offset := 0
	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d",
			url.PathEscape(collectionID), spotifyTrackPageSize, offset)

		var page SpotifyPaginatedTracks
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			// Playlists can embed episodes and local files; only real tracks are kept.
			if item.Track.Type != "track" {
				continue
			}
			tracks = append(tracks, spotifyToTrack(item.Track))
		}

		if page.Next == nil {
			break
		}
		offset += spotifyTrackPageSize
	}

	return tracks, nil
}

// GetCollection retrieves a single playlist's metadata without its tracks.
func (s *SpotifyService) GetCollection(ctx context.Context, collectionID string) (*models.CollectionInfo, error) {
	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(collectionID))
	if err := s.doRequest(ctx, endpoint, &playlist); err != nil {
		return nil, err
	}

	info := models.CollectionInfo{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Service:     models.ServiceSpotify,
		TrackCount:  playlist.Tracks.Total,
		Owner:       playlist.Owner.DisplayName,
		Public:      playlist.Public,
	}
	return &info, nil
}

// SearchCollections searches Spotify for public playlists matching the query.
func (s *SpotifyService) SearchCollections(ctx context.Context, query string, limit int) ([]models.CollectionInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=playlist&limit=%d", url.QueryEscape(query), limit)

	var response struct {
		Playlists SpotifyPaginatedPlaylists `json:"playlists"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	collections := make([]models.CollectionInfo, 0, len(response.Playlists.Items))
	for _, item := range response.Playlists.Items {
		collections = append(collections, spotifyToCollection(item))
	}
	return collections, nil
}

// TestConnection exercises the client-credentials token with the cheapest catalog call.
func (s *SpotifyService) TestConnection(ctx context.Context) models.ConnectionResult {
	if err := s.doRequest(ctx, "/browse/new-releases?limit=1", nil); err != nil {
		return models.ConnectionResult{OK: false, Message: err.Error()}
	}

	return models.ConnectionResult{OK: true, Message: "client credentials accepted"}
}

func spotifyToCollection(p SpotifySimplePlaylist) models.CollectionInfo {
	return models.CollectionInfo{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Service:     models.ServiceSpotify,
		TrackCount:  p.Tracks.Total,
		Owner:       p.Owner.DisplayName,
		Public:      p.Public,
	}
}

func spotifyToTrack(t SpotifyTrack) models.Track {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		names = append(names, artist.Name)
	}

	track := models.Track{
		Artist:    strings.Join(names, ", "),
		Title:     t.Name,
		Album:     t.Album.Name,
		Duration:  t.DurationMS / 1000,
		SourceURL: t.ExternalURLs.Spotify,
	}
	if t.ID != "" {
		track.ExternalIDs = map[string]string{string(models.ServiceSpotify): t.ID}
	}
	return track
}

// retryAfterHint parses a Retry-After header into a duration, zero when absent.
func retryAfterHint(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
