// Last.fm API implementation of [Adapter]
//
// Last.fm exposes no user-created playlists; its collections are the
// service-derived Top Tracks, Loved Tracks, and Recent Tracks listings.
// API reference: https://www.last.fm/api
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultLastFMBaseURL = "https://ws.audioscrobbler.com/2.0/"

	lastfmPageSize  = 50
	lastfmMaxTracks = 500

	// Collection IDs exposed by ListCollections
	LastFMTopTracks    = "top_tracks"
	LastFMLovedTracks  = "loved_tracks"
	LastFMRecentTracks = "recent_tracks"
)

// Last.fm API error codes, https://www.last.fm/api/errorcodes
const (
	lastfmErrInvalidAPIKey    = 10
	lastfmErrOffline          = 11
	lastfmErrSuspendedAPIKey  = 26
	lastfmErrRateLimitReached = 29
)

type lastfmArtist struct {
	Name string `json:"name"`
	Text string `json:"#text"` // recent-tracks responses use #text instead of name
}

func (a lastfmArtist) value() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Text
}

type lastfmAlbum struct {
	Text string `json:"#text"`
}

type lastfmTrackAttr struct {
	NowPlaying string `json:"nowplaying"`
}

type lastfmTrack struct {
	Name      string           `json:"name"`
	Artist    lastfmArtist     `json:"artist"`
	Album     lastfmAlbum      `json:"album"`
	URL       string           `json:"url"`
	MBID      string           `json:"mbid"`
	Duration  string           `json:"duration"`
	Playcount string           `json:"playcount"`
	Attr      *lastfmTrackAttr `json:"@attr,omitempty"`
}

type lastfmPageAttr struct {
	Page       string `json:"page"`
	TotalPages string `json:"totalPages"`
	Total      string `json:"total"`
}

type lastfmTrackPage struct {
	Tracks []lastfmTrack  `json:"track"`
	Attr   lastfmPageAttr `json:"@attr"`
}

type lastfmErrorBody struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// LastFMService implements [Adapter] for the Last.fm API.
//
// Authentication is a plain API key on every request; the username scopes
// which listener's collections are fetched. Requests go through a
// client-side fixed-window limiter since Last.fm throttles hard without
// advertising limits in responses.
type LastFMService struct {
	apiKey    string
	apiSecret string
	username  string

	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewLastFMService creates a Last.fm adapter from the given credentials.
// Requires "api_key" and "username"; "api_secret" is accepted but unused for
// the read-only operations implemented here.
func NewLastFMService(credentials map[string]string) (*LastFMService, error) {
	apiKey, ok := credentials["api_key"]
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}

	username, ok := credentials["username"]
	if !ok || username == "" {
		return nil, fmt.Errorf("%w: missing username", shared.ErrMissingCredentials)
	}

	return &LastFMService{
		apiKey:     apiKey,
		apiSecret:  credentials["api_secret"],
		username:   username,
		baseURL:    defaultLastFMBaseURL,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
	}, nil
}

func (l *LastFMService) Type() models.ServiceType {
	return models.ServiceLastFM
}

func (l *LastFMService) Name() string {
	return "Last.fm"
}

// doRequest performs a rate-limited GET against the Last.fm API and decodes
// the response into result. API-level errors arrive as 200s with an error
// envelope, so the body is inspected before decoding.
func (l *LastFMService) doRequest(ctx context.Context, method string, params url.Values, result any) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("method", method)
	params.Set("api_key", l.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &shared.RateLimitError{Service: l.Name(), RetryAfter: retryAfterHint(resp.Header)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: last.fm status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: last.fm status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	var apiErr lastfmErrorBody
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		switch apiErr.Error {
		case lastfmErrInvalidAPIKey, lastfmErrSuspendedAPIKey:
			return fmt.Errorf("%w: last.fm error %d: %s", shared.ErrAuthFailed, apiErr.Error, apiErr.Message)
		case lastfmErrRateLimitReached:
			return &shared.RateLimitError{Service: l.Name()}
		case lastfmErrOffline:
			return fmt.Errorf("%w: last.fm error %d: %s", shared.ErrServiceUnavailable, apiErr.Error, apiErr.Message)
		default:
			return fmt.Errorf("%w: last.fm error %d: %s", shared.ErrAPIRequest, apiErr.Error, apiErr.Message)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: last.fm status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListCollections enumerates the three service-derived collections. Last.fm
// has no playlist listing endpoint, so no network call is made here; the
// collection contents are fetched on demand.
func (l *LastFMService) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	return []models.CollectionInfo{
		{
			ID:          LastFMTopTracks,
			Name:        "Top Tracks",
			Description: "Your most played tracks",
			Service:     models.ServiceLastFM,
			Owner:       l.username,
		},
		{
			ID:          LastFMLovedTracks,
			Name:        "Loved Tracks",
			Description: "Your loved tracks on Last.fm",
			Service:     models.ServiceLastFM,
			Owner:       l.username,
		},
		{
			ID:          LastFMRecentTracks,
			Name:        "Recent Tracks",
			Description: "Your recently played tracks",
			Service:     models.ServiceLastFM,
			Owner:       l.username,
		},
	}, nil
}

// FetchTracks retrieves the tracks of one collection, following Last.fm's
// page-numbered pagination until the listing is exhausted or the track cap
// is reached.
func (l *LastFMService) FetchTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	var method, envelope string
	switch collectionID {
	case LastFMTopTracks:
		method, envelope = "user.gettoptracks", "toptracks"
	case LastFMLovedTracks:
		method, envelope = "user.getlovedtracks", "lovedtracks"
	case LastFMRecentTracks:
		method, envelope = "user.getrecenttracks", "recenttracks"
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrCollectionNotFound, collectionID)
	}

	tracks := []models.Track{}
	for page := 1; len(tracks) < lastfmMaxTracks; page++ {
		params := url.Values{}
		params.Set("user", l.username)
		params.Set("limit", strconv.Itoa(lastfmPageSize))
		params.Set("page", strconv.Itoa(page))

		pageData, err := l.fetchPage(ctx, method, envelope, params)
		if err != nil {
			return nil, err
		}

		for _, t := range pageData.Tracks {
			// The listing includes the now-playing track with no fixed position; skip it.
			if t.Attr != nil && t.Attr.NowPlaying == "true" {
				continue
			}
			tracks = append(tracks, lastfmToTrack(t))
		}

		totalPages, _ := strconv.Atoi(pageData.Attr.TotalPages)
		if totalPages == 0 || page >= totalPages {
			break
		}
	}

	return tracks, nil
}

// fetchPage fetches one page of a paginated listing and unwraps the named envelope.
func (l *LastFMService) fetchPage(ctx context.Context, method, envelope string, params url.Values) (*lastfmTrackPage, error) {
	var raw map[string]json.RawMessage
	if err := l.doRequest(ctx, method, params, &raw); err != nil {
		return nil, err
	}

	payload, ok := raw[envelope]
	if !ok {
		return nil, fmt.Errorf("%w: last.fm response missing %s", shared.ErrAPIRequest, envelope)
	}

	var page lastfmTrackPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, fmt.Errorf("failed to decode %s page: %w", envelope, err)
	}

	return &page, nil
}

// SearchCollections returns an empty slice: Last.fm has no public playlists to search.
func (l *LastFMService) SearchCollections(ctx context.Context, query string, limit int) ([]models.CollectionInfo, error) {
	return []models.CollectionInfo{}, nil
}

// TestConnection verifies the API key and username with a user.getinfo call.
func (l *LastFMService) TestConnection(ctx context.Context) models.ConnectionResult {
	params := url.Values{}
	params.Set("user", l.username)

	if err := l.doRequest(ctx, "user.getinfo", params, nil); err != nil {
		return models.ConnectionResult{OK: false, Message: err.Error()}
	}

	return models.ConnectionResult{OK: true, Message: fmt.Sprintf("authenticated as %s", l.username)}
}

func lastfmToTrack(t lastfmTrack) models.Track {
	track := models.Track{
		Artist:    t.Artist.value(),
		Title:     t.Name,
		Album:     t.Album.Text,
		SourceURL: t.URL,
	}

	if seconds, err := strconv.Atoi(t.Duration); err == nil && seconds > 0 {
		track.Duration = seconds
	}
	if plays, err := strconv.Atoi(t.Playcount); err == nil {
		track.Playcount = plays
	}
	if t.MBID != "" {
		track.ExternalIDs = map[string]string{string(models.ServiceLastFM): t.MBID}
	}

	return track
}
