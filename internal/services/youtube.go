// YouTube Data API v3 implementation of [Adapter]
//
// Response types based on https://developers.google.com/youtube/v3/docs
//
// YouTube playlists hold videos, not songs, so the adapter parses artist and
// title out of video titles ("Artist - Song", "Song by Artist", Topic
// channels) and resolves durations with a batched videos.list call.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

	youtubePageSize = 50

	// Well-known playlist IDs YouTube reserves for every account.
	YouTubeLikedVideos = "LL"
	YouTubeWatchLater  = "WL"
)

type youtubeThumbnail struct {
	URL string `json:"url"`
}

type youtubeThumbnails struct {
	Medium youtubeThumbnail `json:"medium"`
}

type youtubeSnippet struct {
	Title                  string            `json:"title"`
	Description            string            `json:"description"`
	ChannelTitle           string            `json:"channelTitle"`
	VideoOwnerChannelTitle string            `json:"videoOwnerChannelTitle"`
	Thumbnails             youtubeThumbnails `json:"thumbnails"`
}

type youtubeContentDetails struct {
	ItemCount int    `json:"itemCount"`
	VideoID   string `json:"videoId"`
	Duration  string `json:"duration"` // ISO 8601, e.g. PT4M13S
}

type youtubeResource struct {
	ID             string                `json:"id"`
	Snippet        youtubeSnippet        `json:"snippet"`
	ContentDetails youtubeContentDetails `json:"contentDetails"`
}

type youtubeSearchID struct {
	PlaylistID string `json:"playlistId"`
	VideoID    string `json:"videoId"`
}

type youtubeSearchResult struct {
	ID      youtubeSearchID `json:"id"`
	Snippet youtubeSnippet  `json:"snippet"`
}

type youtubePage[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type youtubeErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// YouTubeService implements [Adapter] for the YouTube Data API v3.
//
// Authentication is an API key appended to every request; the channel ID
// scopes whose playlists ListCollections returns.
type YouTubeService struct {
	apiKey    string
	channelID string

	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a YouTube adapter from the given credentials.
// Requires "api_key"; "channel_id" is needed only for ListCollections.
func NewYouTubeService(credentials map[string]string) (*YouTubeService, error) {
	apiKey, ok := credentials["api_key"]
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}

	return &YouTubeService{
		apiKey:     apiKey,
		channelID:  credentials["channel_id"],
		baseURL:    defaultYouTubeBaseURL,
		httpClient: http.DefaultClient,
	}, nil
}

func (y *YouTubeService) Type() models.ServiceType {
	return models.ServiceYouTube
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// doRequest performs a keyed GET against the YouTube API and decodes the
// response into result. Quota exhaustion arrives as a 403 with a structured
// reason, which is why the error body is inspected before the status code.
func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody youtubeErrorBody
		reason := ""
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && len(errBody.Error.Errors) > 0 {
			reason = errBody.Error.Errors[0].Reason
		}

		switch {
		case reason == "quotaExceeded" || reason == "rateLimitExceeded" || reason == "userRateLimitExceeded" ||
			resp.StatusCode == http.StatusTooManyRequests:
			return &shared.RateLimitError{Service: y.Name(), RetryAfter: retryAfterHint(resp.Header)}
		case reason == "keyInvalid" || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: youtube %s (status %d)", shared.ErrAuthFailed, reason, resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: youtube status 404", shared.ErrCollectionNotFound)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: youtube status %d", shared.ErrServiceUnavailable, resp.StatusCode)
		default:
			return fmt.Errorf("%w: youtube status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errBody.Error.Message)
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListCollections retrieves the channel's playlists plus the reserved Liked
// Videos and Watch Later entries, following pageToken pagination.
func (y *YouTubeService) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	if y.channelID == "" {
		return nil, fmt.Errorf("%w: missing channel_id", shared.ErrMissingCredentials)
	}

	collections := []models.CollectionInfo{}
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("channelId", y.channelID)
		params.Set("maxResults", strconv.Itoa(youtubePageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page youtubePage[youtubeResource]
		if err := y.doRequest(ctx, "/playlists", params, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			collections = append(collections, models.CollectionInfo{
				ID:          item.ID,
				Name:        item.Snippet.Title,
				Description: item.Snippet.Description,
				Service:     models.ServiceYouTube,
				TrackCount:  item.ContentDetails.ItemCount,
				Owner:       item.Snippet.ChannelTitle,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	collections = append(collections,
		models.CollectionInfo{
			ID:          YouTubeLikedVideos,
			Name:        "Liked Videos",
			Description: "Your liked videos on YouTube",
			Service:     models.ServiceYouTube,
		},
		models.CollectionInfo{
			ID:          YouTubeWatchLater,
			Name:        "Watch Later",
			Description: "Your Watch Later playlist",
			Service:     models.ServiceYouTube,
		},
	)

	return collections, nil
}

// FetchTracks retrieves every item of a playlist in playlist order, resolving
// per-video durations with batched videos.list calls.
func (y *YouTubeService) FetchTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	tracks := []models.Track{}
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("playlistId", collectionID)
		params.Set("maxResults", strconv.Itoa(youtubePageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page youtubePage[youtubeResource]
		if err := y.doRequest(ctx, "/playlistItems", params, &page); err != nil {
			return nil, err
		}

		videoIDs := make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			videoIDs = append(videoIDs, item.ContentDetails.VideoID)
		}

		durations, err := y.videoDurations(ctx, videoIDs)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			videoID := item.ContentDetails.VideoID
			channel := item.Snippet.VideoOwnerChannelTitle
			if channel == "" {
				channel = item.Snippet.ChannelTitle
			}

			artist, title := parseTrackTitle(item.Snippet.Title, channel)
			tracks = append(tracks, models.Track{
				Artist:      artist,
				Title:       title,
				Duration:    durations[videoID],
				SourceURL:   "https://www.youtube.com/watch?v=" + videoID,
				ExternalIDs: map[string]string{string(models.ServiceYouTube): videoID},
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return tracks, nil
}

// videoDurations resolves durations in seconds for up to one page of video IDs.
func (y *YouTubeService) videoDurations(ctx context.Context, videoIDs []string) (map[string]int, error) {
	durations := make(map[string]int, len(videoIDs))
	if len(videoIDs) == 0 {
		return durations, nil
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(videoIDs, ","))

	var page youtubePage[youtubeResource]
	if err := y.doRequest(ctx, "/videos", params, &page); err != nil {
		return nil, err
	}

	for _, item := range page.Items {
		durations[item.ID] = parseISODuration(item.ContentDetails.Duration)
	}
	return durations, nil
}

// SearchCollections searches public playlists, official channels ranked first.
func (y *YouTubeService) SearchCollections(ctx context.Context, query string, limit int) ([]models.CollectionInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "playlist")
	params.Set("maxResults", strconv.Itoa(min(limit*2, youtubePageSize)))

	var page youtubePage[youtubeSearchResult]
	if err := y.doRequest(ctx, "/search", params, &page); err != nil {
		return nil, err
	}

	var official, other []models.CollectionInfo
	for _, item := range page.Items {
		info := models.CollectionInfo{
			ID:          item.ID.PlaylistID,
			Name:        item.Snippet.Title,
			Description: item.Snippet.Description,
			Service:     models.ServiceYouTube,
			Owner:       cleanChannelName(item.Snippet.ChannelTitle),
			Public:      true,
		}
		if isOfficialChannel(item.Snippet.ChannelTitle) {
			official = append(official, info)
		} else {
			other = append(other, info)
		}
	}

	results := append(official, other...)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// TestConnection verifies the API key with a minimal search call.
func (y *YouTubeService) TestConnection(ctx context.Context) models.ConnectionResult {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", "test")
	params.Set("type", "video")
	params.Set("maxResults", "1")

	if err := y.doRequest(ctx, "/search", params, nil); err != nil {
		return models.ConnectionResult{OK: false, Message: err.Error()}
	}

	return models.ConnectionResult{OK: true, Message: "API key accepted"}
}

// parseTrackTitle extracts (artist, title) from a video title, falling back
// to the cleaned channel name when the title carries no separator.
func parseTrackTitle(videoTitle, channelTitle string) (string, string) {
	for _, sep := range []string{" - ", " – ", " — ", " | ", ": "} {
		if artist, title, ok := strings.Cut(videoTitle, sep); ok {
			return cleanChannelName(strings.TrimSpace(artist)), cleanVideoTitle(title)
		}
	}

	// "Song by Artist"
	if title, artist, ok := strings.Cut(videoTitle, " by "); ok {
		return cleanChannelName(strings.TrimSpace(artist)), cleanVideoTitle(title)
	}

	return cleanChannelName(channelTitle), cleanVideoTitle(videoTitle)
}

// cleanChannelName strips the suffixes YouTube appends to auto-generated channels.
func cleanChannelName(channelTitle string) string {
	cleaned := channelTitle
	for _, suffix := range []string{" - Topic", " - Auto-generated by YouTube"} {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}
	return strings.TrimSpace(cleaned)
}

// cleanVideoTitle drops trailing marketing qualifiers like "(Official Video)".
func cleanVideoTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, qualifier := range []string{
		"(official video)", "(official music video)", "(official audio)",
		"(music video)", "(lyric video)", "(audio)",
		"[official video]", "[official music video]", "[official audio]",
	} {
		lower := strings.ToLower(title)
		if strings.HasSuffix(lower, qualifier) {
			title = strings.TrimSpace(title[:len(title)-len(qualifier)])
		}
	}
	return title
}

// isOfficialChannel reports whether a channel looks like a real artist or
// label channel rather than an auto-generated one.
func isOfficialChannel(channelTitle string) bool {
	if channelTitle == "" || strings.HasSuffix(channelTitle, " - Topic") {
		return false
	}

	lower := strings.ToLower(channelTitle)
	for _, indicator := range []string{"vevo", "official", "records", "music", "entertainment"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return !strings.Contains(channelTitle, "Auto-generated")
}

// parseISODuration converts an ISO 8601 duration (PT4M13S) into seconds.
// Returns 0 for anything it cannot parse.
func parseISODuration(iso string) int {
	rest, ok := strings.CutPrefix(iso, "P")
	if !ok {
		return 0
	}

	total := 0
	inTime := false
	value := 0
	hasValue := false

	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int(r-'0')
			hasValue = true
		case r == 'T':
			inTime = true
		default:
			if !hasValue {
				return 0
			}
			switch {
			case r == 'D' && !inTime:
				total += value * 86400
			case r == 'H' && inTime:
				total += value * 3600
			case r == 'M' && inTime:
				total += value * 60
			case r == 'S' && inTime:
				total += value
			default:
				return 0
			}
			value = 0
			hasValue = false
		}
	}

	return total
}
