// package models defines the shared data model for the soundtable aggregation layer
package models

import (
	"fmt"
	"strings"
)

// ServiceType identifies one of the supported external music services.
type ServiceType string

const (
	ServiceLastFM  ServiceType = "lastfm"
	ServiceSpotify ServiceType = "spotify"
	ServiceYouTube ServiceType = "youtube"
)

// ServiceTypes lists every supported service in a stable order.
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceLastFM, ServiceSpotify, ServiceYouTube}
}

// ParseServiceType converts a user-supplied name into a ServiceType.
func ParseServiceType(name string) (ServiceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lastfm", "last.fm":
		return ServiceLastFM, nil
	case "spotify":
		return ServiceSpotify, nil
	case "youtube", "yt":
		return ServiceYouTube, nil
	default:
		return "", fmt.Errorf("unknown service %q", name)
	}
}

func (s ServiceType) String() string {
	return string(s)
}

// Track represents one song/audio item from any service.
//
// Tracks are value types: adapters build fresh instances on every fetch and
// callers must not assume a shared cache entry behind them. Artist and Title
// are required; the remaining fields are zero-valued when the service does
// not report them.
type Track struct {
	Artist      string            `json:"artist"`
	Title       string            `json:"title"`
	Album       string            `json:"album,omitempty"`
	Duration    int               `json:"duration,omitempty"` // Duration in seconds
	SourceURL   string            `json:"source_url,omitempty"`
	Playcount   int               `json:"playcount,omitempty"`
	ExternalIDs map[string]string `json:"external_ids,omitempty"` // service name -> opaque identifier
}

// Validate checks the required Track fields.
func (t Track) Validate() error {
	if t.Artist == "" {
		return fmt.Errorf("track missing artist")
	}
	if t.Title == "" {
		return fmt.Errorf("track missing title")
	}
	if t.Duration < 0 {
		return fmt.Errorf("track duration must be >= 0, got %d", t.Duration)
	}
	return nil
}

// ExternalID returns the track's identifier on the given service, if any.
func (t Track) ExternalID(service ServiceType) string {
	return t.ExternalIDs[string(service)]
}

func (t Track) String() string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

// CollectionInfo represents a named collection or playlist exposed by a service.
//
// A collection may be a user-created playlist (Spotify, YouTube) or a
// service-derived grouping such as Last.fm's Top Tracks. IDs are unique only
// within the owning service. Instances are transient: they are rebuilt on
// every listing and never cached.
type CollectionInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Service     ServiceType `json:"service"`
	TrackCount  int         `json:"track_count,omitempty"` // 0 when the service does not report a count
	Owner       string      `json:"owner,omitempty"`
	Public      bool        `json:"public,omitempty"`
}

// CollectionExport pairs a collection with its fully fetched, ordered tracks.
type CollectionExport struct {
	Collection CollectionInfo `json:"collection"`
	Tracks     []Track        `json:"tracks"`
}

// ConnectionResult reports the outcome of a connectivity probe against a service.
// Produced per test invocation; never carries an error value.
type ConnectionResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
