package models

import "testing"

func TestParseServiceType(t *testing.T) {
	cases := []struct {
		input   string
		want    ServiceType
		wantErr bool
	}{
		{"lastfm", ServiceLastFM, false},
		{"Last.fm", ServiceLastFM, false},
		{"spotify", ServiceSpotify, false},
		{" SPOTIFY ", ServiceSpotify, false},
		{"youtube", ServiceYouTube, false},
		{"yt", ServiceYouTube, false},
		{"soundcloud", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseServiceType(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseServiceType(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseServiceType(%q): unexpected error %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseServiceType(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestTrackValidate(t *testing.T) {
	t.Run("valid track", func(t *testing.T) {
		track := Track{Artist: "ArtistX", Title: "Song1", Duration: 240}
		if err := track.Validate(); err != nil {
			t.Errorf("expected valid track, got %v", err)
		}
	})

	t.Run("missing artist", func(t *testing.T) {
		track := Track{Title: "Song1"}
		if err := track.Validate(); err == nil {
			t.Error("expected error for missing artist")
		}
	})

	t.Run("missing title", func(t *testing.T) {
		track := Track{Artist: "ArtistX"}
		if err := track.Validate(); err == nil {
			t.Error("expected error for missing title")
		}
	})

	t.Run("negative duration", func(t *testing.T) {
		track := Track{Artist: "ArtistX", Title: "Song1", Duration: -1}
		if err := track.Validate(); err == nil {
			t.Error("expected error for negative duration")
		}
	})
}

func TestTrackExternalID(t *testing.T) {
	track := Track{
		Artist:      "ArtistX",
		Title:       "Song1",
		ExternalIDs: map[string]string{"spotify": "abc123"},
	}

	if id := track.ExternalID(ServiceSpotify); id != "abc123" {
		t.Errorf("expected abc123, got %s", id)
	}
	if id := track.ExternalID(ServiceLastFM); id != "" {
		t.Errorf("expected empty ID for unset service, got %s", id)
	}

	var bare Track
	if id := bare.ExternalID(ServiceYouTube); id != "" {
		t.Errorf("expected empty ID on nil map, got %s", id)
	}
}

func TestTrackString(t *testing.T) {
	track := Track{Artist: "ArtistY", Title: "Song2"}
	if s := track.String(); s != "ArtistY - Song2" {
		t.Errorf("expected 'ArtistY - Song2', got %s", s)
	}
}
