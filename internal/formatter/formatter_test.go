package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soundtable/soundtable/internal/models"
)

func sampleExport() *models.CollectionExport {
	return &models.CollectionExport{
		Collection: models.CollectionInfo{
			ID:      "pl1",
			Name:    "Morning Mix",
			Service: models.ServiceSpotify,
		},
		Tracks: []models.Track{
			{Artist: "ArtistX", Title: "Song1", Album: "Album1", SourceURL: "https://example.com/1"},
			{Artist: "ArtistY", Title: `Song "Two"`, SourceURL: "https://example.com/2"},
			{Artist: "ArtistZ", Title: "Song3"},
		},
	}
}

func TestNewMusicPlayer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		player := NewMusicPlayer(sampleExport(), PlayerOpts{})

		if player.Name != "Morning Mix" {
			t.Errorf("expected player named after collection, got %s", player.Name)
		}
		if len(player.Playlist) != 3 {
			t.Fatalf("expected 3 playlist entries, got %d", len(player.Playlist))
		}
		if player.Playlist[0].Volume != DefaultVolume || player.Playlist[0].Pitch != DefaultPitch {
			t.Errorf("expected default volume/pitch, got %v/%v", player.Playlist[0].Volume, player.Playlist[0].Pitch)
		}
	})

	t.Run("entry names include the album", func(t *testing.T) {
		player := NewMusicPlayer(sampleExport(), PlayerOpts{})

		if player.Playlist[0].Name != "ArtistX - Song1 (Album1)" {
			t.Errorf("unexpected entry name %q", player.Playlist[0].Name)
		}
		if player.Playlist[2].Name != "ArtistZ - Song3" {
			t.Errorf("unexpected entry name %q", player.Playlist[2].Name)
		}
	})

	t.Run("custom options", func(t *testing.T) {
		player := NewMusicPlayer(sampleExport(), PlayerOpts{PlayerName: "Table Music", Volume: 0.5, Pitch: 1.2})

		if player.Name != "Table Music" {
			t.Errorf("expected custom name, got %s", player.Name)
		}
		if player.Playlist[0].Volume != 0.5 || player.Playlist[0].Pitch != 1.2 {
			t.Errorf("expected custom volume/pitch, got %v/%v", player.Playlist[0].Volume, player.Playlist[0].Pitch)
		}
	})
}

func TestExportToJSON(t *testing.T) {
	player := NewMusicPlayer(sampleExport(), PlayerOpts{})

	data, err := ExportToJSON(player)
	if err != nil {
		t.Fatalf("failed to render JSON: %v", err)
	}

	var decoded MusicPlayer
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(decoded.Playlist) != 3 {
		t.Errorf("expected 3 entries after round trip, got %d", len(decoded.Playlist))
	}
	if !strings.Contains(string(data), `"currentTrack"`) {
		t.Error("expected camelCase currentTrack key")
	}
}

func TestExportToLua(t *testing.T) {
	player := NewMusicPlayer(sampleExport(), PlayerOpts{})

	data, err := ExportToLua(player, "")
	if err != nil {
		t.Fatalf("failed to render Lua: %v", err)
	}
	script := string(data)

	if !strings.Contains(script, "local MusicPlayer = {}") {
		t.Error("expected default object name MusicPlayer")
	}
	if !strings.Contains(script, `name = "ArtistX - Song1 (Album1)"`) {
		t.Error("expected first playlist entry")
	}
	if !strings.Contains(script, `Song \"Two\"`) {
		t.Errorf("expected escaped quotes in Lua strings:\n%s", script)
	}
	if !strings.Contains(script, "MusicPlayer.currentTrack = 1") {
		t.Error("expected 1-indexed current track")
	}
	if !strings.Contains(script, "function MusicPlayer.play()") {
		t.Error("expected play function")
	}

	t.Run("custom object name", func(t *testing.T) {
		data, err := ExportToLua(player, "TableTunes")
		if err != nil {
			t.Fatalf("failed to render Lua: %v", err)
		}
		if !strings.Contains(string(data), "local TableTunes = {}") {
			t.Error("expected custom object name")
		}
	})
}

func TestExportToSimpleLua(t *testing.T) {
	player := NewMusicPlayer(sampleExport(), PlayerOpts{})

	data, err := ExportToSimpleLua(player)
	if err != nil {
		t.Fatalf("failed to render Lua: %v", err)
	}
	script := string(data)

	if !strings.HasPrefix(script, "playlist = {") {
		t.Errorf("expected playlist table, got:\n%s", script)
	}
	if !strings.Contains(script, `title = "ArtistX - Song1 (Album1)"`) {
		t.Error("expected title entries")
	}
	if strings.Contains(script, "function") {
		t.Error("simple format should carry no player code")
	}
}

func TestExportToText(t *testing.T) {
	player := NewMusicPlayer(sampleExport(), PlayerOpts{})

	data, err := ExportToText(player)
	if err != nil {
		t.Fatalf("failed to render text: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "Morning Mix") {
		t.Error("expected player name in summary")
	}
	if !strings.Contains(text, "Total Tracks: 3") {
		t.Error("expected track count")
	}
	if !strings.Contains(text, "1. ArtistX - Song1 (Album1)") {
		t.Error("expected numbered track listing")
	}
	if !strings.Contains(text, "URL: https://example.com/1") {
		t.Error("expected URL lines for tracks that have one")
	}
}

func TestWriteOutput(t *testing.T) {
	player := NewMusicPlayer(sampleExport(), PlayerOpts{})
	dir := filepath.Join(t.TempDir(), "out")

	result, err := WriteOutput(player, dir)
	if err != nil {
		t.Fatalf("failed to write output: %v", err)
	}

	for _, path := range result.Files() {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("expected file %s: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("expected non-empty file %s", path)
		}
	}

	if filepath.Base(result.LuaFile) != "Morning_Mix.lua" {
		t.Errorf("unexpected base filename %s", filepath.Base(result.LuaFile))
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Morning Mix", "Morning_Mix"},
		{"a/b\\c:d", "abcd"},
		{"rock-2024_v2", "rock-2024_v2"},
		{"///", "playlist"},
	}

	for _, tt := range tests {
		if got := SafeFilename(tt.in); got != tt.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
