// package formatter renders fetched collections into Tabletop Simulator
// payloads (Lua music player scripts and JSON data) and plain-text listings.
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/soundtable/soundtable/internal/shared"
)

const (
	DefaultVolume = 0.8
	DefaultPitch  = 1.0
)

// AudioObject is one playlist entry in Tabletop Simulator's audio format.
type AudioObject struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Volume    float64 `json:"volume"`
	Pitch     float64 `json:"pitch"`
	Loop      bool    `json:"loop"`
	LoopStart float64 `json:"loopstart"`
}

// MusicPlayer is the Tabletop Simulator music player object built from a
// fetched collection.
type MusicPlayer struct {
	Name         string        `json:"name"`
	Playlist     []AudioObject `json:"playlist"`
	CurrentTrack int           `json:"currentTrack"`
	Shuffle      bool          `json:"shuffle"`
	Repeat       bool          `json:"repeat"`
}

// PlayerOpts configures how a collection becomes a music player.
type PlayerOpts struct {
	PlayerName string  // Defaults to the collection name
	Volume     float64 // Per-track volume, 0.0 to 1.0 (default 0.8)
	Pitch      float64 // Per-track pitch, 0.1 to 3.0 (default 1.0)
}

// NewAudioObject builds one playlist entry from a track. The entry name is
// "Artist - Title" with the album appended in parentheses when known. The URL
// is the track's source URL; Tabletop Simulator streams whatever it points at.
func NewAudioObject(track models.Track, volume, pitch float64) AudioObject {
	name := track.String()
	if track.Album != "" {
		name = fmt.Sprintf("%s (%s)", name, track.Album)
	}

	return AudioObject{
		Name:   name,
		URL:    track.SourceURL,
		Volume: volume,
		Pitch:  pitch,
	}
}

// NewMusicPlayer builds a music player from a collection export, tracks in
// export order.
func NewMusicPlayer(export *models.CollectionExport, opts PlayerOpts) *MusicPlayer {
	if opts.PlayerName == "" {
		opts.PlayerName = export.Collection.Name
	}
	if opts.Volume <= 0 {
		opts.Volume = DefaultVolume
	}
	if opts.Pitch <= 0 {
		opts.Pitch = DefaultPitch
	}

	playlist := make([]AudioObject, 0, len(export.Tracks))
	for _, track := range export.Tracks {
		playlist = append(playlist, NewAudioObject(track, opts.Volume, opts.Pitch))
	}

	return &MusicPlayer{
		Name:     opts.PlayerName,
		Playlist: playlist,
	}
}

// ExportToJSON renders the music player as indented JSON.
func ExportToJSON(player *MusicPlayer) ([]byte, error) {
	return shared.MarshalJSON(player, true)
}

// ExportToText renders a plain-text listing of the music player.
func ExportToText(player *MusicPlayer) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n%s\n\n", player.Name, strings.Repeat("=", len(player.Name))))
	buf.WriteString(fmt.Sprintf("Total Tracks: %d\n\n", len(player.Playlist)))

	for i, audio := range player.Playlist {
		buf.WriteString(fmt.Sprintf("%3d. %s\n", i+1, audio.Name))
		if audio.URL != "" {
			buf.WriteString(fmt.Sprintf("     URL: %s\n", audio.URL))
		}
	}

	return buf.Bytes(), nil
}

// luaScript drives ExportToLua. Lua arrays are 1-indexed, hence the +1 on the
// current track.
var luaScript = template.Must(template.New("lua").Funcs(template.FuncMap{
	"escape": escapeLuaString,
	"inc":    func(i int) int { return i + 1 },
}).Parse(`-- {{escape .Player.Name}} - Generated by soundtable
-- Music Player for Tabletop Simulator

local {{.ObjectName}} = {}

-- Playlist configuration
{{.ObjectName}}.playlist = {
{{- range $i, $audio := .Player.Playlist}}
    {
        name = "{{escape $audio.Name}}",
        url = "{{escape $audio.URL}}",
        volume = {{$audio.Volume}},
        pitch = {{$audio.Pitch}},
        loop = {{$audio.Loop}},
        loopstart = {{$audio.LoopStart}}
    },
{{- end}}
}

-- Player state
{{.ObjectName}}.currentTrack = {{inc .Player.CurrentTrack}}
{{.ObjectName}}.shuffle = {{.Player.Shuffle}}
{{.ObjectName}}.isPlaying = false

-- Play current track
function {{.ObjectName}}.play()
    if #{{.ObjectName}}.playlist > 0 then
        local track = {{.ObjectName}}.playlist[{{.ObjectName}}.currentTrack]
        if track and track.url ~= "" then
            MusicPlayer.setPlaylist({track.url})
            MusicPlayer.play()
            {{.ObjectName}}.isPlaying = true
            print("Now playing: " .. track.name)
        else
            print("No valid audio URL for current track")
        end
    else
        print("Playlist is empty")
    end
end

-- Stop playback
function {{.ObjectName}}.stop()
    MusicPlayer.stop()
    {{.ObjectName}}.isPlaying = false
    print("Music stopped")
end

-- Next track
function {{.ObjectName}}.next()
    if #{{.ObjectName}}.playlist > 0 then
        if {{.ObjectName}}.currentTrack < #{{.ObjectName}}.playlist then
            {{.ObjectName}}.currentTrack = {{.ObjectName}}.currentTrack + 1
        else
            {{.ObjectName}}.currentTrack = 1
        end
        {{.ObjectName}}.play()
    end
end

-- Previous track
function {{.ObjectName}}.previous()
    if #{{.ObjectName}}.playlist > 0 then
        if {{.ObjectName}}.currentTrack > 1 then
            {{.ObjectName}}.currentTrack = {{.ObjectName}}.currentTrack - 1
        else
            {{.ObjectName}}.currentTrack = #{{.ObjectName}}.playlist
        end
        {{.ObjectName}}.play()
    end
end

-- Set track by index
function {{.ObjectName}}.setTrack(index)
    if index >= 1 and index <= #{{.ObjectName}}.playlist then
        {{.ObjectName}}.currentTrack = index
        {{.ObjectName}}.play()
    else
        print("Track index out of range: " .. index)
    end
end

-- List all tracks
function {{.ObjectName}}.listTracks()
    print("=== {{escape .Player.Name}} ===")
    for i, track in ipairs({{.ObjectName}}.playlist) do
        local marker = (i == {{.ObjectName}}.currentTrack) and "> " or "  "
        print(marker .. i .. ". " .. track.name)
    end
end

-- Initialize on load
function onLoad()
    print("{{escape .Player.Name}} loaded with " .. #{{.ObjectName}}.playlist .. " tracks")
    print("Use {{.ObjectName}}.play() to start playback")
end

return {{.ObjectName}}
`))

// simpleLuaScript renders just the playlist table, for mods that carry their
// own player code.
var simpleLuaScript = template.Must(template.New("simple").Funcs(template.FuncMap{
	"escape": escapeLuaString,
}).Parse(`playlist = {
{{- range .Playlist}}
    {
        title = "{{escape .Name}}",
        url = "{{escape .URL}}",
    },
{{- end}}
}
`))

// ExportToLua renders the full Lua music player script. objectName is the Lua
// variable holding the player; it defaults to "MusicPlayer".
func ExportToLua(player *MusicPlayer, objectName string) ([]byte, error) {
	if objectName == "" {
		objectName = "MusicPlayer"
	}

	var buf bytes.Buffer
	data := struct {
		Player     *MusicPlayer
		ObjectName string
	}{player, objectName}

	if err := luaScript.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render Lua script: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToSimpleLua renders the bare playlist table.
func ExportToSimpleLua(player *MusicPlayer) ([]byte, error) {
	var buf bytes.Buffer
	if err := simpleLuaScript.Execute(&buf, player); err != nil {
		return nil, fmt.Errorf("failed to render Lua playlist: %w", err)
	}
	return buf.Bytes(), nil
}

// escapeLuaString escapes special characters for double-quoted Lua strings.
func escapeLuaString(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	)
	return replacer.Replace(text)
}

// OutputResult contains the paths of files created by WriteOutput.
type OutputResult struct {
	Directory string
	LuaFile   string
	SimpleLua string
	JSONFile  string
	TextFile  string
}

// Files lists every created file path.
func (r *OutputResult) Files() []string {
	return []string{r.LuaFile, r.SimpleLua, r.JSONFile, r.TextFile}
}

// WriteOutput renders every output format into outputDir, creating it if
// needed. The base filename derives from the player name with unsafe
// characters dropped.
func WriteOutput(player *MusicPlayer, outputDir string) (*OutputResult, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := SafeFilename(player.Name)
	result := &OutputResult{
		Directory: outputDir,
		LuaFile:   filepath.Join(outputDir, base+".lua"),
		SimpleLua: filepath.Join(outputDir, base+"_simple.lua"),
		JSONFile:  filepath.Join(outputDir, base+"_data.json"),
		TextFile:  filepath.Join(outputDir, base+"_summary.txt"),
	}

	outputs := []struct {
		path   string
		render func() ([]byte, error)
	}{
		{result.LuaFile, func() ([]byte, error) { return ExportToLua(player, "") }},
		{result.SimpleLua, func() ([]byte, error) { return ExportToSimpleLua(player) }},
		{result.JSONFile, func() ([]byte, error) { return ExportToJSON(player) }},
		{result.TextFile, func() ([]byte, error) { return ExportToText(player) }},
	}

	for _, output := range outputs {
		data, err := output.render()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(output.path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", output.path, err)
		}
	}

	return result, nil
}

// SafeFilename keeps alphanumerics, dashes, and underscores; spaces become
// underscores and everything else is dropped.
func SafeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "playlist"
	}
	return b.String()
}
