package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"spotscrape/internal/model"
)

// PlaylistEntry pairs a downloaded preview file with its record.
type PlaylistEntry struct {
	Track model.TrackRecord
	Path  string
}

// PlaylistWriter generates M3U playlist files for downloaded previews.
//
// Paths in the output are relative (just the filename), assuming the
// playlist sits in the same directory as the files.
type PlaylistWriter struct {
	extended bool // include #EXTINF lines with duration and display title
}

// NewPlaylistWriter creates a PlaylistWriter. extended adds #EXTINF
// lines with duration and "Artist - Title" display names.
func NewPlaylistWriter(extended bool) *PlaylistWriter {
	return &PlaylistWriter{extended: extended}
}

// M3U renders the playlist content, ready to be written to a file.
func (w *PlaylistWriter) M3U(entries []PlaylistEntry) string {
	var sb strings.Builder

	if w.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if w.extended {
			seconds := e.Track.DurationMS / 1000
			display := e.Track.Name
			if len(e.Track.Artists) > 0 {
				display = fmt.Sprintf("%s - %s", e.Track.Artists[0].Name, e.Track.Name)
			}
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", seconds, display))
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}

	return sb.String()
}
