// Package output renders records for the CLI in JSON, YAML or an
// aligned text table.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"spotscrape/internal/model"
)

// Render writes rec to w in the given format ("json", "yaml" or
// "table"). pretty only affects JSON.
func Render(w io.Writer, rec model.Record, format string, pretty bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(rec)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rec)
	case "table":
		return renderTable(w, rec)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderTable(w io.Writer, rec model.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	switch r := rec.(type) {
	case *model.TrackRecord:
		trackRows(tw, *r)
	case *model.AlbumRecord:
		row(tw, "Album", r.Name)
		row(tw, "ID", r.ID)
		row(tw, "Artists", artistNames(r.Artists))
		row(tw, "Released", r.ReleaseDate)
		row(tw, "Tracks", fmt.Sprintf("%d", r.TotalTracks))
		trackList(tw, r.Tracks)
	case *model.ArtistRecord:
		row(tw, "Artist", r.Name)
		row(tw, "ID", r.ID)
		if r.Followers != nil {
			row(tw, "Followers", fmt.Sprintf("%d", *r.Followers))
		}
		if r.MonthlyListeners != nil {
			row(tw, "Monthly listeners", fmt.Sprintf("%d", *r.MonthlyListeners))
		}
		if len(r.Genres) > 0 {
			row(tw, "Genres", strings.Join(r.Genres, ", "))
		}
		if r.Bio != "" {
			row(tw, "Bio", r.Bio)
		}
		if len(r.TopTracks) > 0 {
			fmt.Fprintln(tw, "Top tracks:\t")
			trackList(tw, r.TopTracks)
		}
	case *model.PlaylistRecord:
		row(tw, "Playlist", r.Name)
		row(tw, "ID", r.ID)
		row(tw, "Owner", r.Owner.Name)
		row(tw, "Description", r.Description)
		row(tw, "Tracks", fmt.Sprintf("%d", r.TrackCount))
		trackList(tw, r.Tracks)
	default:
		return fmt.Errorf("unsupported record type %T", rec)
	}

	return tw.Flush()
}

func trackRows(tw *tabwriter.Writer, t model.TrackRecord) {
	row(tw, "Track", t.Name)
	row(tw, "ID", t.ID)
	row(tw, "Artists", artistNames(t.Artists))
	row(tw, "Album", t.Album.Name)
	row(tw, "Duration", formatDuration(t.DurationMS))
	row(tw, "Explicit", fmt.Sprintf("%t", t.IsExplicit))
	if t.PreviewURL != "" {
		row(tw, "Preview", t.PreviewURL)
	}
}

func trackList(tw *tabwriter.Writer, tracks []model.TrackRecord) {
	for i, t := range tracks {
		num := i + 1
		if t.TrackNumber != nil {
			num = *t.TrackNumber
		}
		fmt.Fprintf(tw, "%3d.\t%s\t%s\t%s\n", num, t.Name, artistNames(t.Artists), formatDuration(t.DurationMS))
	}
}

func row(tw *tabwriter.Writer, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(tw, "%s:\t%s\n", key, value)
}

func artistNames(artists []model.ArtistRef) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func formatDuration(ms int) string {
	if ms <= 0 {
		return ""
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
