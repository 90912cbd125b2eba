package spotify

import (
	"strconv"

	"spotscrape/internal/jsonpath"
	"spotscrape/internal/model"
)

var albumPaths = map[Layout]pathTable{
	LayoutModern: {
		"id":           {"id"},
		"uri":          {"uri"},
		"name":         {"name"},
		"artists":      {"artists.items", "artists"},
		"images":       {"coverArt.sources", "images"},
		"release_date": {"date.isoString", "releaseDate.isoString", "release_date"},
		"release_year": {"date.year", "releaseDate.year"},
		"total_tracks": {"tracks.totalCount", "total_tracks"},
		"tracks":       {"tracks.items", "trackList"},
		"subtitle":     {"subtitle"},
	},
	LayoutLegacy: {
		"id":           {"id"},
		"uri":          {"uri"},
		"name":         {"name"},
		"artists":      {"artists"},
		"images":       {"images"},
		"release_date": {"release_date"},
		"release_year": {"release_year"},
		"total_tracks": {"total_tracks", "tracks.total"},
		"tracks":       {"tracks.items"},
		"subtitle":     {"subtitle"},
	},
	LayoutEmbed: {
		"id":           {"id"},
		"uri":          {"uri"},
		"name":         {"name", "title"},
		"artists":      {"artists"},
		"images":       {"coverArt.sources", "images"},
		"release_date": {"releaseDate.isoString", "release_date"},
		"release_year": {"releaseDate.year"},
		"total_tracks": {"trackCount", "total_tracks"},
		"tracks":       {"trackList", "tracks.items"},
		"subtitle":     {"subtitle"},
	},
}

// ExtractAlbum normalizes a located document into an AlbumRecord.
//
// TotalTracks falls back to the length of the extracted track list when
// the authoritative count field is absent, so it is always present.
// Child tracks inherit the album context; their track numbers are set
// only when the album data supplies them, never guessed from position.
func ExtractAlbum(doc *RawDocument) (*model.AlbumRecord, error) {
	ent := doc.entity()
	t := albumPaths[doc.Layout]

	id, uri := resolveIdentity(ent, t, model.EntityAlbum)
	name := tableString(ent, t, "name", "")
	if id == "" || name == "" {
		return nil, &ExtractionError{EntityType: model.EntityAlbum, Details: "required id or name missing after all fallbacks"}
	}

	artists := parseArtists(tableSlice(ent, t, "artists"))
	if len(artists) == 0 {
		artists = splitSubtitle(tableString(ent, t, "subtitle", ""))
	}

	images := parseImages(jsonpath.First(ent, t["images"], nil))

	releaseDate := tableString(ent, t, "release_date", "")
	if releaseDate == "" {
		if year, ok := tableInt(ent, t, "release_year"); ok {
			releaseDate = strconv.Itoa(year)
		}
	}

	ref := model.AlbumRef{ID: id, Name: name, URI: uri, Images: images}
	var tracks []model.TrackRecord
	for _, item := range tableSlice(ent, t, "tracks") {
		child := unwrapItem(item)
		if child == nil {
			continue
		}
		track, ok := childTrack(child, doc.Layout, ref, artists)
		if ok {
			tracks = append(tracks, track)
		}
	}

	total, ok := tableInt(ent, t, "total_tracks")
	if !ok {
		total = len(tracks)
	}

	return &model.AlbumRecord{
		ID:          id,
		Name:        name,
		URI:         uri,
		Artists:     artists,
		Images:      images,
		ReleaseDate: releaseDate,
		TotalTracks: total,
		Tracks:      tracks,
	}, nil
}

// childTrack normalizes one track entry inside an album, playlist or
// top-track list. The parent context supplies the album reference and a
// fallback artist list; ok is false when the entry lacks even a name.
func childTrack(ent map[string]any, layout Layout, album model.AlbumRef, parentArtists []model.ArtistRef) (model.TrackRecord, bool) {
	t := trackPaths[layout]

	id, uri := resolveIdentity(ent, t, model.EntityTrack)
	name := tableString(ent, t, "name", "")
	if name == "" {
		return model.TrackRecord{}, false
	}

	artists := parseArtists(tableSlice(ent, t, "artists"))
	if len(artists) == 0 {
		artists = splitSubtitle(tableString(ent, t, "subtitle", ""))
	}
	if len(artists) == 0 {
		artists = parentArtists
	}

	// A list entry may carry its own album context (top-track lists do);
	// otherwise it inherits the parent's.
	if own := parseAlbumRef(jsonpath.First(ent, t["album"], nil)); own.ID != "" || len(own.Images) > 0 {
		album = own
	}

	duration, _ := tableInt(ent, t, "duration_ms")

	return model.TrackRecord{
		ID:          id,
		Name:        name,
		URI:         uri,
		DurationMS:  duration,
		Artists:     artists,
		Album:       album,
		PreviewURL:  tableString(ent, t, "preview_url", ""),
		IsExplicit:  tableBool(ent, t, "explicit", false),
		IsPlayable:  tableBool(ent, t, "playable", true),
		TrackNumber: tableIntPtr(ent, t, "track_number"),
		DiscNumber:  tableIntPtr(ent, t, "disc_number"),
	}, true
}
