package spotify

import (
	"spotscrape/internal/jsonpath"
	"spotscrape/internal/model"
)

// trackPaths is the per-layout path table for track fields. Raw pages
// also carry visual-identity blobs, related-entity URIs and hasVideo
// flags; none of those are part of the record contract, so no table row
// reads them.
var trackPaths = map[Layout]pathTable{
	LayoutModern: {
		"id":           {"id"},
		"uri":          {"uri"},
		"name":         {"name"},
		"duration_ms":  {"duration.totalMilliseconds", "duration_ms", "duration"},
		"artists":      {"artists.items", "firstArtist.items", "artists"},
		"album":        {"albumOfTrack", "album"},
		"images":       {"albumOfTrack.coverArt.sources", "coverArt.sources", "album.images"},
		"preview_url":  {"audioPreview.url", "preview_url"},
		"explicit":     {"explicit", "isExplicit"},
		"playable":     {"playability.playable", "is_playable"},
		"track_number": {"trackNumber", "track_number"},
		"disc_number":  {"discNumber", "disc_number"},
		"subtitle":     {"subtitle"},
	},
	LayoutLegacy: {
		"id":           {"id"},
		"uri":          {"uri"},
		"name":         {"name"},
		"duration_ms":  {"duration_ms", "duration"},
		"artists":      {"artists"},
		"album":        {"album"},
		"images":       {"album.images"},
		"preview_url":  {"preview_url"},
		"explicit":     {"explicit"},
		"playable":     {"is_playable"},
		"track_number": {"track_number"},
		"disc_number":  {"disc_number"},
		"subtitle":     {"subtitle"},
	},
	LayoutEmbed: {
		"id":           {"id"},
		"uri":          {"uri"},
		"name":         {"name", "title"},
		"duration_ms":  {"duration", "duration_ms"},
		"artists":      {"artists"},
		"album":        {"album"},
		"images":       {"coverArt.sources", "visualIdentity.image", "images"},
		"preview_url":  {"audioPreview.url", "preview_url"},
		"explicit":     {"isExplicit", "explicit"},
		"playable":     {"isPlayable", "is_playable"},
		"track_number": {"track_number"},
		"disc_number":  {"disc_number"},
		"subtitle":     {"subtitle"},
	},
}

// ExtractTrack normalizes a located document into a TrackRecord.
//
// Only id and name are required; everything else degrades gracefully.
// When the structured artist array is empty but a subtitle string is
// present (embed layout), artist names are synthesized from the subtitle
// without ids. The legacy whole-seconds/milliseconds duration split is
// reconciled into the single DurationMS field.
func ExtractTrack(doc *RawDocument) (*model.TrackRecord, error) {
	ent := doc.entity()
	t := trackPaths[doc.Layout]

	id, uri := resolveIdentity(ent, t, model.EntityTrack)
	name := tableString(ent, t, "name", "")
	if id == "" || name == "" {
		return nil, &ExtractionError{EntityType: model.EntityTrack, Details: "required id or name missing after all fallbacks"}
	}

	artists := parseArtists(tableSlice(ent, t, "artists"))
	if len(artists) == 0 {
		artists = splitSubtitle(tableString(ent, t, "subtitle", ""))
	}

	album := parseAlbumRef(jsonpath.First(ent, t["album"], nil))
	if len(album.Images) == 0 {
		album.Images = parseImages(jsonpath.First(ent, t["images"], nil))
	}

	duration, _ := tableInt(ent, t, "duration_ms")

	return &model.TrackRecord{
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
	}, nil
}

// albumRefPaths locate the fields of an album context object across
// layouts; the object shapes overlap enough that one table serves all.
var albumRefPaths = pathTable{
	"id":     {"id"},
	"uri":    {"uri"},
	"name":   {"name", "title"},
	"images": {"coverArt.sources", "images"},
}

// parseAlbumRef normalizes a raw album context object. Name may stay
// empty (embed pages omit it) while images are still populated.
func parseAlbumRef(v any) model.AlbumRef {
	m, ok := v.(map[string]any)
	if !ok {
		return model.AlbumRef{}
	}
	id := tableString(m, albumRefPaths, "id", "")
	uri := tableString(m, albumRefPaths, "uri", "")
	if id == "" {
		id = idFromURI(uri)
	}
	return model.AlbumRef{
		ID:     id,
		Name:   tableString(m, albumRefPaths, "name", ""),
		URI:    uri,
		Images: parseImages(jsonpath.First(m, albumRefPaths["images"], nil)),
	}
}
