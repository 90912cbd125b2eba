package spotify

import (
	"spotscrape/internal/jsonpath"
	"spotscrape/internal/model"
)

var artistPaths = map[Layout]pathTable{
	LayoutModern: {
		"id":                {"id"},
		"uri":               {"uri"},
		"name":              {"profile.name", "name"},
		"images":            {"visuals.avatarImage.sources", "images"},
		"bio":               {"profile.biography.text", "bio"},
		"top_tracks":        {"discography.topTracks.items", "top_tracks.tracks", "top_tracks"},
		"monthly_listeners": {"stats.monthlyListeners"},
		"followers":         {"stats.followers", "followers.total"},
		"genres":            {"genres"},
		"popularity":        {"popularity"},
	},
	LayoutLegacy: {
		"id":                {"id"},
		"uri":               {"uri"},
		"name":              {"name"},
		"images":            {"images"},
		"bio":               {"bio"},
		"top_tracks":        {"top_tracks"},
		"monthly_listeners": {"monthly_listeners"},
		"followers":         {"followers.total", "followers"},
		"genres":            {"genres"},
		"popularity":        {"popularity"},
	},
	LayoutEmbed: {
		"id":                {"id"},
		"uri":               {"uri"},
		"name":              {"name", "title"},
		"images":            {"coverArt.sources", "visuals.avatarImage.sources", "images"},
		"bio":               {"bio"},
		"top_tracks":        {"trackList", "top_tracks"},
		"monthly_listeners": {"monthly_listeners"},
		"followers":         {"followers"},
		"genres":            {"genres"},
		"popularity":        {"popularity"},
	},
}

// ExtractArtist normalizes a located document into an ArtistRecord.
//
// Follower counts, monthly listeners, genres and popularity are API-only
// data in practice. When no path yields them they stay absent in the
// record, never defaulted to zero, so callers can tell "unknown" from
// "zero". The table rows remain because the pages have grown and shed
// these fields before.
func ExtractArtist(doc *RawDocument) (*model.ArtistRecord, error) {
	ent := doc.entity()
	t := artistPaths[doc.Layout]

	id, uri := resolveIdentity(ent, t, model.EntityArtist)
	name := tableString(ent, t, "name", "")
	if id == "" || name == "" {
		return nil, &ExtractionError{EntityType: model.EntityArtist, Details: "required id or name missing after all fallbacks"}
	}

	selfRef := []model.ArtistRef{{ID: id, Name: name, URL: entityURL(model.EntityArtist, id)}}
	var topTracks []model.TrackRecord
	for _, item := range tableSlice(ent, t, "top_tracks") {
		child := unwrapItem(item)
		if child == nil {
			continue
		}
		track, ok := childTrack(child, doc.Layout, model.AlbumRef{}, selfRef)
		if ok {
			topTracks = append(topTracks, track)
		}
	}

	var genres []string
	for _, g := range tableSlice(ent, t, "genres") {
		if s, ok := g.(string); ok && s != "" {
			genres = append(genres, s)
		}
	}

	return &model.ArtistRecord{
		ID:               id,
		Name:             name,
		URI:              uri,
		Images:           parseImages(jsonpath.First(ent, t["images"], nil)),
		Bio:              tableString(ent, t, "bio", ""),
		TopTracks:        topTracks,
		Genres:           genres,
		Followers:        tableIntPtr(ent, t, "followers"),
		MonthlyListeners: tableIntPtr(ent, t, "monthly_listeners"),
		Popularity:       tableIntPtr(ent, t, "popularity"),
	}, nil
}
