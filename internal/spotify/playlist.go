package spotify

import (
	"spotscrape/internal/jsonpath"
	"spotscrape/internal/model"
)

var playlistPaths = map[Layout]pathTable{
	LayoutModern: {
		"id":          {"id"},
		"uri":         {"uri"},
		"name":        {"name"},
		"description": {"description"},
		"owner":       {"ownerV2.data", "owner"},
		"images":      {"images.items.0.sources", "images"},
		"track_count": {"content.totalCount", "tracks.totalCount"},
		"tracks":      {"content.items", "tracks.items"},
		"subtitle":    {"subtitle"},
	},
	LayoutLegacy: {
		"id":          {"id"},
		"uri":         {"uri"},
		"name":        {"name"},
		"description": {"description"},
		"owner":       {"owner"},
		"images":      {"images"},
		"track_count": {"tracks.total"},
		"tracks":      {"tracks.items"},
		"subtitle":    {"subtitle"},
	},
	LayoutEmbed: {
		"id":          {"id"},
		"uri":         {"uri"},
		"name":        {"name", "title"},
		"description": {"description"},
		"owner":       {"owner"},
		"images":      {"coverArt.sources", "images"},
		"track_count": {"trackCount"},
		"tracks":      {"trackList", "tracks.items"},
		"subtitle":    {"subtitle"},
	},
}

var ownerNamePaths = []string{"name", "display_name", "profile.name"}

// ExtractPlaylist normalizes a located document into a PlaylistRecord.
//
// The owner display name falls back to the owner id when absent, and on
// embed layouts with no structured owner object at all the subtitle text
// supplies the owner name. TrackCount reflects the extracted list length
// whenever the authoritative count field is missing.
func ExtractPlaylist(doc *RawDocument) (*model.PlaylistRecord, error) {
	ent := doc.entity()
	t := playlistPaths[doc.Layout]

	id, uri := resolveIdentity(ent, t, model.EntityPlaylist)
	name := tableString(ent, t, "name", "")
	if id == "" || name == "" {
		return nil, &ExtractionError{EntityType: model.EntityPlaylist, Details: "required id or name missing after all fallbacks"}
	}

	owner := parseOwner(jsonpath.First(ent, t["owner"], nil))
	if owner.Name == "" {
		owner.Name = tableString(ent, t, "subtitle", "")
	}

	var tracks []model.TrackRecord
	for _, item := range tableSlice(ent, t, "tracks") {
		child := unwrapItem(item)
		if child == nil {
			continue
		}
		track, ok := childTrack(child, doc.Layout, model.AlbumRef{}, nil)
		if ok {
			tracks = append(tracks, track)
		}
	}

	count, ok := tableInt(ent, t, "track_count")
	if !ok {
		count = len(tracks)
	}

	return &model.PlaylistRecord{
		ID:          id,
		Name:        name,
		URI:         uri,
		Owner:       owner,
		Description: tableString(ent, t, "description", ""),
		Images:      parseImages(jsonpath.First(ent, t["images"], nil)),
		TrackCount:  count,
		Tracks:      tracks,
	}, nil
}

// parseOwner normalizes the playlist owner object. The display name
// falls back to the owner id so the field is never silently empty when
// any identity is known.
func parseOwner(v any) model.ArtistRef {
	m, ok := v.(map[string]any)
	if !ok {
		return model.ArtistRef{}
	}
	id := jsonpath.String(m, "id", "")
	if id == "" {
		id = idFromURI(jsonpath.String(m, "uri", ""))
	}
	name, _ := jsonpath.First(m, ownerNamePaths, "").(string)
	if name == "" {
		name = id
	}
	return model.ArtistRef{ID: id, Name: name}
}
