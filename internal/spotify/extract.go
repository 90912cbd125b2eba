package spotify

import (
	"fmt"
	"strings"

	"spotscrape/internal/jsonpath"
	"spotscrape/internal/model"
)

// pathTable maps a logical field name to candidate dotted paths, ordered
// by preference. Tables are per-layout data, not code branches: when the
// site moves a field, the table changes and the extractor logic does not.
type pathTable map[string][]string

// subtitleDelimiter separates artist names in the human-readable
// subtitle string on embed pages.
const subtitleDelimiter = ", "

// entityRoots is where the entity object sits per layout. The legacy
// resource blob keeps the entity at the document root.
var entityRoots = map[Layout][]string{
	LayoutModern: {"props.pageProps.state.data.entity", "props.pageProps.state.data"},
	LayoutEmbed:  {"data.entity", "data"},
}

// entity navigates from the document root to the entity object for the
// document's layout.
func (d *RawDocument) entity() map[string]any {
	roots := entityRoots[d.Layout]
	if len(roots) == 0 {
		return d.Payload
	}
	for _, root := range roots {
		if m := jsonpath.Map(d.Payload, root); m != nil {
			return m
		}
	}
	return d.Payload
}

// Extract runs the extractor for the given entity type against the
// located document. Extracting the same document twice yields
// structurally equal records; extractors never retry and never fetch.
func Extract(doc *RawDocument, entity model.EntityType) (model.Record, error) {
	switch entity {
	case model.EntityTrack:
		return ExtractTrack(doc)
	case model.EntityAlbum:
		return ExtractAlbum(doc)
	case model.EntityArtist:
		return ExtractArtist(doc)
	case model.EntityPlaylist:
		return ExtractPlaylist(doc)
	}
	return nil, &ExtractionError{EntityType: entity, Details: "unsupported entity type"}
}

// tableString resolves a logical field to a string using the table's
// candidate paths, falling back to def.
func tableString(doc any, t pathTable, field, def string) string {
	if s, ok := jsonpath.First(doc, t[field], nil).(string); ok {
		return s
	}
	return def
}

// tableInt resolves a logical field to an int. found is false when no
// candidate path held a number, letting callers tell "authoritative
// value missing" apart from a literal zero.
func tableInt(doc any, t pathTable, field string) (int, bool) {
	switch n := jsonpath.First(doc, t[field], nil).(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// tableIntPtr resolves a logical field to *int, nil when absent.
func tableIntPtr(doc any, t pathTable, field string) *int {
	if n, ok := tableInt(doc, t, field); ok {
		return &n
	}
	return nil
}

// tableBool resolves a logical field to a bool, falling back to def.
func tableBool(doc any, t pathTable, field string, def bool) bool {
	if b, ok := jsonpath.First(doc, t[field], nil).(bool); ok {
		return b
	}
	return def
}

// tableSlice resolves a logical field to the first candidate path that
// holds a non-empty array.
func tableSlice(doc any, t pathTable, field string) []any {
	for _, p := range t[field] {
		if s := jsonpath.Slice(doc, p); len(s) > 0 {
			return s
		}
	}
	return nil
}

// idFromURI pulls the trailing id segment out of an app URI like
// "spotify:track:6rqhFgbbKwnb9MLmUQDhG6". Returns "" for anything else.
func idFromURI(uri string) string {
	if !strings.HasPrefix(uri, URIScheme+":") {
		return ""
	}
	parts := strings.Split(uri, ":")
	if len(parts) < 3 || parts[len(parts)-1] == "" {
		return ""
	}
	return parts[len(parts)-1]
}

func entityURL(entity model.EntityType, id string) string {
	return fmt.Sprintf("https://%s/%s/%s", Host, entity, id)
}

// resolveIdentity reconciles the id/uri pair: either may be missing in a
// given layout, and each can be derived from the other.
func resolveIdentity(ent map[string]any, t pathTable, entity model.EntityType) (id, uri string) {
	id = tableString(ent, t, "id", "")
	uri = tableString(ent, t, "uri", "")
	if id == "" {
		id = idFromURI(uri)
	}
	if uri == "" && id != "" {
		uri = fmt.Sprintf("%s:%s:%s", URIScheme, entity, id)
	}
	return id, uri
}

// artistItemPaths are the candidate locations of name and id inside one
// raw artist object, across all layouts.
var (
	artistNamePaths = []string{"profile.name", "name"}
	artistIDPaths   = []string{"id"}
)

// parseArtists normalizes a raw artist array into ArtistRefs. Entries
// without a usable name are dropped; ids are derived from URIs when the
// layout omits them.
func parseArtists(items []any) []model.ArtistRef {
	var refs []model.ArtistRef
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := jsonpath.First(m, artistNamePaths, "").(string)
		if name == "" {
			continue
		}
		id, _ := jsonpath.First(m, artistIDPaths, "").(string)
		if id == "" {
			id = idFromURI(jsonpath.String(m, "uri", ""))
		}
		ref := model.ArtistRef{ID: id, Name: name}
		if id != "" {
			ref.URL = entityURL(model.EntityArtist, id)
		}
		refs = append(refs, ref)
	}
	return refs
}

// splitSubtitle synthesizes ArtistRefs from a display subtitle like
// "Artist A, Artist B". Ids stay absent: the subtitle carries names only.
func splitSubtitle(subtitle string) []model.ArtistRef {
	var refs []model.ArtistRef
	for _, name := range strings.Split(subtitle, subtitleDelimiter) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		refs = append(refs, model.ArtistRef{Name: name})
	}
	return refs
}

// parseImages normalizes a raw image source array.
func parseImages(v any) []model.ImageRef {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var images []model.ImageRef
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		u := jsonpath.String(m, "url", "")
		if u == "" {
			continue
		}
		images = append(images, model.ImageRef{
			URL:    u,
			Width:  jsonpath.Int(m, "width", 0),
			Height: jsonpath.Int(m, "height", 0),
		})
	}
	return images
}

// unwrapItem strips the wrapper objects list layouts put around track
// entries ({"itemV2":{"data":{...}}} or {"track":{...}}).
func unwrapItem(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if inner := jsonpath.Map(m, "itemV2.data"); inner != nil {
		return inner
	}
	if inner := jsonpath.Map(m, "track"); inner != nil {
		return inner
	}
	return m
}
