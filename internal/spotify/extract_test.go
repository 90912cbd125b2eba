package spotify

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"spotscrape/internal/model"
)

const artistID = "1dfeR4HaWDbWqFHLkxsg1d"

func doc(t *testing.T, layout Layout, raw string) *RawDocument {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode test document: %v", err)
	}
	return &RawDocument{Layout: layout, Payload: payload}
}

// modern wraps an entity object in the hydration blob's nesting.
func modern(entity string) string {
	return `{"props":{"pageProps":{"state":{"data":{"entity":` + entity + `}}}}}`
}

// embed wraps an entity object the way embed pages do.
func embed(entity string) string {
	return `{"data":{"entity":` + entity + `}}`
}

func TestExtractTrackModern(t *testing.T) {
	d := doc(t, LayoutModern, modern(`{
		"uri": "spotify:track:`+trackID+`",
		"name": "Bohemian Rhapsody",
		"duration": {"totalMilliseconds": 354320},
		"artists": {"items": [
			{"uri": "spotify:artist:`+artistID+`", "profile": {"name": "Queen"}}
		]},
		"albumOfTrack": {
			"uri": "spotify:album:`+albumID+`",
			"name": "A Night at the Opera",
			"coverArt": {"sources": [
				{"url": "https://i.scdn.co/image/small", "width": 300, "height": 300},
				{"url": "https://i.scdn.co/image/large", "width": 640, "height": 640}
			]}
		},
		"audioPreview": {"url": "https://p.scdn.co/mp3-preview/abc"},
		"explicit": false,
		"playability": {"playable": true},
		"trackNumber": 11,
		"discNumber": 1
	}`))

	track, err := ExtractTrack(d)
	if err != nil {
		t.Fatal(err)
	}

	if track.ID != trackID {
		t.Errorf("ID = %q, want id derived from URI", track.ID)
	}
	if track.Name != "Bohemian Rhapsody" {
		t.Errorf("Name = %q", track.Name)
	}
	if track.DurationMS != 354320 {
		t.Errorf("DurationMS = %d, want 354320", track.DurationMS)
	}
	if len(track.Artists) != 1 || track.Artists[0].Name != "Queen" || track.Artists[0].ID != artistID {
		t.Errorf("Artists = %+v", track.Artists)
	}
	if track.Artists[0].URL != "https://open.spotify.com/artist/"+artistID {
		t.Errorf("artist URL = %q", track.Artists[0].URL)
	}
	if track.Album.ID != albumID || track.Album.Name != "A Night at the Opera" {
		t.Errorf("Album = %+v", track.Album)
	}
	if len(track.Album.Images) != 2 {
		t.Errorf("Album.Images = %+v", track.Album.Images)
	}
	if track.PreviewURL != "https://p.scdn.co/mp3-preview/abc" {
		t.Errorf("PreviewURL = %q", track.PreviewURL)
	}
	if track.TrackNumber == nil || *track.TrackNumber != 11 {
		t.Errorf("TrackNumber = %v, want 11", track.TrackNumber)
	}
	if !track.IsPlayable {
		t.Error("IsPlayable = false")
	}
}

func TestExtractTrackEmbedSubtitleFallback(t *testing.T) {
	d := doc(t, LayoutEmbed, embed(`{
		"uri": "spotify:track:`+trackID+`",
		"title": "Under Pressure",
		"subtitle": "Queen, David Bowie",
		"duration": 245000,
		"coverArt": {"sources": [{"url": "https://i.scdn.co/image/cover", "width": 640, "height": 640}]},
		"audioPreview": {"url": "https://p.scdn.co/mp3-preview/xyz"},
		"isExplicit": true
	}`))

	track, err := ExtractTrack(d)
	if err != nil {
		t.Fatal(err)
	}

	if track.Name != "Under Pressure" {
		t.Errorf("Name = %q, want title fallback", track.Name)
	}
	// Subtitle-derived artists carry names only, never ids.
	want := []model.ArtistRef{{Name: "Queen"}, {Name: "David Bowie"}}
	if !reflect.DeepEqual(track.Artists, want) {
		t.Errorf("Artists = %+v, want %+v", track.Artists, want)
	}
	if track.DurationMS != 245000 {
		t.Errorf("DurationMS = %d", track.DurationMS)
	}
	// No structured album object on embed pages, but cover art still lands
	// on the album ref.
	if track.Album.Name != "" || len(track.Album.Images) != 1 {
		t.Errorf("Album = %+v, want empty ref with one image", track.Album)
	}
	if !track.IsExplicit {
		t.Error("IsExplicit = false")
	}
}

func TestExtractTrackLegacyDurationField(t *testing.T) {
	// Some modern pages still carry the bare numeric duration field
	// instead of the structured one; both land in DurationMS.
	d := doc(t, LayoutModern, modern(`{
		"uri": "spotify:track:`+trackID+`",
		"name": "Old Field Song",
		"duration": 225400
	}`))

	track, err := ExtractTrack(d)
	if err != nil {
		t.Fatal(err)
	}
	if track.DurationMS != 225400 {
		t.Errorf("DurationMS = %d, want 225400", track.DurationMS)
	}
}

func TestExtractTrackRequiresIDAndName(t *testing.T) {
	d := doc(t, LayoutLegacy, `{"name": "Nameless"}`)

	_, err := ExtractTrack(d)
	if err == nil {
		t.Fatal("ExtractTrack succeeded without an id")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("error is %T, want *ExtractionError", err)
	}
	if ee.EntityType != model.EntityTrack {
		t.Errorf("EntityType = %q", ee.EntityType)
	}
}

func TestExtractAlbumLegacy(t *testing.T) {
	d := doc(t, LayoutLegacy, `{
		"id": "`+albumID+`",
		"uri": "spotify:album:`+albumID+`",
		"name": "A Night at the Opera",
		"artists": [{"id": "`+artistID+`", "name": "Queen"}],
		"images": [{"url": "https://i.scdn.co/image/cover", "width": 640, "height": 640}],
		"release_year": 1975,
		"tracks": {"items": [
			{"id": "`+trackID+`", "name": "Death on Two Legs", "duration_ms": 223000, "track_number": 1},
			{"name": "Lazing on a Sunday Afternoon", "duration_ms": 68000},
			{"name": "I'm in Love with My Car", "duration_ms": 185000}
		]}
	}`)

	album, err := ExtractAlbum(d)
	if err != nil {
		t.Fatal(err)
	}

	// No authoritative count field, so the extracted list length stands in.
	if album.TotalTracks != 3 {
		t.Errorf("TotalTracks = %d, want 3", album.TotalTracks)
	}
	// No release_date string, so the year is rendered.
	if album.ReleaseDate != "1975" {
		t.Errorf("ReleaseDate = %q, want 1975", album.ReleaseDate)
	}
	if len(album.Tracks) != 3 {
		t.Fatalf("Tracks = %d, want 3", len(album.Tracks))
	}
	first := album.Tracks[0]
	if first.TrackNumber == nil || *first.TrackNumber != 1 {
		t.Errorf("first TrackNumber = %v, want 1", first.TrackNumber)
	}
	// Positions are never guessed when the data omits them.
	if album.Tracks[1].TrackNumber != nil {
		t.Errorf("second TrackNumber = %v, want nil", *album.Tracks[1].TrackNumber)
	}
	// Children inherit the album context and its artists.
	second := album.Tracks[1]
	if second.Album.ID != albumID {
		t.Errorf("child album ref = %+v", second.Album)
	}
	if len(second.Artists) != 1 || second.Artists[0].Name != "Queen" {
		t.Errorf("child artists = %+v", second.Artists)
	}
}

func TestExtractAlbumModernCount(t *testing.T) {
	d := doc(t, LayoutModern, modern(`{
		"uri": "spotify:album:`+albumID+`",
		"name": "Greatest Hits",
		"artists": {"items": [{"uri": "spotify:artist:`+artistID+`", "profile": {"name": "Queen"}}]},
		"coverArt": {"sources": [{"url": "https://i.scdn.co/image/gh", "width": 640, "height": 640}]},
		"date": {"isoString": "1981-10-26T00:00:00Z", "year": 1981},
		"tracks": {
			"totalCount": 17,
			"items": [
				{"track": {"uri": "spotify:track:`+trackID+`", "name": "Bohemian Rhapsody"}}
			]
		}
	}`))

	album, err := ExtractAlbum(d)
	if err != nil {
		t.Fatal(err)
	}

	// The authoritative count wins over the (truncated) extracted list.
	if album.TotalTracks != 17 {
		t.Errorf("TotalTracks = %d, want 17", album.TotalTracks)
	}
	if album.ReleaseDate != "1981-10-26T00:00:00Z" {
		t.Errorf("ReleaseDate = %q", album.ReleaseDate)
	}
	if len(album.Tracks) != 1 || album.Tracks[0].Name != "Bohemian Rhapsody" {
		t.Errorf("Tracks = %+v", album.Tracks)
	}
}

func TestExtractArtistModern(t *testing.T) {
	d := doc(t, LayoutModern, modern(`{
		"id": "`+artistID+`",
		"uri": "spotify:artist:`+artistID+`",
		"profile": {"name": "Queen", "biography": {"text": "Formed in London in 1970."}},
		"visuals": {"avatarImage": {"sources": [{"url": "https://i.scdn.co/image/avatar", "width": 640, "height": 640}]}},
		"stats": {"monthlyListeners": 42000000, "followers": 28000000},
		"discography": {"topTracks": {"items": [
			{"track": {"uri": "spotify:track:`+trackID+`", "name": "Bohemian Rhapsody", "duration": {"totalMilliseconds": 354320}}}
		]}}
	}`))

	artist, err := ExtractArtist(d)
	if err != nil {
		t.Fatal(err)
	}

	if artist.Name != "Queen" {
		t.Errorf("Name = %q", artist.Name)
	}
	if artist.Bio != "Formed in London in 1970." {
		t.Errorf("Bio = %q", artist.Bio)
	}
	if artist.MonthlyListeners == nil || *artist.MonthlyListeners != 42000000 {
		t.Errorf("MonthlyListeners = %v", artist.MonthlyListeners)
	}
	if artist.Followers == nil || *artist.Followers != 28000000 {
		t.Errorf("Followers = %v", artist.Followers)
	}
	// Not on the page at all, so absent rather than zero.
	if artist.Popularity != nil {
		t.Errorf("Popularity = %d, want nil", *artist.Popularity)
	}
	if artist.Genres != nil {
		t.Errorf("Genres = %v, want nil", artist.Genres)
	}
	if len(artist.TopTracks) != 1 {
		t.Fatalf("TopTracks = %d, want 1", len(artist.TopTracks))
	}
	// Top tracks without their own artist data credit the page's artist.
	top := artist.TopTracks[0]
	if len(top.Artists) != 1 || top.Artists[0].ID != artistID {
		t.Errorf("top track artists = %+v", top.Artists)
	}
	if top.DurationMS != 354320 {
		t.Errorf("top track DurationMS = %d", top.DurationMS)
	}
}

func TestExtractArtistAbsentStats(t *testing.T) {
	d := doc(t, LayoutLegacy, `{"id": "`+artistID+`", "name": "Queen"}`)

	artist, err := ExtractArtist(d)
	if err != nil {
		t.Fatal(err)
	}
	if artist.Followers != nil || artist.MonthlyListeners != nil || artist.Popularity != nil {
		t.Errorf("stats = %v/%v/%v, want all nil",
			artist.Followers, artist.MonthlyListeners, artist.Popularity)
	}
}

func TestExtractPlaylistModern(t *testing.T) {
	d := doc(t, LayoutModern, modern(`{
		"uri": "spotify:playlist:`+playlistID+`",
		"name": "Today's Top Hits",
		"description": "The hottest tracks right now.",
		"ownerV2": {"data": {"uri": "spotify:user:spotify"}},
		"images": {"items": [{"sources": [{"url": "https://i.scdn.co/image/pl", "width": 300, "height": 300}]}]},
		"content": {
			"totalCount": 50,
			"items": [
				{"itemV2": {"data": {
					"uri": "spotify:track:`+trackID+`",
					"name": "Song A",
					"artists": {"items": [{"profile": {"name": "Artist A"}}]}
				}}}
			]
		}
	}`))

	list, err := ExtractPlaylist(d)
	if err != nil {
		t.Fatal(err)
	}

	if list.ID != playlistID {
		t.Errorf("ID = %q", list.ID)
	}
	// The owner object carries no display name, so the id stands in.
	if list.Owner.ID != "spotify" || list.Owner.Name != "spotify" {
		t.Errorf("Owner = %+v", list.Owner)
	}
	if list.TrackCount != 50 {
		t.Errorf("TrackCount = %d, want 50", list.TrackCount)
	}
	if len(list.Images) != 1 {
		t.Errorf("Images = %+v", list.Images)
	}
	if len(list.Tracks) != 1 || list.Tracks[0].Name != "Song A" {
		t.Fatalf("Tracks = %+v", list.Tracks)
	}
	if len(list.Tracks[0].Artists) != 1 || list.Tracks[0].Artists[0].Name != "Artist A" {
		t.Errorf("track artists = %+v", list.Tracks[0].Artists)
	}
}

func TestExtractPlaylistCountFallback(t *testing.T) {
	d := doc(t, LayoutEmbed, embed(`{
		"uri": "spotify:playlist:`+playlistID+`",
		"name": "Mix",
		"subtitle": "somebody",
		"trackList": [
			{"uri": "spotify:track:`+trackID+`", "title": "One"},
			{"title": "Two"}
		]
	}`))

	list, err := ExtractPlaylist(d)
	if err != nil {
		t.Fatal(err)
	}
	if list.TrackCount != 2 {
		t.Errorf("TrackCount = %d, want extracted length", list.TrackCount)
	}
	// No owner object on the embed page; the subtitle supplies the name.
	if list.Owner.Name != "somebody" {
		t.Errorf("Owner.Name = %q", list.Owner.Name)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	d := doc(t, LayoutModern, modern(`{
		"uri": "spotify:track:`+trackID+`",
		"name": "Bohemian Rhapsody",
		"duration": {"totalMilliseconds": 354320},
		"artists": {"items": [{"uri": "spotify:artist:`+artistID+`", "profile": {"name": "Queen"}}]}
	}`))

	first, err := Extract(d, model.EntityTrack)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Extract(d, model.EntityTrack)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat extraction differs:\n%+v\n%+v", first, second)
	}
}

func TestExtractUnsupportedEntity(t *testing.T) {
	d := doc(t, LayoutLegacy, `{"id": "x"}`)
	if _, err := Extract(d, model.EntityType("show")); err == nil {
		t.Error("Extract accepted an unsupported entity type")
	}
}
