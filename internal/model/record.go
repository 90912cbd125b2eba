package model

// EntityType identifies which kind of catalog entity a URL or record
// refers to.
type EntityType string

const (
	EntityTrack    EntityType = "track"
	EntityAlbum    EntityType = "album"
	EntityArtist   EntityType = "artist"
	EntityPlaylist EntityType = "playlist"
)

// Valid reports whether t is one of the four supported entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTrack, EntityAlbum, EntityArtist, EntityPlaylist:
		return true
	}
	return false
}

// Record is the tagged union over the four normalized record types.
// Records are created fresh per extraction, are immutable once returned,
// and hold no reference back to the raw page data.
type Record interface {
	Entity() EntityType
}

// ImageRef is one cover-art variant. Width and Height are zero when the
// source page does not report dimensions; URL is always set.
type ImageRef struct {
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// ArtistRef is a minimal artist mention. ID and URL are empty when the
// source layout only carries a display name (embed pages synthesize
// artists from a subtitle string).
type ArtistRef struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// AlbumRef is the album context attached to a track. Name may
// legitimately be the empty string on embed pages, which omit the album
// title but still carry its images.
type AlbumRef struct {
	ID     string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string     `json:"name" yaml:"name"`
	URI    string     `json:"uri,omitempty" yaml:"uri,omitempty"`
	Images []ImageRef `json:"images,omitempty" yaml:"images,omitempty"`
}

// TrackRecord is a normalized track.
//
// Artists is non-empty unless the source data itself carried no artist
// information in any form. TrackNumber and DiscNumber are only set when
// the album context supplies them; they are never guessed for standalone
// track extraction.
type TrackRecord struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	URI         string      `json:"uri" yaml:"uri"`
	DurationMS  int         `json:"duration_ms" yaml:"duration_ms"`
	Artists     []ArtistRef `json:"artists" yaml:"artists"`
	Album       AlbumRef    `json:"album" yaml:"album"`
	PreviewURL  string      `json:"preview_url,omitempty" yaml:"preview_url,omitempty"`
	IsExplicit  bool        `json:"is_explicit" yaml:"is_explicit"`
	IsPlayable  bool        `json:"is_playable" yaml:"is_playable"`
	TrackNumber *int        `json:"track_number,omitempty" yaml:"track_number,omitempty"`
	DiscNumber  *int        `json:"disc_number,omitempty" yaml:"disc_number,omitempty"`
}

func (TrackRecord) Entity() EntityType { return EntityTrack }

// AlbumRecord is a normalized album. TotalTracks is always present and
// defaults to the length of the extracted track list, never absent.
type AlbumRecord struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	URI         string        `json:"uri" yaml:"uri"`
	Artists     []ArtistRef   `json:"artists" yaml:"artists"`
	Images      []ImageRef    `json:"images,omitempty" yaml:"images,omitempty"`
	ReleaseDate string        `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	TotalTracks int           `json:"total_tracks" yaml:"total_tracks"`
	Tracks      []TrackRecord `json:"tracks" yaml:"tracks"`
}

func (AlbumRecord) Entity() EntityType { return EntityAlbum }

// ArtistRecord is a normalized artist.
//
// Followers, MonthlyListeners, Popularity and Genres require API-only
// data. When scraping cannot supply them they stay nil so callers can
// tell "unknown" apart from "zero"; they are never defaulted.
type ArtistRecord struct {
	ID               string        `json:"id" yaml:"id"`
	Name             string        `json:"name" yaml:"name"`
	URI              string        `json:"uri" yaml:"uri"`
	Images           []ImageRef    `json:"images,omitempty" yaml:"images,omitempty"`
	Bio              string        `json:"bio,omitempty" yaml:"bio,omitempty"`
	TopTracks        []TrackRecord `json:"top_tracks,omitempty" yaml:"top_tracks,omitempty"`
	Genres           []string      `json:"genres,omitempty" yaml:"genres,omitempty"`
	Followers        *int          `json:"followers,omitempty" yaml:"followers,omitempty"`
	MonthlyListeners *int          `json:"monthly_listeners,omitempty" yaml:"monthly_listeners,omitempty"`
	Popularity       *int          `json:"popularity,omitempty" yaml:"popularity,omitempty"`
}

func (ArtistRecord) Entity() EntityType { return EntityArtist }

// PlaylistRecord is a normalized playlist. TrackCount reflects the
// extracted track list length whenever the authoritative count field is
// missing from the page.
type PlaylistRecord struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	URI         string        `json:"uri" yaml:"uri"`
	Owner       ArtistRef     `json:"owner" yaml:"owner"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Images      []ImageRef    `json:"images,omitempty" yaml:"images,omitempty"`
	TrackCount  int           `json:"track_count" yaml:"track_count"`
	Tracks      []TrackRecord `json:"tracks" yaml:"tracks"`
}

func (PlaylistRecord) Entity() EntityType { return EntityPlaylist }

// LargestImage returns the image with the greatest pixel area, or the
// first one when no dimensions are reported. ok is false for an empty
// slice.
func LargestImage(images []ImageRef) (ImageRef, bool) {
	if len(images) == 0 {
		return ImageRef{}, false
	}
	best := images[0]
	for _, img := range images[1:] {
		if img.Width*img.Height > best.Width*best.Height {
			best = img
		}
	}
	return best, true
}
