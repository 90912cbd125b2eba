// Package audio handles post-download processing of preview files:
// ID3v2 tagging with record metadata and playlist file generation.
package audio

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2"

	"spotscrape/internal/model"
)

// Tagger writes ID3v2 tags onto downloaded preview MP3s so they carry
// the same metadata as the records they came from.
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag writes title, artists, album, track/disc numbers and optional
// cover art to the MP3 at path. artwork must be JPEG bytes or nil.
func (t *Tagger) Tag(path string, track model.TrackRecord, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening %s for tagging: %w", path, err)
	}
	defer tag.Close()

	tag.SetTitle(track.Name)
	tag.SetAlbum(track.Album.Name)

	names := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		names = append(names, a.Name)
	}
	artist := strings.Join(names, ", ")
	tag.SetArtist(artist)
	if artist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, artist)
	}

	if track.TrackNumber != nil {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", *track.TrackNumber))
	}
	if track.DiscNumber != nil {
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, fmt.Sprintf("%d", *track.DiscNumber))
	}

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}
