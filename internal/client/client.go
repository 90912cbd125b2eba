// Package client ties the pipeline together: it classifies a URL, asks
// the Browser for page text, locates the embedded JSON and runs the
// right extractor. Retry-ish policy (falling back to the embed page when
// the canonical page yields no parseable blob) lives here, never inside
// the extractors.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"spotscrape/internal/browser"
	"spotscrape/internal/jsonpath"
	"spotscrape/internal/model"
	"spotscrape/internal/spotify"
)

// AuthenticationError is returned when an optional authenticated feature
// is requested without credentials. The pipeline itself never requires
// authentication.
type AuthenticationError struct {
	Feature string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s requires authentication cookies", e.Feature)
}

// Client is the high-level entry point used by the CLI, TUI and
// download layers.
type Client struct {
	browser browser.Browser
	log     *zap.Logger
}

// New creates a Client. log may be nil.
func New(b browser.Browser, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{browser: b, log: log}
}

// Get classifies rawURL and returns the normalized record for whatever
// entity it names.
func (c *Client) Get(ctx context.Context, rawURL string) (model.Record, error) {
	ref, err := spotify.Classify(rawURL)
	if err != nil {
		return nil, err
	}
	return c.extract(ctx, ref, ref.Type)
}

// Track fetches and normalizes a track page.
func (c *Client) Track(ctx context.Context, rawURL string) (*model.TrackRecord, error) {
	rec, err := c.typed(ctx, rawURL, model.EntityTrack)
	if err != nil {
		return nil, err
	}
	return rec.(*model.TrackRecord), nil
}

// Album fetches and normalizes an album page.
func (c *Client) Album(ctx context.Context, rawURL string) (*model.AlbumRecord, error) {
	rec, err := c.typed(ctx, rawURL, model.EntityAlbum)
	if err != nil {
		return nil, err
	}
	return rec.(*model.AlbumRecord), nil
}

// Artist fetches and normalizes an artist page.
func (c *Client) Artist(ctx context.Context, rawURL string) (*model.ArtistRecord, error) {
	rec, err := c.typed(ctx, rawURL, model.EntityArtist)
	if err != nil {
		return nil, err
	}
	return rec.(*model.ArtistRecord), nil
}

// Playlist fetches and normalizes a playlist page.
func (c *Client) Playlist(ctx context.Context, rawURL string) (*model.PlaylistRecord, error) {
	rec, err := c.typed(ctx, rawURL, model.EntityPlaylist)
	if err != nil {
		return nil, err
	}
	return rec.(*model.PlaylistRecord), nil
}

func (c *Client) typed(ctx context.Context, rawURL string, want model.EntityType) (model.Record, error) {
	ref, err := spotify.Classify(rawURL)
	if err != nil {
		return nil, err
	}
	if ref.Type != want {
		return nil, &spotify.URLError{URL: rawURL, Reason: fmt.Sprintf("expected a %s URL, got %s", want, ref.Type)}
	}
	return c.extract(ctx, ref, want)
}

func (c *Client) extract(ctx context.Context, ref spotify.URL, entity model.EntityType) (model.Record, error) {
	doc, err := c.locate(ctx, ref)
	if err != nil {
		return nil, err
	}

	c.log.Debug("located document",
		zap.String("entity", string(entity)),
		zap.String("id", ref.ID),
		zap.String("layout", string(doc.Layout)))

	rec, err := spotify.Extract(doc, entity)
	if err != nil {
		var extractErr *spotify.ExtractionError
		if errors.As(err, &extractErr) {
			extractErr.URL = ref.Canonical().String()
		}
		return nil, err
	}
	return rec, nil
}

// locate fetches the canonical page and tries to locate its JSON blob.
// When no strategy matches there, it fetches the embed page once — embed
// pages survive front-end redesigns longer — and tries again.
func (c *Client) locate(ctx context.Context, ref spotify.URL) (*spotify.RawDocument, error) {
	page, err := c.browser.Fetch(ctx, ref.Canonical().String())
	if err != nil {
		return nil, err
	}

	doc, err := spotify.Locate(page)
	if err == nil {
		return doc, nil
	}

	var parseErr *spotify.ParsingError
	if !errors.As(err, &parseErr) {
		return nil, err
	}

	c.log.Debug("canonical page had no parseable blob, trying embed page",
		zap.String("id", ref.ID))

	page, fetchErr := c.browser.Fetch(ctx, ref.Embed().String())
	if fetchErr != nil {
		return nil, fetchErr
	}
	return spotify.Locate(page)
}

// lyricsLinePaths locate the synced-lyrics lines in the page state of an
// authenticated track page.
var lyricsLinePaths = []string{
	"props.pageProps.state.data.lyrics.lines",
	"lyrics.lines",
}

// Lyrics fetches a track's lyrics. Lyrics are only rendered into the
// page for authenticated sessions, so a Browser without cookies gets an
// AuthenticationError up front.
func (c *Client) Lyrics(ctx context.Context, rawURL string) (string, error) {
	auth, ok := c.browser.(interface{ Authenticated() bool })
	if !ok || !auth.Authenticated() {
		return "", &AuthenticationError{Feature: "lyrics"}
	}

	ref, err := spotify.Classify(rawURL)
	if err != nil {
		return "", err
	}
	if ref.Type != model.EntityTrack {
		return "", &spotify.URLError{URL: rawURL, Reason: "lyrics are only available for tracks"}
	}

	page, err := c.browser.Fetch(ctx, ref.Canonical().String())
	if err != nil {
		return "", err
	}
	doc, err := spotify.Locate(page)
	if err != nil {
		return "", err
	}

	lines := jsonpath.Slice(doc.Payload, lyricsLinePaths[0])
	if lines == nil {
		lines = jsonpath.Slice(doc.Payload, lyricsLinePaths[1])
	}
	if len(lines) == 0 {
		return "", &spotify.ExtractionError{
			EntityType: model.EntityTrack,
			URL:        ref.Canonical().String(),
			Details:    "no lyrics present in page data",
		}
	}

	var sb strings.Builder
	for _, line := range lines {
		if text := jsonpath.String(line, "words", ""); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
