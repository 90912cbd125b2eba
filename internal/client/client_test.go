package client

import (
	"context"
	"errors"
	"testing"

	"spotscrape/internal/spotify"
)

const trackID = "6rqhFgbbKwnb9MLmUQDhG6"

// fakeBrowser serves canned page text keyed by URL and records the fetch
// order.
type fakeBrowser struct {
	pages   map[string]string
	err     error
	fetched []string
	auth    bool
}

func (f *fakeBrowser) Fetch(_ context.Context, pageURL string) (string, error) {
	f.fetched = append(f.fetched, pageURL)
	if f.err != nil {
		return "", f.err
	}
	page, ok := f.pages[pageURL]
	if !ok {
		return "", &spotify.ParsingError{Stage: "fetch", Details: "no such page in fixture"}
	}
	return page, nil
}

func (f *fakeBrowser) Authenticated() bool { return f.auth }

func trackPage(id string) string {
	return `<html><script id="resource" type="application/json">{
		"id": "` + id + `",
		"uri": "spotify:track:` + id + `",
		"name": "Fixture Song",
		"duration_ms": 201000,
		"artists": [{"id": "1dfeR4HaWDbWqFHLkxsg1d", "name": "Fixture Artist"}]
	}</script></html>`
}

func TestClientTrack(t *testing.T) {
	canonical := "https://open.spotify.com/track/" + trackID
	fb := &fakeBrowser{pages: map[string]string{canonical: trackPage(trackID)}}
	c := New(fb, nil)

	track, err := c.Track(context.Background(), canonical)
	if err != nil {
		t.Fatal(err)
	}
	if track.Name != "Fixture Song" || track.DurationMS != 201000 {
		t.Errorf("track = %+v", track)
	}
	if len(fb.fetched) != 1 {
		t.Errorf("fetched %d pages, want 1", len(fb.fetched))
	}
}

func TestClientEmbedFallback(t *testing.T) {
	canonical := "https://open.spotify.com/track/" + trackID
	embedURL := "https://open.spotify.com/embed/track/" + trackID
	fb := &fakeBrowser{pages: map[string]string{
		// Canonical page carries no recognizable blob.
		canonical: `<html><body>nothing here</body></html>`,
		embedURL: `<html><script id="initial-state" type="application/json">{
			"data": {"entity": {
				"uri": "spotify:track:` + trackID + `",
				"title": "Fixture Song",
				"subtitle": "Fixture Artist"
			}}
		}</script></html>`,
	}}
	c := New(fb, nil)

	track, err := c.Track(context.Background(), canonical)
	if err != nil {
		t.Fatal(err)
	}
	if track.Name != "Fixture Song" {
		t.Errorf("track = %+v", track)
	}
	if len(fb.fetched) != 2 || fb.fetched[1] != embedURL {
		t.Errorf("fetched = %v, want canonical then embed", fb.fetched)
	}
}

func TestClientEntityMismatch(t *testing.T) {
	c := New(&fakeBrowser{}, nil)

	_, err := c.Album(context.Background(), "https://open.spotify.com/track/"+trackID)
	if err == nil {
		t.Fatal("Album accepted a track URL")
	}
	var ue *spotify.URLError
	if !errors.As(err, &ue) {
		t.Errorf("error is %T, want *URLError", err)
	}
}

func TestClientInvalidURL(t *testing.T) {
	c := New(&fakeBrowser{}, nil)
	if _, err := c.Get(context.Background(), "https://example.com/x"); err == nil {
		t.Error("Get accepted an unknown host")
	}
}

func TestLyricsRequireAuthentication(t *testing.T) {
	c := New(&fakeBrowser{auth: false}, nil)

	_, err := c.Lyrics(context.Background(), "https://open.spotify.com/track/"+trackID)
	var ae *AuthenticationError
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *AuthenticationError", err)
	}
}

func TestLyricsJoinsLines(t *testing.T) {
	canonical := "https://open.spotify.com/track/" + trackID
	fb := &fakeBrowser{
		auth: true,
		pages: map[string]string{
			canonical: `<html><script id="__NEXT_DATA__" type="application/json">{
				"props": {"pageProps": {"state": {"data": {"lyrics": {"lines": [
					{"words": "Is this the real life"},
					{"words": "Is this just fantasy"}
				]}}}}}
			}</script></html>`,
		},
	}
	c := New(fb, nil)

	text, err := c.Lyrics(context.Background(), canonical)
	if err != nil {
		t.Fatal(err)
	}
	want := "Is this the real life\nIs this just fantasy"
	if text != want {
		t.Errorf("Lyrics = %q, want %q", text, want)
	}
}
