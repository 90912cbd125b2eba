package spotify

import (
	"errors"
	"testing"

	"spotscrape/internal/model"
)

const (
	trackID    = "6rqhFgbbKwnb9MLmUQDhG6"
	albumID    = "4LH4d3cOWNNsVw41Gqt2kv"
	playlistID = "37i9dQZF1DXcBWIGoYBM5M"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType model.EntityType
		wantID   string
		wantForm URLForm
		wantErr  bool
	}{
		{
			name:     "canonical track",
			raw:      "https://open.spotify.com/track/" + trackID,
			wantType: model.EntityTrack,
			wantID:   trackID,
			wantForm: FormCanonical,
		},
		{
			name:     "embed album",
			raw:      "https://open.spotify.com/embed/album/" + albumID,
			wantType: model.EntityAlbum,
			wantID:   albumID,
			wantForm: FormEmbed,
		},
		{
			name:     "app URI",
			raw:      "spotify:playlist:" + playlistID,
			wantType: model.EntityPlaylist,
			wantID:   playlistID,
			wantForm: FormURI,
		},
		{
			name:     "localized segment is skipped",
			raw:      "https://open.spotify.com/intl-de/track/" + trackID,
			wantType: model.EntityTrack,
			wantID:   trackID,
			wantForm: FormCanonical,
		},
		{
			name:     "surrounding whitespace is trimmed",
			raw:      "  https://open.spotify.com/track/" + trackID + "  ",
			wantType: model.EntityTrack,
			wantID:   trackID,
			wantForm: FormCanonical,
		},
		{
			name:    "trailing slash",
			raw:     "https://open.spotify.com/track/" + trackID + "/",
			wantErr: true,
		},
		{
			name:    "non-lowercase host",
			raw:     "https://Open.Spotify.com/track/" + trackID,
			wantErr: true,
		},
		{
			name:    "unknown host",
			raw:     "https://example.com/track/" + trackID,
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			raw:     "ftp://open.spotify.com/track/" + trackID,
			wantErr: true,
		},
		{
			name:    "percent-encoded path segment",
			raw:     "https://open.spotify.com/track/" + trackID[:20] + "%36%36",
			wantErr: true,
		},
		{
			name:    "URI without type segment",
			raw:     "spotify:" + trackID,
			wantErr: true,
		},
		{
			name:    "unknown entity type",
			raw:     "https://open.spotify.com/show/" + trackID,
			wantErr: true,
		},
		{
			name:    "id too short",
			raw:     "https://open.spotify.com/track/abc123",
			wantErr: true,
		},
		{
			name:    "id with non-base62 character",
			raw:     "https://open.spotify.com/track/" + trackID[:21] + "_",
			wantErr: true,
		},
		{
			name:    "extra path segment",
			raw:     "https://open.spotify.com/track/" + trackID + "/extra",
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Classify(%q) succeeded, want error", tt.raw)
				}
				var ue *URLError
				if !errors.As(err, &ue) {
					t.Errorf("Classify(%q) error is %T, want *URLError", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify(%q): %v", tt.raw, err)
			}
			if got.Type != tt.wantType || got.ID != tt.wantID || got.Form != tt.wantForm {
				t.Errorf("Classify(%q) = {%s %s %s}, want {%s %s %s}",
					tt.raw, got.Type, got.ID, got.Form, tt.wantType, tt.wantID, tt.wantForm)
			}
		})
	}
}

func TestClassifyStripsTrackingParams(t *testing.T) {
	got, err := Classify("https://open.spotify.com/track/" + trackID + "?si=abc&utm_source=share&highlight=x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Params.Get("si") != "" || got.Params.Get("utm_source") != "" {
		t.Errorf("tracking params survived: %v", got.Params)
	}
	if got.Params.Get("highlight") != "x" {
		t.Errorf("non-tracking param dropped: %v", got.Params)
	}
}

func TestFormConversions(t *testing.T) {
	ref, err := Classify("https://open.spotify.com/track/" + trackID)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := ref.String(), "https://open.spotify.com/track/"+trackID; got != want {
		t.Errorf("canonical = %q, want %q", got, want)
	}
	if got, want := ref.Embed().String(), "https://open.spotify.com/embed/track/"+trackID; got != want {
		t.Errorf("embed = %q, want %q", got, want)
	}
	if got, want := ref.URI(), "spotify:track:"+trackID; got != want {
		t.Errorf("uri = %q, want %q", got, want)
	}

	// Round trip through every form preserves identity.
	for _, raw := range []string{ref.String(), ref.Embed().String(), ref.URI()} {
		back, err := Classify(raw)
		if err != nil {
			t.Fatalf("round trip via %q: %v", raw, err)
		}
		if back.Type != ref.Type || back.ID != ref.ID {
			t.Errorf("round trip via %q = {%s %s}, want {%s %s}", raw, back.Type, back.ID, ref.Type, ref.ID)
		}
	}
}

func TestBuildValidatesID(t *testing.T) {
	if _, err := Build(model.EntityTrack, "short", FormCanonical, nil); err == nil {
		t.Error("Build accepted a malformed id")
	}
	if _, err := Build("show", trackID, FormCanonical, nil); err == nil {
		t.Error("Build accepted an unknown entity type")
	}
	got, err := Build(model.EntityAlbum, albumID, FormEmbed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := "https://open.spotify.com/embed/album/" + albumID; got.String() != want {
		t.Errorf("Build().String() = %q, want %q", got.String(), want)
	}
}
