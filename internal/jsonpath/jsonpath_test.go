package jsonpath

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode test document: %v", err)
	}
	return doc
}

func TestGet(t *testing.T) {
	doc := decode(t, `{
		"album": {
			"name": "Abbey Road",
			"year": 1969,
			"nothing": null,
			"tracks": [
				{"title": "Come Together"},
				{"title": "Something"}
			]
		}
	}`)

	tests := []struct {
		name string
		path string
		def  any
		want any
	}{
		{
			name: "top-level key",
			path: "album",
			def:  nil,
			want: doc["album"],
		},
		{
			name: "nested key",
			path: "album.name",
			def:  "",
			want: "Abbey Road",
		},
		{
			name: "numeric index into array",
			path: "album.tracks.1.title",
			def:  "",
			want: "Something",
		},
		{
			name: "missing key yields default",
			path: "album.artist.name",
			def:  "fallback",
			want: "fallback",
		},
		{
			name: "index out of range yields default",
			path: "album.tracks.5.title",
			def:  "fallback",
			want: "fallback",
		},
		{
			name: "non-numeric segment on array yields default",
			path: "album.tracks.first",
			def:  "fallback",
			want: "fallback",
		},
		{
			name: "descending through a scalar yields default",
			path: "album.name.anything",
			def:  "fallback",
			want: "fallback",
		},
		{
			name: "explicit null yields default",
			path: "album.nothing",
			def:  "fallback",
			want: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Get(doc, tt.path, tt.def)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFirst(t *testing.T) {
	doc := decode(t, `{"b": "second", "c": "third"}`)

	tests := []struct {
		name  string
		paths []string
		want  any
	}{
		{
			name:  "first resolving path wins",
			paths: []string{"a", "b", "c"},
			want:  "second",
		},
		{
			name:  "order is respected",
			paths: []string{"c", "b"},
			want:  "third",
		},
		{
			name:  "none resolve yields default",
			paths: []string{"x", "y"},
			want:  "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := First(doc, tt.paths, "default")
			if got != tt.want {
				t.Errorf("First(%v) = %v, want %v", tt.paths, got, tt.want)
			}
		})
	}
}

func TestExists(t *testing.T) {
	doc := decode(t, `{"a": {"b": 1}, "n": null}`)

	if !Exists(doc, "a.b") {
		t.Error("Exists(a.b) = false, want true")
	}
	if Exists(doc, "a.c") {
		t.Error("Exists(a.c) = true, want false")
	}
	if Exists(doc, "n") {
		t.Error("Exists(n) = true for null value, want false")
	}
}

func TestTypedHelpers(t *testing.T) {
	doc := decode(t, `{
		"name": "x",
		"count": 42,
		"flag": true,
		"list": [1, 2],
		"obj": {"k": "v"}
	}`)

	if got := String(doc, "name", "def"); got != "x" {
		t.Errorf("String = %q, want %q", got, "x")
	}
	if got := String(doc, "count", "def"); got != "def" {
		t.Errorf("String on number = %q, want default", got)
	}
	// JSON numbers decode as float64.
	if got := Int(doc, "count", -1); got != 42 {
		t.Errorf("Int = %d, want 42", got)
	}
	if got := Int(doc, "name", -1); got != -1 {
		t.Errorf("Int on string = %d, want default", got)
	}
	if got := Bool(doc, "flag", false); !got {
		t.Error("Bool = false, want true")
	}
	if got := Slice(doc, "list"); len(got) != 2 {
		t.Errorf("Slice length = %d, want 2", len(got))
	}
	if got := Slice(doc, "obj"); got != nil {
		t.Errorf("Slice on object = %v, want nil", got)
	}
	if got := Map(doc, "obj"); got["k"] != "v" {
		t.Errorf("Map = %v, want k:v", got)
	}
	if got := Map(doc, "list"); got != nil {
		t.Errorf("Map on array = %v, want nil", got)
	}
}

func TestMalformedPathPanics(t *testing.T) {
	for _, path := range []string{"", "a..b", ".a", "a."} {
		t.Run("path "+path, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Get(%q) did not panic", path)
				}
			}()
			Get(map[string]any{}, path, nil)
		})
	}
}
