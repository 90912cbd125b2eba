// Package jsonpath reads values out of decoded JSON documents using
// dotted path expressions.
//
// Every extractor in the pipeline reads optional fields through this
// package, so its semantics are load-bearing: a missing, mistyped or
// exhausted segment always yields the caller-supplied default, never an
// error or panic. Only a malformed path expression (a programmer error,
// not a data error) panics, the same way regexp.MustCompile does.
//
//	doc := map[string]any{"album": map[string]any{"name": "Abbey Road"}}
//	jsonpath.String(doc, "album.name", "")      // "Abbey Road"
//	jsonpath.String(doc, "album.artist.name", "?") // "?"
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Get walks doc along the dotted path and returns the value found there,
// or def the moment any segment is missing, of the wrong kind, or out of
// range. Numeric segments index into sequences ("tracks.items.0.title").
//
// Get panics if path is malformed (empty, or containing empty segments).
func Get(doc any, path string, def any) any {
	cur := doc
	for _, seg := range splitPath(path) {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return def
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return def
			}
			cur = c[idx]
		default:
			return def
		}
	}
	if cur == nil {
		return def
	}
	return cur
}

// Exists reports whether the path resolves to a non-nil value.
func Exists(doc any, path string) bool {
	marker := &struct{}{}
	return Get(doc, path, marker) != any(marker)
}

// First tries each candidate path in order and returns the value of the
// first one that resolves, or def when none do. Extractor path tables
// list candidates by preference and rely on this ordering.
func First(doc any, paths []string, def any) any {
	marker := &struct{}{}
	for _, p := range paths {
		if v := Get(doc, p, marker); v != any(marker) {
			return v
		}
	}
	return def
}

// String resolves path to a string, or def when the path is missing or
// the value is not a string.
func String(doc any, path, def string) string {
	if s, ok := Get(doc, path, def).(string); ok {
		return s
	}
	return def
}

// Int resolves path to an int. JSON numbers decode as float64, which is
// accepted alongside the integer kinds.
func Int(doc any, path string, def int) int {
	return asInt(Get(doc, path, def), def)
}

// Bool resolves path to a bool, or def.
func Bool(doc any, path string, def bool) bool {
	if b, ok := Get(doc, path, def).(bool); ok {
		return b
	}
	return def
}

// Slice resolves path to a JSON array, or nil.
func Slice(doc any, path string) []any {
	if s, ok := Get(doc, path, nil).([]any); ok {
		return s
	}
	return nil
}

// Map resolves path to a JSON object, or nil.
func Map(doc any, path string) map[string]any {
	if m, ok := Get(doc, path, nil).(map[string]any); ok {
		return m
	}
	return nil
}

func asInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return def
}

func splitPath(path string) []string {
	if path == "" {
		panic("jsonpath: empty path expression")
	}
	segs := strings.Split(path, ".")
	for _, s := range segs {
		if s == "" {
			panic(fmt.Sprintf("jsonpath: malformed path expression %q", path))
		}
	}
	return segs
}
