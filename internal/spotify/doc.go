// Package spotify implements the extraction pipeline for Spotify web
// pages: URL classification, JSON location and the per-entity
// normalizers that turn heterogeneous raw page blobs into typed records.
//
// The pipeline never touches the network. Callers fetch page text
// themselves (see internal/browser) and feed it through:
//
//	ref, err := spotify.Classify("https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6")
//	doc, err := spotify.Locate(pageHTML)
//	track, err := spotify.ExtractTrack(doc)
//
// # Layouts
//
// The front end has rendered entity data in at least three script-tag
// layouts over time: a modern hydration blob (__NEXT_DATA__), a legacy
// "resource" blob, and a stripped-down blob on /embed/ pages. Locate
// tries them in that priority order and records which one matched, and
// each extractor consults a per-layout path table, because the same
// logical field sits at different nesting depths per layout.
//
// # Graceful degradation
//
// Optional fields are read through internal/jsonpath with explicit
// defaults; extractors fail only when required fields (id, name) are
// missing after every fallback. Partial-but-valid records are preferred
// over errors. All functions here are pure over their inputs and safe
// for concurrent use.
package spotify
