// Package model defines the normalized record types produced by the
// extraction pipeline and consumed by the CLI, TUI and download layers.
//
// Records are plain structured data: no methods beyond the Record tag,
// no hidden state, no references back to raw page documents. Optional
// fields that scraping cannot always supply use pointers or omitempty
// so that "unknown" is distinguishable from a zero value:
//
//	var artist model.ArtistRecord
//	if artist.Followers == nil {
//	    fmt.Println("follower count not available via scraping")
//	}
package model
