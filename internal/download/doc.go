// Package download coordinates media downloads layered above the
// extraction pipeline: cover art for any entity and 30-second track
// previews, singly or in bulk for albums and playlists.
//
// Retries, concurrency limits and rate behavior live here — never inside
// the extraction core, which is synchronous and side-effect-free. Bulk
// downloads run through an errgroup with a configured limit; each
// preview is retried with a growing cooldown before giving up.
package download
