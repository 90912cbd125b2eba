// Package browser provides the page-fetching capability consumed by the
// extraction pipeline, plus file-download helpers for the media layer.
//
// The Browser interface is deliberately tiny — fetch a URL, get text or
// an error — so the pipeline can be driven by this plain HTTP client, a
// caching wrapper, or recorded fixtures in tests:
//
//	b, _ := browser.NewClient(browser.Options{
//	    Cookies: map[string]string{"sp_dc": token},
//	})
//	html, err := b.Fetch(ctx, pageURL)
//
// Rate limiting, retries and caching belong to callers; the client makes
// exactly one request per call.
package browser
