package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Browser turns a URL into raw page text. The extraction pipeline makes
// no assumption about the transport beyond "returns page text or fails";
// credentials are opaque cookies and headers carried in Options.
type Browser interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// NetworkError reports a transport or HTTP-status failure. It is opaque
// to the extraction core; callers decide whether to retry.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DefaultUserAgent mimics a desktop browser; the site serves reduced
// pages to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const defaultTimeout = 30 * time.Second

// Options configures a Client. Headers and Cookies are passed through
// verbatim on every request and are never inspected.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
	Cookies   map[string]string
	ProxyURL  string
}

// Client is the plain-HTTP Browser implementation.
type Client struct {
	httpClient *http.Client
	userAgent  string
	headers    map[string]string
	cookies    map[string]string
}

// NewClient creates a Client from opts, filling in the default
// User-Agent and timeout where unset.
func NewClient(opts Options) (*Client, error) {
	transport := http.DefaultTransport
	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = http.ProxyURL(proxy)
		transport = t
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		userAgent:  userAgent,
		headers:    opts.Headers,
		cookies:    opts.Cookies,
	}, nil
}

// Authenticated reports whether the client carries any cookies. Optional
// authenticated features check this before making requests.
func (c *Client) Authenticated() bool { return len(c.cookies) > 0 }

func (c *Client) newRequest(ctx context.Context, method, pageURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return req, nil
}

// Fetch performs a GET request and returns the response body as text.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	body, err := c.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Get performs a GET request and returns the response body as bytes.
func (c *Client) Get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pageURL)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: pageURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}
	return body, nil
}

// FileSize returns the Content-Length of the resource via HEAD request.
func (c *Client) FileSize(ctx context.Context, fileURL string) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodHead, fileURL)
	if err != nil {
		return 0, &NetworkError{URL: fileURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &NetworkError{URL: fileURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, &NetworkError{URL: fileURL, Err: fmt.Errorf("no Content-Length header")}
	}
	return resp.ContentLength, nil
}

// ProgressWriter wraps a writer to track download progress. OnUpdate is
// called after each write with (bytesWritten, totalExpected); total is
// -1 when the server did not report a length.
type ProgressWriter struct {
	Writer   io.Writer
	Total    int64
	Written  int64
	OnUpdate func(written, total int64)
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadFile streams a resource to destPath, creating or truncating
// the file. onProgress may be nil.
func (c *Client) DownloadFile(ctx context.Context, fileURL, destPath string, onProgress func(written, total int64)) error {
	req, err := c.newRequest(ctx, http.MethodGet, fileURL)
	if err != nil {
		return &NetworkError{URL: fileURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: fileURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{URL: fileURL, Status: resp.StatusCode}
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{Writer: file, Total: resp.ContentLength, OnUpdate: onProgress}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return &NetworkError{URL: fileURL, Err: err}
	}
	return nil
}

// DownloadBytes fetches a resource fully into memory. Use it for small
// files like cover art; previews stream to disk via DownloadFile.
func (c *Client) DownloadBytes(ctx context.Context, fileURL string) ([]byte, error) {
	return c.Get(ctx, fileURL)
}
