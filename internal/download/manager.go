package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spotscrape/internal/audio"
	"spotscrape/internal/browser"
	"spotscrape/internal/client"
	"spotscrape/internal/config"
	ioutils "spotscrape/internal/io"
	"spotscrape/internal/model"
)

// Level indicates the severity of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event is a progress update surfaced to interactive frontends. The
// manager also logs everything through zap; Event exists so the TUI can
// render progress without scraping log output. Done/Total are set only
// on per-file step events during bulk downloads.
type Event struct {
	Message string
	Level   Level
	Done    int
	Total   int
}

// Manager coordinates cover and preview downloads for extracted records.
type Manager struct {
	settings *config.Settings
	client   *client.Client
	browser  *browser.Client
	tagger   *audio.Tagger
	playlist *audio.PlaylistWriter
	images   *ioutils.ImageService
	log      *zap.Logger

	onProgress func(Event)
	mu         sync.Mutex
}

// NewManager creates a download Manager. onProgress and log may be nil.
func NewManager(settings *config.Settings, c *client.Client, b *browser.Client, log *zap.Logger, onProgress func(Event)) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		settings:   settings,
		client:     c,
		browser:    b,
		tagger:     audio.NewTagger(),
		playlist:   audio.NewPlaylistWriter(settings.M3UExtended),
		images:     ioutils.NewImageService(),
		log:        log,
		onProgress: onProgress,
	}
}

func (m *Manager) progress(level Level, format string, args ...any) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(Event{Message: fmt.Sprintf(format, args...), Level: level})
}

func (m *Manager) progressStep(done, total int) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(Event{Level: LevelVerbose, Done: done, Total: total})
}

// Cover downloads the largest cover image of whatever entity rawURL
// names and writes it to the output directory. Returns the written path.
func (m *Manager) Cover(ctx context.Context, rawURL string) (string, error) {
	rec, err := m.client.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	name, images := coverSource(rec)
	img, ok := model.LargestImage(images)
	if !ok {
		return "", fmt.Errorf("no cover art available for %q", name)
	}

	m.log.Info("downloading cover", zap.String("name", name), zap.String("url", img.URL))
	m.progress(LevelVerbose, "Downloading cover for %s", name)

	data, err := m.browser.DownloadBytes(ctx, img.URL)
	if err != nil {
		return "", err
	}

	ext := ".jpg"
	switch {
	case m.settings.CoverResize:
		if data, err = m.images.Resize(data, m.settings.CoverMaxSize); err != nil {
			return "", fmt.Errorf("resizing cover: %w", err)
		}
	case m.settings.CoverToJPG:
		if data, err = m.images.ToJPEG(data); err != nil {
			return "", fmt.Errorf("converting cover: %w", err)
		}
	default:
		if e := filepath.Ext(img.URL); e != "" {
			ext = e
		}
	}

	if err := ioutils.EnsureDir(m.settings.OutputDir); err != nil {
		return "", err
	}
	fileName := ioutils.ExpandTemplate(m.settings.CoverNameFormat, map[string]string{"title": name}) + ext
	path := filepath.Join(m.settings.OutputDir, fileName)
	if err := ioutils.WriteFile(path, data); err != nil {
		return "", err
	}

	m.progress(LevelSuccess, "Saved cover: %s", path)
	return path, nil
}

// Preview downloads a single track's 30-second preview, tags it, and
// returns the written path.
func (m *Manager) Preview(ctx context.Context, rawURL string) (string, error) {
	track, err := m.client.Track(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return m.downloadPreview(ctx, *track)
}

// AlbumPreviews downloads previews for every track of an album, and
// optionally writes an M3U playlist of the results.
func (m *Manager) AlbumPreviews(ctx context.Context, rawURL string) ([]string, error) {
	album, err := m.client.Album(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	m.progress(LevelInfo, "Album: %s (%d tracks)", album.Name, album.TotalTracks)
	return m.downloadAll(ctx, album.Name, album.Tracks)
}

// PlaylistPreviews downloads previews for every track of a playlist, and
// optionally writes an M3U playlist of the results.
func (m *Manager) PlaylistPreviews(ctx context.Context, rawURL string) ([]string, error) {
	list, err := m.client.Playlist(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	m.progress(LevelInfo, "Playlist: %s (%d tracks)", list.Name, list.TrackCount)
	return m.downloadAll(ctx, list.Name, list.Tracks)
}

// ArtistPreviews downloads previews for an artist's top tracks.
func (m *Manager) ArtistPreviews(ctx context.Context, rawURL string) ([]string, error) {
	artist, err := m.client.Artist(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	m.progress(LevelInfo, "Artist: %s (%d top tracks)", artist.Name, len(artist.TopTracks))
	return m.downloadAll(ctx, artist.Name+" - Top Tracks", artist.TopTracks)
}

// downloadAll fetches previews concurrently with the configured limit.
// Tracks without a preview URL are skipped with a warning, not failed:
// partial results are preferred, matching the extraction pipeline's
// degradation policy.
func (m *Manager) downloadAll(ctx context.Context, setName string, tracks []model.TrackRecord) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	paths := make([]string, len(tracks))
	var done atomic.Int32
	for i, track := range tracks {
		i, track := i, track
		g.Go(func() error {
			defer m.progressStep(int(done.Add(1)), len(tracks))
			if track.PreviewURL == "" {
				m.progress(LevelWarning, "No preview available: %s", track.Name)
				m.log.Warn("no preview available", zap.String("track", track.Name))
				return nil
			}
			path, err := m.downloadPreview(ctx, track)
			if err != nil {
				m.progress(LevelError, "Failed %s: %v", track.Name, err)
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []audio.PlaylistEntry
	var written []string
	for i, path := range paths {
		if path == "" {
			continue
		}
		written = append(written, path)
		entries = append(entries, audio.PlaylistEntry{Track: tracks[i], Path: path})
	}

	if m.settings.CreatePlaylist && len(entries) > 0 {
		playlistPath := filepath.Join(m.settings.OutputDir, ioutils.SanitizeFileName(setName)+".m3u")
		if err := ioutils.WriteFile(playlistPath, []byte(m.playlist.M3U(entries))); err != nil {
			return written, fmt.Errorf("writing playlist: %w", err)
		}
		m.progress(LevelSuccess, "Wrote playlist: %s", playlistPath)
	}

	return written, nil
}

func (m *Manager) downloadPreview(ctx context.Context, track model.TrackRecord) (string, error) {
	if track.PreviewURL == "" {
		return "", fmt.Errorf("track %q has no preview URL", track.Name)
	}

	if err := ioutils.EnsureDir(m.settings.OutputDir); err != nil {
		return "", err
	}

	values := map[string]string{
		"title":    track.Name,
		"album":    track.Album.Name,
		"artist":   firstArtist(track),
		"tracknum": trackNum(track),
	}
	path := filepath.Join(m.settings.OutputDir, ioutils.ExpandTemplate(m.settings.FileNameFormat, values))

	m.progress(LevelVerbose, "Downloading preview: %s", track.Name)
	if err := m.withRetry(ctx, track.Name, func() error {
		return m.browser.DownloadFile(ctx, track.PreviewURL, path, nil)
	}); err != nil {
		return "", err
	}

	artwork, err := m.coverForTagging(ctx, track)
	if err != nil {
		// Tagging still proceeds without artwork.
		m.log.Warn("cover download failed", zap.String("track", track.Name), zap.Error(err))
	}
	if err := m.tagger.Tag(path, track, artwork); err != nil {
		return "", err
	}

	m.progress(LevelSuccess, "Saved preview: %s", path)
	m.log.Info("preview saved", zap.String("track", track.Name), zap.String("path", path))
	return path, nil
}

// coverForTagging fetches and JPEG-normalizes the track's album art for
// embedding, when enabled.
func (m *Manager) coverForTagging(ctx context.Context, track model.TrackRecord) ([]byte, error) {
	if !m.settings.EmbedCoverTags {
		return nil, nil
	}
	img, ok := model.LargestImage(track.Album.Images)
	if !ok {
		return nil, nil
	}
	data, err := m.browser.DownloadBytes(ctx, img.URL)
	if err != nil {
		return nil, err
	}
	if m.settings.CoverResize {
		return m.images.Resize(data, m.settings.CoverMaxSize)
	}
	return m.images.ToJPEG(data)
}

// withRetry runs fn up to DownloadMaxRetries+1 times with a linearly
// growing cooldown. Context cancellation stops the loop immediately.
func (m *Manager) withRetry(ctx context.Context, name string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= m.settings.DownloadMaxRetries; attempt++ {
		if attempt > 0 {
			cooldown := time.Duration(m.settings.DownloadRetryCooldown*float64(attempt)) * time.Second
			m.log.Debug("retrying download",
				zap.String("name", name),
				zap.Int("attempt", attempt),
				zap.Duration("cooldown", cooldown))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cooldown):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

func coverSource(rec model.Record) (string, []model.ImageRef) {
	switch r := rec.(type) {
	case *model.TrackRecord:
		return r.Name, r.Album.Images
	case *model.AlbumRecord:
		return r.Name, r.Images
	case *model.ArtistRecord:
		return r.Name, r.Images
	case *model.PlaylistRecord:
		return r.Name, r.Images
	}
	return "", nil
}

func firstArtist(track model.TrackRecord) string {
	if len(track.Artists) > 0 {
		return track.Artists[0].Name
	}
	return ""
}

func trackNum(track model.TrackRecord) string {
	if track.TrackNumber != nil {
		return fmt.Sprintf("%02d", *track.TrackNumber)
	}
	return "01"
}
