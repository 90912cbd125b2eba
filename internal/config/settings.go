package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"spotscrape/internal/browser"
)

// Settings holds all configuration options. Values come from defaults,
// an optional config file and SPOTSCRAPE_* environment variables, merged
// by viper; flags are bound on top by the CLI.
type Settings struct {
	// Output settings
	OutputDir string `mapstructure:"output_dir"`
	Format    string `mapstructure:"format"` // json, yaml, table
	Pretty    bool   `mapstructure:"pretty"`

	// Browser settings
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	CookieFile     string `mapstructure:"cookie_file"`
	Proxy          string `mapstructure:"proxy"`

	// Download settings
	MaxConcurrentDownloads int     `mapstructure:"max_concurrent_downloads"`
	DownloadMaxRetries     int     `mapstructure:"download_max_retries"`
	DownloadRetryCooldown  float64 `mapstructure:"download_retry_cooldown"`

	// File naming. Placeholders: {artist}, {album}, {title}, {tracknum}.
	FileNameFormat  string `mapstructure:"file_name_format"`
	CoverNameFormat string `mapstructure:"cover_name_format"`

	// Cover art settings
	CoverResize    bool `mapstructure:"cover_resize"`
	CoverMaxSize   int  `mapstructure:"cover_max_size"`
	CoverToJPG     bool `mapstructure:"cover_to_jpg"`
	EmbedCoverTags bool `mapstructure:"embed_cover_tags"`

	// Playlist file settings
	CreatePlaylist bool `mapstructure:"create_playlist"`
	M3UExtended    bool `mapstructure:"m3u_extended"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

// Default returns settings with default values.
func Default() *Settings {
	return &Settings{
		OutputDir:              ".",
		Format:                 "json",
		Pretty:                 false,
		TimeoutSeconds:         30,
		MaxConcurrentDownloads: 4,
		DownloadMaxRetries:     3,
		DownloadRetryCooldown:  1.0,
		FileNameFormat:         "{tracknum} {artist} - {title}.mp3",
		CoverNameFormat:        "{title}",
		CoverResize:            false,
		CoverMaxSize:           1000,
		CoverToJPG:             true,
		EmbedCoverTags:         true,
		CreatePlaylist:         false,
		M3UExtended:            true,
		LogLevel:               "info",
	}
}

// SetDefaults registers every default with v so viper's precedence rules
// apply uniformly across file, env and flags.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("format", d.Format)
	v.SetDefault("pretty", d.Pretty)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("timeout_seconds", d.TimeoutSeconds)
	v.SetDefault("cookie_file", d.CookieFile)
	v.SetDefault("proxy", d.Proxy)
	v.SetDefault("max_concurrent_downloads", d.MaxConcurrentDownloads)
	v.SetDefault("download_max_retries", d.DownloadMaxRetries)
	v.SetDefault("download_retry_cooldown", d.DownloadRetryCooldown)
	v.SetDefault("file_name_format", d.FileNameFormat)
	v.SetDefault("cover_name_format", d.CoverNameFormat)
	v.SetDefault("cover_resize", d.CoverResize)
	v.SetDefault("cover_max_size", d.CoverMaxSize)
	v.SetDefault("cover_to_jpg", d.CoverToJPG)
	v.SetDefault("embed_cover_tags", d.EmbedCoverTags)
	v.SetDefault("create_playlist", d.CreatePlaylist)
	v.SetDefault("m3u_extended", d.M3UExtended)
	v.SetDefault("log_level", d.LogLevel)
}

// Load unmarshals the merged viper state into Settings.
func Load(v *viper.Viper) (*Settings, error) {
	s := Default()
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	switch s.Format {
	case "json", "yaml", "table":
	default:
		return nil, fmt.Errorf("invalid format %q (want json, yaml or table)", s.Format)
	}
	return s, nil
}

// BrowserOptions converts settings into browser options, loading the
// cookie file when one is configured.
func (s *Settings) BrowserOptions() (browser.Options, error) {
	opts := browser.Options{
		UserAgent: s.UserAgent,
		Timeout:   time.Duration(s.TimeoutSeconds) * time.Second,
		ProxyURL:  s.Proxy,
	}
	if s.CookieFile != "" {
		cookies, err := LoadCookies(s.CookieFile)
		if err != nil {
			return browser.Options{}, err
		}
		opts.Cookies = cookies
	}
	return opts, nil
}

// LoadCookies reads a JSON object of cookie name/value pairs. The values
// are opaque; nothing here understands the authentication protocol.
func LoadCookies(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cookie file: %w", err)
	}
	cookies := map[string]string{}
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("cookie file must be a JSON object of name/value pairs: %w", err)
	}
	return cookies, nil
}
