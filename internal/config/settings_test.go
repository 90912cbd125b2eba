package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if s.Format != "json" {
		t.Errorf("Format = %q, want json", s.Format)
	}
	if s.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", s.TimeoutSeconds)
	}
	if s.MaxConcurrentDownloads != 4 {
		t.Errorf("MaxConcurrentDownloads = %d, want 4", s.MaxConcurrentDownloads)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("format", "xml")

	if _, err := Load(v); err == nil {
		t.Error("Load accepted an unknown format")
	}
}

func TestBrowserOptions(t *testing.T) {
	s := Default()
	s.TimeoutSeconds = 10
	s.UserAgent = "test-agent"

	opts, err := s.BrowserOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", opts.Timeout)
	}
	if opts.UserAgent != "test-agent" {
		t.Errorf("UserAgent = %q", opts.UserAgent)
	}
}

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(path, []byte(`{"sp_dc": "secret"}`), 0600); err != nil {
		t.Fatal(err)
	}

	cookies, err := LoadCookies(path)
	if err != nil {
		t.Fatal(err)
	}
	if cookies["sp_dc"] != "secret" {
		t.Errorf("cookies = %v", cookies)
	}

	if _, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadCookies succeeded on a missing file")
	}
}
