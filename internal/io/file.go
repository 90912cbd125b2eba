// Package ioutils provides file-system helpers for the download layer:
// filename templating and sanitization, directory creation and file
// writing. Nothing here touches the network.
package ioutils

import (
	"os"
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeFileName replaces characters that are invalid in file names.
//
// Invalid characters (<>:"/\|?* and control chars) become underscores,
// trailing dots and whitespace are removed, and runs of whitespace
// collapse to one space. Windows has the most restrictive rules, so its
// set is applied everywhere.
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// ExpandTemplate replaces {placeholder} occurrences in format with the
// given values, sanitizing each value independently so a track title
// containing a slash cannot escape the output directory.
//
//	ExpandTemplate("{tracknum} {artist} - {title}.mp3", map[string]string{
//	    "tracknum": "03", "artist": "Artist", "title": "A/B",
//	})
//	// "03 Artist - A_B.mp3"
func ExpandTemplate(format string, values map[string]string) string {
	out := format
	for key, value := range values {
		out = strings.ReplaceAll(out, "{"+key+"}", SanitizeFileName(value))
	}
	return out
}

// WriteFile writes data to path with mode 0644, truncating any existing
// file.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parents with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
