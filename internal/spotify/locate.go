package spotify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Layout is the structural variant of a located JSON document. The same
// logical field sits at different nesting depths per layout, so
// extractors keep Layout around to pick the right path table.
type Layout string

const (
	// LayoutModern is the hydration blob the client-rendered page uses
	// to initialize its state. Entity data nests several levels under a
	// page-state path.
	LayoutModern Layout = "modern"

	// LayoutLegacy is the pre-redesign "resource" blob with a flatter,
	// API-shaped structure.
	LayoutLegacy Layout = "legacy"

	// LayoutEmbed is the stripped-down blob on /embed/ pages. It always
	// includes images but frequently omits structured artists/owner
	// data, which extractors recover from subtitle text instead.
	LayoutEmbed Layout = "embed"
)

// RawDocument is a located JSON blob plus its provenance.
type RawDocument struct {
	Layout  Layout
	Payload map[string]any
}

// A locate strategy isolates one known script-tag payload by marker.
// Markers are listed because attribute order varies between page builds.
type strategy struct {
	name    string
	layout  Layout
	markers []string
}

// Strategies are tried in fixed priority order: the modern hydration
// blob wins over the legacy resource blob, which wins over the embed
// inline blob.
var strategies = []strategy{
	{
		name:   "next-data",
		layout: LayoutModern,
		markers: []string{
			`<script id="__NEXT_DATA__" type="application/json">`,
			`<script type="application/json" id="__NEXT_DATA__">`,
		},
	},
	{
		name:   "resource",
		layout: LayoutLegacy,
		markers: []string{
			`<script id="resource" type="application/json">`,
			`<script type="application/json" id="resource">`,
		},
	},
	{
		name:   "initial-state",
		layout: LayoutEmbed,
		markers: []string{
			`<script id="initial-state" type="application/json">`,
			`<script type="application/json" id="initial-state">`,
		},
	},
}

const scriptEnd = "</script>"

// Locate tries every strategy in priority order against the raw page
// text and returns the first successfully parsed JSON document. A parse
// failure inside one strategy is swallowed and the next strategy is
// tried; only after all of them fail does Locate return a ParsingError.
func Locate(page string) (*RawDocument, error) {
	var attempts []string
	for _, s := range strategies {
		body, ok := extractScriptBody(page, s.markers)
		if !ok {
			attempts = append(attempts, s.name+": marker not found")
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}

		return &RawDocument{Layout: s.layout, Payload: payload}, nil
	}

	return nil, &ParsingError{
		Stage:   "locate",
		Details: "no strategy matched: " + strings.Join(attempts, "; "),
	}
}

// extractScriptBody isolates the text between a known opening script tag
// and the next closing tag.
func extractScriptBody(page string, markers []string) (string, bool) {
	for _, marker := range markers {
		start := strings.Index(page, marker)
		if start == -1 {
			continue
		}
		rest := page[start+len(marker):]

		end := strings.Index(rest, scriptEnd)
		if end == -1 {
			continue
		}
		return strings.TrimSpace(rest[:end]), true
	}
	return "", false
}
