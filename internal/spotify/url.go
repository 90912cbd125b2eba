package spotify

import (
	"fmt"
	"net/url"
	"strings"

	"spotscrape/internal/model"
)

// Host is the only web host recognized for catalog pages.
const Host = "open.spotify.com"

// URIScheme is the scheme of app URIs like "spotify:track:<id>".
const URIScheme = "spotify"

const idLength = 22

// URLForm distinguishes the three reference forms for the same entity.
type URLForm int

const (
	// FormCanonical is https://open.spotify.com/{type}/{id}.
	FormCanonical URLForm = iota
	// FormEmbed is https://open.spotify.com/embed/{type}/{id}, the
	// stripped-down iframe page variant.
	FormEmbed
	// FormURI is the app URI spotify:{type}:{id}.
	FormURI
)

func (f URLForm) String() string {
	switch f {
	case FormEmbed:
		return "embed"
	case FormURI:
		return "uri"
	default:
		return "canonical"
	}
}

// URL is a parsed reference to a catalog entity. Conversions between
// forms are pure and lossless: converting A to B and back yields the
// original id and type.
type URL struct {
	Type   model.EntityType
	ID     string
	Form   URLForm
	Params url.Values
}

// trackingParams are query parameters added by share buttons and
// referral links. They carry no entity information and are stripped
// during classification.
var trackingParams = map[string]bool{
	"si":      true,
	"nd":      true,
	"context": true,
}

// ValidateID checks the fixed 22-character base62 id shape.
func ValidateID(id string) error {
	if len(id) != idLength {
		return fmt.Errorf("id must be %d characters, got %d", idLength, len(id))
	}
	for _, c := range id {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return fmt.Errorf("id contains non-base62 character %q", c)
		}
	}
	return nil
}

// Classify recognizes canonical, embed and URI references. Unknown
// hosts, unknown path shapes, trailing slashes, mixed-case hosts,
// percent-encoded path segments and URIs lacking a type segment are all
// rejected with URLError rather than guessed at.
func Classify(raw string) (URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return URL{}, &URLError{URL: raw, Reason: "empty string"}
	}

	if strings.HasPrefix(raw, URIScheme+":") {
		return classifyURI(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, &URLError{URL: raw, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return URL{}, &URLError{URL: raw, Reason: "unsupported scheme"}
	}
	if u.Host != Host {
		return URL{}, &URLError{URL: raw, Reason: "unknown host"}
	}
	if strings.Contains(u.EscapedPath(), "%") {
		return URL{}, &URLError{URL: raw, Reason: "percent-encoded path segment"}
	}
	if strings.HasSuffix(u.Path, "/") {
		return URL{}, &URLError{URL: raw, Reason: "trailing slash"}
	}

	segs := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")

	// Localized pages insert a single intl-xx segment before the
	// entity type; it carries no entity information.
	if len(segs) > 0 && strings.HasPrefix(segs[0], "intl-") {
		segs = segs[1:]
	}

	form := FormCanonical
	if len(segs) > 0 && segs[0] == "embed" {
		form = FormEmbed
		segs = segs[1:]
	}

	if len(segs) != 2 {
		return URL{}, &URLError{URL: raw, Reason: "unrecognized path shape"}
	}

	entity := model.EntityType(segs[0])
	if !entity.Valid() {
		return URL{}, &URLError{URL: raw, Reason: fmt.Sprintf("unknown entity type %q", segs[0])}
	}
	if err := ValidateID(segs[1]); err != nil {
		return URL{}, &URLError{URL: raw, Reason: err.Error()}
	}

	return URL{
		Type:   entity,
		ID:     segs[1],
		Form:   form,
		Params: stripTracking(u.Query()),
	}, nil
}

func classifyURI(raw string) (URL, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return URL{}, &URLError{URL: raw, Reason: "URI must have scheme, type and id segments"}
	}
	entity := model.EntityType(parts[1])
	if !entity.Valid() {
		return URL{}, &URLError{URL: raw, Reason: fmt.Sprintf("unknown entity type %q", parts[1])}
	}
	if err := ValidateID(parts[2]); err != nil {
		return URL{}, &URLError{URL: raw, Reason: err.Error()}
	}
	return URL{Type: entity, ID: parts[2], Form: FormURI}, nil
}

// Build constructs a URL from parts, validating the id shape first.
// params may be nil.
func Build(entity model.EntityType, id string, form URLForm, params url.Values) (URL, error) {
	if !entity.Valid() {
		return URL{}, &URLError{URL: id, Reason: fmt.Sprintf("unknown entity type %q", entity)}
	}
	if err := ValidateID(id); err != nil {
		return URL{}, &URLError{URL: id, Reason: err.Error()}
	}
	return URL{Type: entity, ID: id, Form: form, Params: stripTracking(params)}, nil
}

// Canonical returns the same entity reference in canonical form.
func (u URL) Canonical() URL {
	u.Form = FormCanonical
	return u
}

// Embed returns the same entity reference in embed form.
func (u URL) Embed() URL {
	u.Form = FormEmbed
	return u
}

// URI renders the reference as an app URI. Query parameters have no URI
// representation and are dropped.
func (u URL) URI() string {
	return fmt.Sprintf("%s:%s:%s", URIScheme, u.Type, u.ID)
}

// String renders the reference in its current form.
func (u URL) String() string {
	if u.Form == FormURI {
		return u.URI()
	}
	path := fmt.Sprintf("/%s/%s", u.Type, u.ID)
	if u.Form == FormEmbed {
		path = "/embed" + path
	}
	out := url.URL{Scheme: "https", Host: Host, Path: path}
	if len(u.Params) > 0 {
		out.RawQuery = u.Params.Encode()
	}
	return out.String()
}

func stripTracking(params url.Values) url.Values {
	if len(params) == 0 {
		return nil
	}
	cleaned := url.Values{}
	for key, vals := range params {
		if trackingParams[key] || strings.HasPrefix(key, "utm_") {
			continue
		}
		cleaned[key] = vals
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
