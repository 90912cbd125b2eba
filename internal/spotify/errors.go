package spotify

import (
	"fmt"

	"spotscrape/internal/model"
)

// URLError reports a string that could not be classified as a supported
// catalog URL.
type URLError struct {
	URL    string
	Reason string
}

func (e *URLError) Error() string {
	return fmt.Sprintf("invalid spotify URL %q: %s", e.URL, e.Reason)
}

// ParsingError reports that a page could not be turned into a located
// JSON document. Stage is "locate" when no strategy matched and "decode"
// when a matched payload was not valid JSON.
type ParsingError struct {
	Stage   string
	Details string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing failed at stage %q: %s", e.Stage, e.Details)
}

// ExtractionError reports that required fields were still missing after
// every fallback path was tried. It always carries the entity type, and
// the originating URL when the caller supplied one, so callers can log
// or branch without re-parsing.
type ExtractionError struct {
	EntityType model.EntityType
	URL        string
	Details    string
}

func (e *ExtractionError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("extracting %s from %s: %s", e.EntityType, e.URL, e.Details)
	}
	return fmt.Sprintf("extracting %s: %s", e.EntityType, e.Details)
}
