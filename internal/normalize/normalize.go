package normalize

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ratingLabelRe matches a decimal number immediately followed by the token
// "star" anywhere in a label, e.g. "4.5 star rating" or "3 stars".
var ratingLabelRe = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*star`)

// dateLayouts are tried in order: full timestamp with zone, full timestamp
// without zone, then date-only.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Whitespace collapses any run of whitespace, including newlines, to a
// single space and trims both ends. Input is NFC-normalized first so that
// entity-decoded text compares stably. Empty input yields the empty string.
func Whitespace(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Unescape decodes HTML character references. It is idempotent:
// Unescape(Unescape(s)) == Unescape(s) for already-decoded text.
func Unescape(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(s)
}

// RatingFromLabel extracts a star rating from a human-readable label such as
// an aria-label. It returns nil when the label carries no "<number> star"
// pattern; surrounding text is tolerated.
func RatingFromLabel(label string) *float64 {
	m := ratingLabelRe.FindStringSubmatch(label)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// Date reduces a timestamp string to its YYYY-MM-DD date component. Layouts
// are attempted most-specific first; when none match, the input is returned
// unchanged so callers can still sort and display the raw source value.
func Date(s string) string {
	t := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, t); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return s
}
