// Package domscan is the last-resort extraction strategy: ordered CSS
// selector cascades per field, tolerant of the markup drift between saved
// page revisions. Container discovery and the four field cascades are
// deliberately independent of each other; each falls back on its own.
package domscan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewsift/reviewsift/internal/normalize"
	"github.com/reviewsift/reviewsift/internal/record"
)

// Review is the raw per-container extraction result. Any field may be empty;
// containers where all four cascade fields came up empty are never emitted.
type Review struct {
	Reviewer string
	Rating   *float64
	Date     string
	Text     string
	// ReviewCount is the reviewer's own historical count from the passport
	// block, when the markup carries one. It does not keep a container alive.
	ReviewCount *int
}

// containerCascade is evaluated top to bottom; the first level that matches
// any containers wins, even when those containers later yield no usable
// fields.
var containerCascade = []string{
	`[data-testid="review"]`,
	`section[aria-label*="Review"] article, li.review, div.review`,
	`ul.list__09f24__ynIEd > li`,
}

var reviewerCascade = []string{
	".user-passport-info span a",
	`[data-testid="author-name"]`,
	`a[href*="/user_details"]`,
	".user-display-name",
	"strong",
}

var dateCascade = []string{
	`[data-testid="review-date"]`,
	"span.y-css-1vi7y4e",
	"span:has(time)",
	"time",
}

var textCascade = []string{
	`[data-testid="review-comment"]`,
	"span.break-words",
	"p",
}

var totalReviewsRe = regexp.MustCompile(`([0-9][0-9,]*)\s+reviews`)

// Reviews discovers review containers and extracts one Review per container
// that produced at least one non-empty field.
func Reviews(doc *goquery.Document) []Review {
	containers := findContainers(doc)
	if containers == nil {
		return nil
	}

	var out []Review
	containers.Each(func(_ int, c *goquery.Selection) {
		r := Review{
			Reviewer:    firstText(c, reviewerCascade...),
			Rating:      ratingOf(c),
			Date:        dateOf(c),
			Text:        firstText(c, textCascade...),
			ReviewCount: reviewerCount(c),
		}
		if r.Reviewer == "" && r.Rating == nil && r.Date == "" && r.Text == "" {
			return
		}
		out = append(out, r)
	})
	return out
}

// Business extracts page-level business fields used to fill whatever the
// structured strategies left empty.
func Business(doc *goquery.Document) record.Business {
	b := record.Business{
		Name:       firstText(doc.Selection, "h1"),
		Category:   firstText(doc.Selection, "span.category-str-list a", `[data-testid="business-category"]`),
		CityRegion: firstText(doc.Selection, `[data-testid="business-location"]`),
	}

	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := strings.TrimSpace(s.Text()); t != "" && isPriceToken(t) {
			b.PriceRange = t
			return false
		}
		return true
	})

	b.OverallRating = pageRating(doc)

	for _, sel := range []string{`[data-testid="review-count"]`, `a[href*="reviews"]`} {
		if m := totalReviewsRe.FindStringSubmatch(firstText(doc.Selection, sel)); m != nil {
			if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
				b.TotalReviews = &n
				break
			}
		}
	}
	return b
}

// reviewerCount parses the reviewer's own review total from the container's
// passport markup, e.g. "57 reviews".
func reviewerCount(c *goquery.Selection) *int {
	for _, sel := range []string{`[data-testid="user-review-count"]`, "span.review-count"} {
		m := totalReviewsRe.FindStringSubmatch(firstText(c, sel))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			return &n
		}
	}
	return nil
}

// findContainers returns the matches of the first cascade level that matches
// anything, or nil when no level does.
func findContainers(doc *goquery.Document) *goquery.Selection {
	for _, sel := range containerCascade {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// firstText walks a selector cascade and returns the first selector whose
// match carries non-empty normalized text. A selector that matches but
// yields empty text does not stop the cascade.
func firstText(scope *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		found := scope.Find(sel).First()
		if found.Length() == 0 {
			continue
		}
		if t := normalize.Whitespace(found.Text()); t != "" {
			return t
		}
	}
	return ""
}

// ratingOf resolves a numeric star rating from an ARIA-style label. Only
// labels carrying a "<number> star" pattern are accepted.
func ratingOf(c *goquery.Selection) *float64 {
	for _, sel := range []string{`div[role="img"][aria-label*="star"]`, `[aria-label*="star"]`} {
		label, ok := c.Find(sel).First().Attr("aria-label")
		if !ok {
			continue
		}
		if v := normalize.RatingFromLabel(label); v != nil {
			return v
		}
	}
	return nil
}

// dateOf prefers the machine-readable datetime attribute over any visible
// date text, then falls back through the visible-text cascade.
func dateOf(c *goquery.Selection) string {
	if dt, ok := c.Find("time[datetime]").First().Attr("datetime"); ok {
		if t := strings.TrimSpace(dt); t != "" {
			return t
		}
	}
	return firstText(c, dateCascade...)
}

// pageRating looks for an overall business rating outside any review
// container so per-review stars are not mistaken for the page-level value.
func pageRating(doc *goquery.Document) *float64 {
	var rating *float64
	doc.Find(`div[role="img"][aria-label*="star"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.ParentsFiltered(strings.Join(containerCascade, ", ")).Length() > 0 {
			return true
		}
		label, ok := s.Attr("aria-label")
		if !ok {
			return true
		}
		if v := normalize.RatingFromLabel(label); v != nil {
			rating = v
			return false
		}
		return true
	})
	return rating
}

// isPriceToken reports whether the text is one or more dollar signs and
// nothing else.
func isPriceToken(s string) bool {
	for _, r := range s {
		if r != '$' {
			return false
		}
	}
	return len(s) > 0
}
