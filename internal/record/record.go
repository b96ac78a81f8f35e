// Package record defines the canonical business and review records produced
// by the extraction pipeline. Records are built once by the merge step and
// treated as immutable afterwards.
package record

import "github.com/reviewsift/reviewsift/internal/normalize"

// UnknownReviewer is the sentinel reviewer name used both for organically
// extracted reviews whose author could not be resolved and for padding
// placeholders. Downstream consumers filter placeholders by this value
// combined with an empty text field.
const UnknownReviewer = "Anonymous"

// Business aggregates page-level fields about the reviewed establishment.
// At most one Business exists per input page; fields left nil or empty were
// not found by any strategy.
type Business struct {
	Name          string
	Category      string
	CityRegion    string
	PriceRange    string
	OverallRating *float64
	TotalReviews  *int
}

// Merge fills every still-empty field of b from other without overwriting
// populated ones, returning the merged copy. The receiver is not mutated.
func (b Business) Merge(other Business) Business {
	if b.Name == "" {
		b.Name = other.Name
	}
	if b.Category == "" {
		b.Category = other.Category
	}
	if b.CityRegion == "" {
		b.CityRegion = other.CityRegion
	}
	if b.PriceRange == "" {
		b.PriceRange = other.PriceRange
	}
	if b.OverallRating == nil {
		b.OverallRating = other.OverallRating
	}
	if b.TotalReviews == nil {
		b.TotalReviews = other.TotalReviews
	}
	return b
}

// Empty reports whether no field of the business was populated.
func (b Business) Empty() bool {
	return b.Name == "" && b.Category == "" && b.CityRegion == "" &&
		b.PriceRange == "" && b.OverallRating == nil && b.TotalReviews == nil
}

// Review is one extracted review with its business context attached by copy.
type Review struct {
	// ID is the source-supplied review identifier; only the structured-graph
	// strategy provides one. Empty otherwise.
	ID string

	Reviewer string
	Rating   *float64
	// Date is YYYY-MM-DD when the source value normalized, the raw source
	// string when it did not, and empty when absent.
	Date string
	Text string
	// ReviewCount is the reviewer's own historical review count, not the
	// business total.
	ReviewCount *int

	Business Business

	placeholder bool
}

// Key returns the identity key used for deduplication: the source review ID
// when present, else a composite of the normalized reviewer name and date.
func (r Review) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return normalize.Whitespace(r.Reviewer) + "|" + r.Date
}

// Placeholder constructs a synthetic padding record. All extraction fields
// are empty so consumers can filter padding back out.
func Placeholder() Review {
	return Review{Reviewer: UnknownReviewer, placeholder: true}
}

// IsPlaceholder reports whether the record was appended to satisfy a
// minimum-yield floor rather than extracted from the page.
func (r Review) IsPlaceholder() bool {
	return r.placeholder
}
