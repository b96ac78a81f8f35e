package app

import "github.com/reviewsift/reviewsift/internal/output"

// Config holds runtime configuration for one aggregation run.
type Config struct {
	// Globs are the input file patterns, scanned in order. Matches within a
	// glob are sorted so runs are deterministic.
	Globs []string

	OutJSON string
	OutCSV  string
	// OutPDF enables the optional PDF summary when non-empty.
	OutPDF string

	// MinReviews is the minimum-yield floor: when the deduplicated set is
	// smaller, placeholder records are appended until it is met. Zero
	// disables padding.
	MinReviews int

	// JSONKeys names the business-context keys of the JSON artifact. Left
	// zero, the default "business"/"location" pair is used.
	JSONKeys output.JSONOptions

	Verbose bool
}

// DefaultGlobs are scanned when no patterns are given, matching where saved
// pages conventionally land.
var DefaultGlobs = []string{"Curl/*.html", "pages/*.html"}
