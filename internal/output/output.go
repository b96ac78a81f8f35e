// Package output serializes the final record set to the JSON, CSV, and PDF
// artifacts. Rows keep explicit key order so the CSV header and the JSON
// object layout both follow insertion order exactly.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/reviewsift/reviewsift/internal/record"
)

// Field is one key/value pair of an output row.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered set of fields. It marshals to a JSON object whose keys
// appear in insertion order.
type Row []Field

// MarshalJSON writes the row as an object, preserving field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the row's value for a key, nil when absent.
func (r Row) Get(key string) any {
	for _, f := range r {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// JSONOptions names the business-context keys of the JSON artifact. Call
// sites differ on purpose ("business"/"location" vs
// "business_name"/"business_city_region") and the variance is preserved as
// configuration rather than unified.
type JSONOptions struct {
	BusinessKey string
	LocationKey string
}

// DefaultJSONOptions matches the primary consumer's key names.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{BusinessKey: "business", LocationKey: "location"}
}

// JSONRow flattens one review for the JSON artifact.
func JSONRow(r record.Review, opts JSONOptions) Row {
	return Row{
		{Key: "reviewer", Value: r.Reviewer},
		{Key: "rating", Value: r.Rating},
		{Key: "date", Value: r.Date},
		{Key: "text", Value: r.Text},
		{Key: opts.BusinessKey, Value: r.Business.Name},
		{Key: opts.LocationKey, Value: r.Business.CityRegion},
	}
}

// WriteJSON writes the artifact with a top-level "reviews" array.
func WriteJSON(path string, reviews []record.Review, opts JSONOptions) error {
	if opts.BusinessKey == "" || opts.LocationKey == "" {
		opts = DefaultJSONOptions()
	}
	rows := make([]Row, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, JSONRow(r, opts))
	}
	payload := struct {
		Reviews []Row `json:"reviews"`
	}{Reviews: rows}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reviews: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json artifact: %w", err)
	}
	return nil
}

// CSVRow flattens one review for the CSV artifact. The wider column set
// (source id, stars, reviewer's own count) mirrors what the page actually
// carried.
func CSVRow(r record.Review) Row {
	return Row{
		{Key: "review_id", Value: r.ID},
		{Key: "reviewer", Value: r.Reviewer},
		{Key: "stars", Value: r.Rating},
		{Key: "date", Value: r.Date},
		{Key: "text", Value: r.Text},
		{Key: "reviewer_review_count", Value: r.ReviewCount},
		{Key: "business_name", Value: r.Business.Name},
		{Key: "business_city_region", Value: r.Business.CityRegion},
	}
}

// cell renders a field value for CSV. Absent numerics become empty cells.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	default:
		return fmt.Sprint(x)
	}
}
