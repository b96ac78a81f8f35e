package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewsift/reviewsift/internal/record"
)

func sampleReviews() []record.Review {
	rating := 4.0
	count := 57
	biz := record.Business{Name: "Cafe Lumière", CityRegion: "Springfield, IL"}
	return []record.Review{
		{ID: "enc-r1", Reviewer: "Amy", Rating: &rating, Date: "2023-05-01", Text: "Great coffee", ReviewCount: &count, Business: biz},
		{Reviewer: record.UnknownReviewer, Date: "May 3, 2023", Text: "Fine", Business: biz},
	}
}

func TestRowMarshalJSON_PreservesKeyOrder(t *testing.T) {
	b, err := json.Marshal(JSONRow(sampleReviews()[0], DefaultJSONOptions()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	order := []string{`"reviewer"`, `"rating"`, `"date"`, `"text"`, `"business"`, `"location"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(got, key)
		if idx < 0 {
			t.Fatalf("missing key %s in %s", key, got)
		}
		if idx < last {
			t.Fatalf("key %s out of order in %s", key, got)
		}
		last = idx
	}
}

func TestWriteJSON_TopLevelReviewsAndKeyVariance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	opts := JSONOptions{BusinessKey: "business_name", LocationKey: "business_city_region"}
	if err := WriteJSON(path, sampleReviews(), opts); err != nil {
		t.Fatalf("write json: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var doc struct {
		Reviews []map[string]any `json:"reviews"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(doc.Reviews))
	}
	first := doc.Reviews[0]
	if first["reviewer"] != "Amy" || first["business_name"] != "Cafe Lumière" {
		t.Fatalf("unexpected first row %v", first)
	}
	if first["rating"] != 4.0 {
		t.Fatalf("expected numeric rating, got %v", first["rating"])
	}
	if doc.Reviews[1]["rating"] != nil {
		t.Fatalf("nil rating must serialize as null, got %v", doc.Reviews[1]["rating"])
	}
}

func TestWriteCSV_HeaderFromFirstRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviews.csv")
	if err := WriteCSV(path, sampleReviews()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	wantHeader := []string{"review_id", "reviewer", "stars", "date", "text", "reviewer_review_count", "business_name", "business_city_region"}
	if len(rows[0]) != len(wantHeader) {
		t.Fatalf("unexpected header %v", rows[0])
	}
	for i, key := range wantHeader {
		if rows[0][i] != key {
			t.Fatalf("header[%d]=%q, want %q", i, rows[0][i], key)
		}
	}
	if rows[1][0] != "enc-r1" || rows[1][2] != "4" || rows[1][5] != "57" {
		t.Fatalf("unexpected first data row %v", rows[1])
	}
	if rows[2][0] != "" || rows[2][2] != "" {
		t.Fatalf("absent id and rating must be empty cells, got %v", rows[2])
	}
}

func TestWriteCSV_EmptySet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("expected empty file, got %q", b)
	}
}

func TestWritePDF_ProducesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.pdf")
	reviews := append(sampleReviews(), record.Placeholder())
	biz := reviews[0].Business
	if err := WritePDF(path, biz, reviews); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty pdf")
	}
}
