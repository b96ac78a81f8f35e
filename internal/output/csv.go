package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/reviewsift/reviewsift/internal/record"
)

// WriteCSV writes the record set as CSV. The header row is the key set of
// the first record in insertion order; every subsequent row is rendered
// against that same key set. An empty record set produces an empty file.
func WriteCSV(path string, reviews []record.Review) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv artifact: %w", err)
	}
	defer f.Close()

	if len(reviews) == 0 {
		return nil
	}

	w := csv.NewWriter(f)
	first := CSVRow(reviews[0])
	header := make([]string, 0, len(first))
	for _, field := range first {
		header = append(header, field.Key)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range reviews {
		row := CSVRow(r)
		cells := make([]string, 0, len(header))
		for _, key := range header {
			cells = append(cells, cell(row.Get(key)))
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv artifact: %w", err)
	}
	return nil
}
