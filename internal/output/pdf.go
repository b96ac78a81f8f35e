package output

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/reviewsift/reviewsift/internal/record"
)

// WritePDF renders a minimal one-document summary of the extracted set:
// a business header followed by the genuine reviews. Padding placeholders
// are left out since they carry no content.
func WritePDF(path string, biz record.Business, reviews []record.Review) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	title := biz.Name
	if title == "" {
		title = "Extracted reviews"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	if meta := businessLine(biz); meta != "" {
		pdf.CellFormat(0, 6, meta, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	genuine := 0
	for _, r := range reviews {
		if r.IsPlaceholder() {
			continue
		}
		genuine++
		head := r.Date
		if head != "" {
			head += "  "
		}
		head += r.Reviewer
		if r.Rating != nil {
			head += " (" + strconv.FormatFloat(*r.Rating, 'f', -1, 64) + " stars)"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 5, head, "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, r.Text, "", "L", false)
		pdf.Ln(3)
	}
	if genuine == 0 {
		pdf.MultiCell(0, 5, "No reviews were extracted.", "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf artifact: %w", err)
	}
	return nil
}

func businessLine(biz record.Business) string {
	line := ""
	add := func(s string) {
		if s == "" {
			return
		}
		if line != "" {
			line += " | "
		}
		line += s
	}
	add(biz.Category)
	add(biz.CityRegion)
	add(biz.PriceRange)
	if biz.OverallRating != nil {
		add(strconv.FormatFloat(*biz.OverallRating, 'f', -1, 64) + " stars")
	}
	if biz.TotalReviews != nil {
		add(strconv.Itoa(*biz.TotalReviews) + " reviews")
	}
	return line
}
