// Package linkeddata extracts business and review entities from embedded
// linked-data blocks (script type="application/ld+json"). Blocks hold either
// a single object or an array of objects; entities use the shared
// schema.org-style vocabulary (LocalBusiness, AggregateRating, Review).
package linkeddata

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewsift/reviewsift/internal/normalize"
	"github.com/reviewsift/reviewsift/internal/record"
)

// Review is the normalized intermediate review shape of this strategy. Stars
// stays stringified here; the merge step parses it into the numeric record
// field.
type Review struct {
	Reviewer string
	Stars    string
	Date     string
	Text     string
}

// businessTypes is the fixed set of business-like entity types captured for
// page-level fields.
var businessTypes = map[string]bool{
	"LocalBusiness":     true,
	"Restaurant":        true,
	"FoodEstablishment": true,
	"Organization":      true,
}

// flexString decodes a JSON value that sites emit inconsistently as either a
// string or a number ("4" vs 4), preserving the literal form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	// Tolerate any other shape as absence.
	*f = ""
	return nil
}

// flexName decodes an author field that is either a plain string or an
// object carrying a name.
type flexName string

func (f *flexName) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexName(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		*f = flexName(obj.Name)
		return nil
	}
	*f = ""
	return nil
}

// typeList decodes @type as either a string or an array of strings.
type typeList []string

func (t *typeList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = typeList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = typeList(list)
		return nil
	}
	*t = nil
	return nil
}

// rawList decodes a field that holds either one object or an array of them,
// the same tolerance the block level has.
type rawList []json.RawMessage

func (l *rawList) UnmarshalJSON(b []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var one json.RawMessage
	if err := json.Unmarshal(b, &one); err == nil && len(one) > 0 && one[0] == '{' {
		*l = rawList{one}
		return nil
	}
	*l = nil
	return nil
}

type item struct {
	Type    typeList `json:"@type"`
	Name    string   `json:"name"`
	Price   string   `json:"priceRange"`
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
	} `json:"address"`
	AggregateRating struct {
		RatingValue flexString `json:"ratingValue"`
		ReviewCount flexString `json:"reviewCount"`
	} `json:"aggregateRating"`
	Review rawList `json:"review"`

	// Review-typed item fields.
	Author       flexName `json:"author"`
	ReviewRating struct {
		RatingValue flexString `json:"ratingValue"`
	} `json:"reviewRating"`
	DatePublished string `json:"datePublished"`
	Description   string `json:"description"`
	ReviewBody    string `json:"reviewBody"`
}

// Extract scans every linked-data block of the page. The two outputs are
// independent: a business may be found with zero reviews and reviews without
// any business-like entity. Both are nil/empty when nothing matched.
func Extract(doc *goquery.Document) (*record.Business, []Review) {
	var biz *record.Business
	var reviews []Review

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		for _, raw := range blockItems(sel.Text()) {
			var it item
			if err := json.Unmarshal(raw, &it); err != nil {
				continue
			}
			if it.isBusiness() {
				if biz == nil {
					if b := it.business(); !b.Empty() {
						biz = &b
					}
				}
				for _, nested := range it.Review {
					var rv item
					if err := json.Unmarshal(nested, &rv); err != nil {
						continue
					}
					if r, ok := rv.review(); ok {
						reviews = append(reviews, r)
					}
				}
				continue
			}
			if it.hasType("Review") {
				if r, ok := it.review(); ok {
					reviews = append(reviews, r)
				}
			}
		}
	})
	return biz, reviews
}

// blockItems splits a linked-data payload into its item documents, accepting
// either a single object or an array of objects. Unparseable payloads yield
// nothing.
func blockItems(payload string) []json.RawMessage {
	txt := strings.TrimSpace(payload)
	if txt == "" {
		return nil
	}
	if strings.HasPrefix(txt, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(txt), &arr); err != nil {
			return nil
		}
		return arr
	}
	var obj json.RawMessage
	if err := json.Unmarshal([]byte(txt), &obj); err != nil {
		return nil
	}
	return []json.RawMessage{obj}
}

func (it item) hasType(name string) bool {
	for _, t := range it.Type {
		if t == name {
			return true
		}
	}
	return false
}

func (it item) isBusiness() bool {
	for _, t := range it.Type {
		if businessTypes[t] {
			return true
		}
	}
	return false
}

// business reduces a business-like item to page-level fields. The address
// sub-object collapses to "locality, region", omitting whichever part is
// absent.
func (it item) business() record.Business {
	b := record.Business{
		Name:       normalize.Whitespace(normalize.Unescape(it.Name)),
		PriceRange: strings.TrimSpace(it.Price),
		CityRegion: joinLocality(it.Address.Locality, it.Address.Region),
	}
	if v, err := strconv.ParseFloat(string(it.AggregateRating.RatingValue), 64); err == nil {
		b.OverallRating = &v
	}
	if n, err := strconv.Atoi(string(it.AggregateRating.ReviewCount)); err == nil && n >= 0 {
		b.TotalReviews = &n
	}
	return b
}

// review normalizes a Review-typed item. Items lacking any usable field are
// dropped rather than defaulted.
func (it item) review() (Review, bool) {
	text := it.Description
	if text == "" {
		text = it.ReviewBody
	}
	r := Review{
		Reviewer: normalize.Whitespace(normalize.Unescape(string(it.Author))),
		Stars:    string(it.ReviewRating.RatingValue),
		Date:     strings.TrimSpace(it.DatePublished),
		Text:     normalize.Whitespace(normalize.Unescape(text)),
	}
	if r.Reviewer == "" && r.Stars == "" && r.Date == "" && r.Text == "" {
		return Review{}, false
	}
	return r, true
}

func joinLocality(locality, region string) string {
	locality = strings.TrimSpace(locality)
	region = strings.TrimSpace(region)
	switch {
	case locality != "" && region != "":
		return locality + ", " + region
	case locality != "":
		return locality
	default:
		return region
	}
}
