// Package pipeline runs the multi-strategy extraction cascade over one page
// and owns the cross-page reduction: strategy precedence, business-field
// merge, deduplication, ordering, and minimum-yield padding.
package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/reviewsift/reviewsift/internal/domscan"
	"github.com/reviewsift/reviewsift/internal/graphjson"
	"github.com/reviewsift/reviewsift/internal/linkeddata"
	"github.com/reviewsift/reviewsift/internal/normalize"
	"github.com/reviewsift/reviewsift/internal/record"
)

// blockTokens flags anti-bot interstitials. Detection is advisory: the page
// is still extracted, it just usually yields nothing.
var blockTokens = []string{
	"you have been blocked",
	"are you not a robot",
	"captcha",
	"are you human",
	"temporarily unavailable",
}

// Strategy names the extractor whose output became a page's review list.
type Strategy string

const (
	StrategyGraph      Strategy = "graph"
	StrategyLinkedData Strategy = "linkeddata"
	StrategyDOM        Strategy = "dom"
	StrategyNone       Strategy = "none"
)

// PageResult is the fully merged outcome of one page.
type PageResult struct {
	Business record.Business
	Reviews  []record.Review
	Strategy Strategy
	Blocked  bool
}

// ExtractPage runs every strategy over the raw page text and applies the
// precedence and merge policy: the review list is taken wholesale from the
// first strategy that produced one (graph, then linked data, then DOM),
// while business fields merge field-by-field with linked data first and DOM
// values filling only what is still empty. Extraction never fails; the worst
// case is an empty result.
func ExtractPage(raw string) PageResult {
	res := PageResult{Blocked: LooksBlocked(raw), Strategy: StrategyNone}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		doc = nil
	}

	if doc != nil {
		ldBiz, ldReviews := linkeddata.Extract(doc)
		if ldBiz != nil {
			res.Business = *ldBiz
		}
		res.Business = res.Business.Merge(domscan.Business(doc))

		nodes, users := graphjson.Parse(raw)
		switch {
		case len(nodes) > 0:
			res.Reviews = fromGraph(graphjson.Resolve(nodes, users), res.Business)
			res.Strategy = StrategyGraph
		case len(ldReviews) > 0:
			res.Reviews = fromLinkedData(ldReviews, res.Business)
			res.Strategy = StrategyLinkedData
		default:
			if dom := domscan.Reviews(doc); len(dom) > 0 {
				res.Reviews = fromDOM(dom, res.Business)
				res.Strategy = StrategyDOM
			}
		}
		return res
	}

	// The DOM failed to parse at all; the graph strategy scans raw text and
	// may still succeed.
	nodes, users := graphjson.Parse(raw)
	if len(nodes) > 0 {
		res.Reviews = fromGraph(graphjson.Resolve(nodes, users), res.Business)
		res.Strategy = StrategyGraph
	}
	return res
}

// LooksBlocked reports whether the page text smells like an anti-bot or
// outage interstitial.
func LooksBlocked(raw string) bool {
	lo := strings.ToLower(raw)
	for _, tok := range blockTokens {
		if strings.Contains(lo, tok) {
			return true
		}
	}
	return false
}

// Dedupe drops records with empty text, collapses identity-key collisions
// keeping the first-encountered record, and orders the survivors by date
// string descending. The sort is lexicographic over raw date strings; pages
// mixing ISO and unnormalized dates interleave accordingly (a documented
// limitation, kept on purpose).
func Dedupe(in []record.Review) []record.Review {
	seen := make(map[string]struct{}, len(in))
	out := make([]record.Review, 0, len(in))
	for _, r := range in {
		if r.Text == "" {
			continue
		}
		key := r.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// Pad appends placeholder records until the set reaches the floor. Genuine
// records are never replaced or reordered; a floor of zero disables padding.
func Pad(in []record.Review, floor int) []record.Review {
	for len(in) < floor {
		in = append(in, record.Placeholder())
	}
	return in
}

func fromGraph(in []graphjson.Review, biz record.Business) []record.Review {
	out := make([]record.Review, 0, len(in))
	for _, r := range in {
		out = append(out, record.Review{
			ID:       r.ID,
			Reviewer: defaultReviewer(r.Reviewer),
			Rating:   r.Rating,
			Date:     normalize.Date(r.Date),
			Text:     r.Text,
			Business: biz,
		})
	}
	return out
}

func fromLinkedData(in []linkeddata.Review, biz record.Business) []record.Review {
	out := make([]record.Review, 0, len(in))
	for _, r := range in {
		rec := record.Review{
			Reviewer: defaultReviewer(r.Reviewer),
			Date:     normalize.Date(r.Date),
			Text:     r.Text,
			Business: biz,
		}
		if v, err := strconv.ParseFloat(r.Stars, 64); err == nil {
			rec.Rating = &v
		}
		out = append(out, rec)
	}
	return out
}

func fromDOM(in []domscan.Review, biz record.Business) []record.Review {
	out := make([]record.Review, 0, len(in))
	for _, r := range in {
		out = append(out, record.Review{
			Reviewer:    defaultReviewer(r.Reviewer),
			Rating:      r.Rating,
			Date:        normalize.Date(r.Date),
			Text:        r.Text,
			ReviewCount: r.ReviewCount,
			Business:    biz,
		})
	}
	return out
}

// defaultReviewer applies the unknown-author sentinel. Drop-vs-default per
// field: empty reviewer names are defaulted here; empty review text is a
// hard drop at the source extractor (graph) or at Dedupe (everything else).
func defaultReviewer(name string) string {
	if strings.TrimSpace(name) == "" {
		return record.UnknownReviewer
	}
	return name
}
