// Package graphjson pulls review and user nodes out of the serialized object
// graph that listing pages embed inside <script> tags. The graph is a single
// JSON object keyed by opaque composite identifiers ("Type:id"), with typed
// nodes cross-referencing each other by key.
package graphjson

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"github.com/reviewsift/reviewsift/internal/normalize"
)

// Node is one Review-typed graph entry with its author reference still
// unresolved. Resolve joins it against the Users table.
type Node struct {
	ID        string
	AuthorRef string
	Rating    *float64
	Date      string
	Text      string
}

// Users maps a graph user id (the key suffix after the first colon) to the
// user's display name.
type Users map[string]string

// Review is a resolved node: the author reference has been replaced by the
// reviewer's display name, empty when the id was absent from the table.
type Review struct {
	ID       string
	Reviewer string
	Rating   *float64
	Date     string
	Text     string
}

type rawNode struct {
	Typename    string   `json:"__typename"`
	DisplayName string   `json:"displayName"`
	Encid       string   `json:"encid"`
	ReviewID    string   `json:"reviewId"`
	Rating      *float64 `json:"rating"`
	Localized   string   `json:"localizedDate"`
	Text        struct {
		Full  string `json:"full"`
		Plain string `json:"plain"`
	} `json:"text"`
	CreatedAt struct {
		LocalDateTimeForBusiness string `json:"localDateTimeForBusiness"`
	} `json:"createdAt"`
	Author struct {
		Ref string `json:"__ref"`
	} `json:"author"`
}

// Parse scans every script payload in the raw page for a parseable object
// graph and collects Review nodes and the User lookup table. Payloads that
// fail to parse, non-object documents, and non-object entries are skipped;
// the worst case is an empty result, never an error.
func Parse(raw string) ([]Node, Users) {
	var nodes []Node
	users := Users{}

	for _, payload := range scriptPayloads(raw) {
		txt := strings.TrimSpace(normalize.Unescape(payload))
		// Some revisions wrap the payload in an HTML comment to keep naive
		// parsers away from it.
		if strings.HasPrefix(txt, "<!--") && strings.HasSuffix(txt, "-->") {
			txt = strings.TrimSpace(txt[4 : len(txt)-3])
		}
		if txt == "" {
			continue
		}

		var doc map[string]json.RawMessage
		if err := json.Unmarshal([]byte(txt), &doc); err != nil {
			continue
		}

		for key, rawEntry := range doc {
			var node rawNode
			if err := json.Unmarshal(rawEntry, &node); err != nil {
				continue
			}
			switch node.Typename {
			case "User":
				uid := keySuffix(key)
				name := normalize.Unescape(node.DisplayName)
				if uid != "" && name != "" {
					users[uid] = name
				}
			case "Review":
				text := node.Text.Full
				if text == "" {
					text = node.Text.Plain
				}
				// Reviews without body text are dropped at the source, not
				// defaulted to empty.
				if strings.TrimSpace(text) == "" {
					continue
				}
				id := node.Encid
				if id == "" {
					id = node.ReviewID
				}
				if id == "" {
					id = key
				}
				date := node.CreatedAt.LocalDateTimeForBusiness
				if date == "" {
					date = node.Localized
				}
				nodes = append(nodes, Node{
					ID:        id,
					AuthorRef: keySuffix(node.Author.Ref),
					Rating:    node.Rating,
					Date:      date,
					Text:      normalize.Whitespace(text),
				})
			}
		}
	}
	return nodes, users
}

// Resolve joins each node's author reference against the user table and
// discards the reference. Unknown ids resolve to an empty reviewer name;
// the merge step applies the sentinel later.
func Resolve(nodes []Node, users Users) []Review {
	out := make([]Review, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Review{
			ID:       n.ID,
			Reviewer: users[n.AuthorRef],
			Rating:   n.Rating,
			Date:     n.Date,
			Text:     n.Text,
		})
	}
	return out
}

// scriptPayloads returns the text content of every <script> element.
func scriptPayloads(raw string) []string {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil || root == nil {
		return nil
	}
	var payloads []string
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "script") {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode || c.Type == html.CommentNode {
					b.WriteString(c.Data)
				}
			}
			if b.Len() > 0 {
				payloads = append(payloads, b.String())
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(root)
	return payloads
}

// keySuffix returns the part of a composite graph key after its first colon,
// or the whole key when it has none.
func keySuffix(key string) string {
	if i := strings.Index(key, ":"); i >= 0 {
		return key[i+1:]
	}
	return key
}
