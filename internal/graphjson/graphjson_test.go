package graphjson

import "testing"

const graphPage = `<!doctype html>
<html><head>
<script type="application/json">
<!-- {
  "User:u1": {"__typename": "User", "displayName": "Amy"},
  "User:u2": {"__typename": "User", "displayName": ""},
  "Review:r1": {
    "__typename": "Review",
    "encid": "enc-r1",
    "rating": 4,
    "text": {"full": "Great coffee", "plain": "Great coffee"},
    "createdAt": {"localDateTimeForBusiness": "2023-05-01T10:00:00"},
    "author": {"__ref": "User:u1"}
  },
  "Review:r2": {
    "__typename": "Review",
    "reviewId": "rid-r2",
    "rating": 2.5,
    "text": {"full": "", "plain": ""},
    "author": {"__ref": "User:u1"}
  },
  "Review:r3": {
    "__typename": "Review",
    "rating": 5,
    "text": {"plain": "Plain only"},
    "localizedDate": "5/1/2023",
    "author": {"__ref": "User:missing"}
  },
  "Garbage:g1": ["not", "an", "object"],
  "Null:n1": null
} -->
</script>
<script>window.__INIT__ = not json at all;</script>
</head><body></body></html>`

func TestParse_CollectsUsersAndReviews(t *testing.T) {
	nodes, users := Parse(graphPage)

	if users["u1"] != "Amy" {
		t.Fatalf("expected user u1 -> Amy, got %q", users["u1"])
	}
	if _, ok := users["u2"]; ok {
		t.Fatalf("user with empty display name must be skipped")
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 review nodes (empty-text node dropped), got %d", len(nodes))
	}

	byID := map[string]Node{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	r1, ok := byID["enc-r1"]
	if !ok {
		t.Fatalf("expected review keyed by encid, got %v", byID)
	}
	if r1.AuthorRef != "u1" {
		t.Fatalf("expected author ref suffix u1, got %q", r1.AuthorRef)
	}
	if r1.Rating == nil || *r1.Rating != 4 {
		t.Fatalf("rating must be carried verbatim, got %v", r1.Rating)
	}
	if r1.Date != "2023-05-01T10:00:00" {
		t.Fatalf("expected business-local timestamp preferred, got %q", r1.Date)
	}
	if r1.Text != "Great coffee" {
		t.Fatalf("unexpected text %q", r1.Text)
	}

	r3, ok := byID["Review:r3"]
	if !ok {
		t.Fatalf("expected fallback to map key as id")
	}
	if r3.Date != "5/1/2023" {
		t.Fatalf("expected localizedDate fallback, got %q", r3.Date)
	}
	if r3.Text != "Plain only" {
		t.Fatalf("expected text.plain fallback, got %q", r3.Text)
	}
}

func TestParse_EmptyTextIsHardFilter(t *testing.T) {
	nodes, _ := Parse(graphPage)
	for _, n := range nodes {
		if n.ID == "rid-r2" {
			t.Fatalf("review with both text fields empty must not appear")
		}
	}
}

func TestParse_MalformedInputsDegradeToEmpty(t *testing.T) {
	for _, page := range []string{
		"",
		"<html><body><p>no scripts</p></body></html>",
		`<html><script>[1,2,3]</script></html>`,
		`<html><script>"just a string"</script></html>`,
		`<html><script>{{{</script></html>`,
	} {
		nodes, users := Parse(page)
		if len(nodes) != 0 || len(users) != 0 {
			t.Fatalf("page %q: expected empty result, got %d nodes %d users", page, len(nodes), len(users))
		}
	}
}

func TestResolve_JoinsAndDefaultsToEmpty(t *testing.T) {
	nodes := []Node{
		{ID: "a", AuthorRef: "u1", Text: "hi"},
		{ID: "b", AuthorRef: "nope", Text: "yo"},
	}
	out := Resolve(nodes, Users{"u1": "Amy"})
	if len(out) != 2 {
		t.Fatalf("expected 2 resolved reviews, got %d", len(out))
	}
	if out[0].Reviewer != "Amy" {
		t.Fatalf("expected resolved reviewer Amy, got %q", out[0].Reviewer)
	}
	if out[1].Reviewer != "" {
		t.Fatalf("unknown author must resolve to empty string, got %q", out[1].Reviewer)
	}
}

func TestParse_EntitiesUnescapedBeforeParsing(t *testing.T) {
	page := `<html><script>{&quot;User:u9&quot;: {&quot;__typename&quot;: &quot;User&quot;, &quot;displayName&quot;: &quot;Bob&quot;}}</script></html>`
	_, users := Parse(page)
	if users["u9"] != "Bob" {
		t.Fatalf("expected entity-escaped payload to parse, got %v", users)
	}
}
