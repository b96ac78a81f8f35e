package normalize

import "testing"

func TestWhitespace_CollapsesRuns(t *testing.T) {
	got := Whitespace("  Great \n\t coffee,\r\n nice   staff  ")
	want := "Great coffee, nice staff"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWhitespace_EmptyInput(t *testing.T) {
	if got := Whitespace(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := Whitespace("   \n  "); got != "" {
		t.Fatalf("expected empty string for all-whitespace input, got %q", got)
	}
}

func TestUnescape_Idempotent(t *testing.T) {
	in := "Caf&eacute; &amp; Bar"
	once := Unescape(in)
	if once != "Café & Bar" {
		t.Fatalf("expected decoded text, got %q", once)
	}
	if twice := Unescape(once); twice != once {
		t.Fatalf("unescape not idempotent: %q vs %q", twice, once)
	}
}

func TestRatingFromLabel(t *testing.T) {
	cases := []struct {
		label string
		want  float64
		ok    bool
	}{
		{"4.5 star rating", 4.5, true},
		{"5 stars", 5, true},
		{"Rated 3 star rating out of 5", 3, true},
		{"3.5 Star Rating", 3.5, true},
		{"no rating here", 0, false},
		{"starred item", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got := RatingFromLabel(c.label)
		if c.ok {
			if got == nil || *got != c.want {
				t.Fatalf("label %q: expected %v, got %v", c.label, c.want, got)
			}
			continue
		}
		if got != nil {
			t.Fatalf("label %q: expected nil, got %v", c.label, *got)
		}
	}
}

func TestDate_TriesLayoutsInOrder(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2023-05-01T10:00:00Z", "2023-05-01"},
		{"2023-05-01T10:00:00+03:00", "2023-05-01"},
		{"2023-05-01T10:00:00", "2023-05-01"},
		{"2023-05-01", "2023-05-01"},
	}
	for _, c := range cases {
		if got := Date(c.in); got != c.want {
			t.Fatalf("Date(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestDate_ReturnsInputUnchangedOnFailure(t *testing.T) {
	for _, in := range []string{"May 1, 2023", "yesterday", "", "2023/05/01"} {
		if got := Date(in); got != in {
			t.Fatalf("Date(%q): expected input unchanged, got %q", in, got)
		}
	}
}
