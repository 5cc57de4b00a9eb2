package strings

import "testing"

func TestOr(t *testing.T) {
	if got := Or("  ", "정보없음"); got != "정보없음" {
		t.Fatalf("Or(blank) = %q", got)
	}
	if got := Or(" 대한항공 ", "정보없음"); got != "대한항공" {
		t.Fatalf("Or(value) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc…"},
		{"지연", 4, "지…"}, // 3-byte runes; cut backs off to a rune start
		{"x", 0, ""},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.n); got != c.want {
			t.Fatalf("Truncate(%q,%d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestSet(t *testing.T) {
	s := Set("NRT", " KIX ", "", "NRT")
	if len(s) != 2 {
		t.Fatalf("Set size = %d", len(s))
	}
	if _, ok := s["KIX"]; !ok {
		t.Fatalf("Set should trim members")
	}
}
