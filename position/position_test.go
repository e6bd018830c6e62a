package position

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		label string
		row   int
		col   int
	}{
		{"A1", 0, 0},
		{"B2", 1, 1},
		{"Z1", 0, 25},
		{"AA1", 0, 26},
		{"AZ10", 9, 51},
	}
	for _, c := range cases {
		pos, err := Parse(c.label)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", c.label, err)
		}
		if !pos.IsValid() {
			t.Fatalf("Parse(%q) produced an invalid position", c.label)
		}
		if pos.Row() != c.row || pos.Col() != c.col {
			t.Errorf("Parse(%q) = (%d,%d), want (%d,%d)", c.label, pos.Row(), pos.Col(), c.row, c.col)
		}
		label, ok := Format(pos)
		if !ok || label != c.label {
			t.Errorf("Format(Parse(%q)) = %q, want %q", c.label, label, c.label)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{"", "1A", "A", "a1", "A01", "AAAA1", "A123456", "A1A", "A1 "}
	for _, s := range bad {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) expected an error, got none", s)
		}
	}
}

func TestParseOutOfRangeIsInvalidNotError(t *testing.T) {
	pos, err := Parse("ZZZ99999")
	if err != nil {
		t.Fatalf("Parse of a syntactically legal but out-of-range label must not error, got %v", err)
	}
	if pos.IsValid() {
		t.Fatalf("expected an invalid position for ZZZ99999")
	}
	if pos != Invalid {
		t.Errorf("out-of-range positions must canonicalize to Invalid, got %+v", pos)
	}
}

func TestInvalidSentinelEquality(t *testing.T) {
	a, _ := Parse("ZZZ99999")
	b, _ := Parse("ZZA88888")
	if a != b {
		t.Errorf("two distinct out-of-range positions must compare equal via the canonical sentinel")
	}
	if a != Invalid || b != Invalid {
		t.Errorf("out-of-range positions must equal the exported Invalid value")
	}
}

func TestLess(t *testing.T) {
	a1, _ := Parse("A1")
	b1, _ := Parse("B1")
	a2, _ := Parse("A2")
	if !a1.Less(b1) {
		t.Errorf("A1 should sort before B1")
	}
	if !a1.Less(a2) {
		t.Errorf("A1 should sort before A2")
	}
	if !a1.Less(Invalid) {
		t.Errorf("a valid position should sort before Invalid")
	}
	if Invalid.Less(a1) {
		t.Errorf("Invalid must sort last, never before a valid position")
	}
}

func TestSizeEmpty(t *testing.T) {
	if !(Size{}).Empty() {
		t.Errorf("zero Size should be empty")
	}
	if (Size{Rows: 1, Cols: 1}).Empty() {
		t.Errorf("(1,1) should not be empty")
	}
}
