package source

import "testing"

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-05", true},
		{"01/05/2025", true},
		{"1/5/2025", true},
		{"01/05/25", true},
		{"2025-01-05 13:45:00", true},
		{"2025-01-05T13:45:00Z", true},
		{"", false},
		{"Jan 5", false},
	}
	for _, tc := range cases {
		if _, ok := ParseDate(tc.in); ok != tc.ok {
			t.Fatalf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestParseDateTruncatesToUTCDate(t *testing.T) {
	d, ok := ParseDate("2025-01-05 13:45:00")
	if !ok {
		t.Fatal("parse failed")
	}
	if d.Hour() != 0 || d.Location().String() != "UTC" {
		t.Fatalf("not truncated: %v", d)
	}
}
