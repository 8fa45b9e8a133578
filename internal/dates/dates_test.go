package dates

import "testing"

func TestParseKnownFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"6/1/2007 2:58:08 PM", "2007-06-01T14:58:08"},
		{"6/1/2007 14:58:08", "2007-06-01T14:58:08"},
		{"6/1/2007 2:58 PM", "2007-06-01T14:58:00"},
		{"12/31/1999", "1999-12-31T00:00:00"},
		{"2007-06-01", "2007-06-01T00:00:00"},
		{"2007/06/01", "2007-06-01T00:00:00"},
		{"2007-06-01T14:58:08", "2007-06-01T14:58:08"},
		{"2007-06-01T14:58:08Z", "2007-06-01T14:58:08"},
		{" 6/1/2007 2:58:08 PM ", "2007-06-01T14:58:08"},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not a date", "13/45/2007", "book 123 page 4"} {
		if got, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) = %q, expected error", in, got)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	earliest, err := ParseTime("1/1/1913")
	if err != nil {
		t.Fatalf("ParseTime error: %v", err)
	}
	latest, err := ParseTime("6/1/2007 2:58:08 PM")
	if err != nil {
		t.Fatalf("ParseTime error: %v", err)
	}
	if !earliest.Before(latest) {
		t.Fatalf("expected %s before %s", earliest, latest)
	}
}
