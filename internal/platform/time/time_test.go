package time

import (
	"testing"
	stdtime "time"
)

func TestRFC3339NormalizesToUTC(t *testing.T) {
	loc := stdtime.FixedZone("UTC+2", 2*60*60)
	in := stdtime.Date(2026, 3, 14, 15, 9, 26, 0, loc)

	got := RFC3339(in)
	want := "2026-03-14T13:09:26Z"
	if got != want {
		t.Fatalf("RFC3339(%v) = %q, want %q", in, got, want)
	}
}

func TestNowRFC3339ParsesBack(t *testing.T) {
	got := NowRFC3339()
	ts, err := stdtime.Parse(stdtime.RFC3339, got)
	if err != nil {
		t.Fatalf("NowRFC3339() = %q, not RFC 3339: %v", got, err)
	}
	if ts.Location() != stdtime.UTC {
		t.Fatalf("NowRFC3339() zone = %v, want UTC", ts.Location())
	}
}
