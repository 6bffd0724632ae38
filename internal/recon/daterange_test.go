package recon

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", s)
	}
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}

func TestRangeContains(t *testing.T) {
	from := mustDate(t, "2024-03-01")
	to := mustDate(t, "2024-03-31")
	rng := Range{From: &from, To: &to}

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"late on the to day", "2024-03-31T23:00:00Z", true},
		{"first second of next day", "2024-04-01T00:00:01Z", false},
		{"start of window", "2024-03-01T00:00:00Z", true},
		{"day before window", "2024-02-29T23:59:59Z", false},
		{"mid window", "2024-03-15T12:00:00Z", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rng.Contains(mustDate(t, tt.date)); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestRangeOpenBounds(t *testing.T) {
	to := mustDate(t, "2024-03-31")
	onlyTo := Range{To: &to}
	if !onlyTo.Contains(mustDate(t, "1999-01-01")) {
		t.Error("open From bound should admit any earlier date")
	}
	if onlyTo.Contains(mustDate(t, "2024-04-02")) {
		t.Error("To bound should still be enforced")
	}

	from := mustDate(t, "2024-03-01")
	onlyFrom := Range{From: &from}
	if !onlyFrom.Contains(mustDate(t, "2030-01-01")) {
		t.Error("open To bound should admit any later date")
	}

	if !(Range{}).Contains(mustDate(t, "2024-01-01")) {
		t.Error("fully open range should admit everything")
	}
	if !(Range{}).IsOpen() {
		t.Error("IsOpen on empty range")
	}
}

func TestParseRangeBadBounds(t *testing.T) {
	r := ParseRange("garbage", "2024-03-31")
	if r.From != nil {
		t.Error("unparseable from should be treated as absent")
	}
	if r.To == nil {
		t.Error("valid to should be set")
	}
}
