package streak_test

import (
	"testing"
	"time"

	"github.com/TeamUpswell/wgw/pkg/streak"
)

var utc = time.UTC

// now is fixed so tests are deterministic.
var now = time.Date(2026, 8, 20, 15, 0, 0, 0, utc)

func day(offset int, hour int) time.Time {
	return time.Date(2026, 8, 20+offset, hour, 0, 0, 0, utc)
}

func TestCalculateEmpty(t *testing.T) {
	got := streak.Calculate(nil, now, utc)
	if got.Current != 0 || got.Longest != 0 {
		t.Fatalf("expected {0,0}, got {%d,%d}", got.Current, got.Longest)
	}
	if !got.LastEntryDate.IsZero() {
		t.Fatalf("expected zero last entry date, got %v", got.LastEntryDate)
	}
}

func TestCalculateSingleDay(t *testing.T) {
	tests := []struct {
		name        string
		entries     []time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "several entries today count once",
			entries:     []time.Time{day(0, 8), day(0, 12), day(0, 22)},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "entries yesterday still current",
			entries:     []time.Time{day(-1, 9), day(-1, 21)},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "entries two days ago are stale",
			entries:     []time.Time{day(-2, 9)},
			wantCurrent: 0,
			wantLongest: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := streak.Calculate(tc.entries, now, utc)
			if got.Current != tc.wantCurrent || got.Longest != tc.wantLongest {
				t.Fatalf("got {%d,%d}, want {%d,%d}", got.Current, got.Longest, tc.wantCurrent, tc.wantLongest)
			}
		})
	}
}

func TestCalculateConsecutiveRunEndingToday(t *testing.T) {
	entries := []time.Time{day(-2, 7), day(-1, 19), day(0, 10)}
	got := streak.Calculate(entries, now, utc)
	if got.Current != 3 || got.Longest != 3 {
		t.Fatalf("got {%d,%d}, want {3,3}", got.Current, got.Longest)
	}
}

func TestCalculateGapUsesMostRecentRun(t *testing.T) {
	// Days -7,-6 then a gap, then -3..0 with day 0 = today. The current
	// streak must come from the most recent run.
	entries := []time.Time{
		day(-7, 9), day(-6, 9),
		day(-3, 9), day(-2, 9), day(-1, 9), day(0, 9),
	}
	got := streak.Calculate(entries, now, utc)
	if got.Current != 4 || got.Longest != 4 {
		t.Fatalf("got {%d,%d}, want {4,4}", got.Current, got.Longest)
	}
}

func TestCalculateLongestOutlivesCurrent(t *testing.T) {
	// A five-day run in the past, a two-day run ending today.
	entries := []time.Time{
		day(-10, 9), day(-9, 9), day(-8, 9), day(-7, 9), day(-6, 9),
		day(-1, 9), day(0, 9),
	}
	got := streak.Calculate(entries, now, utc)
	if got.Current != 2 {
		t.Fatalf("current = %d, want 2", got.Current)
	}
	if got.Longest != 5 {
		t.Fatalf("longest = %d, want 5", got.Longest)
	}
	if got.Longest < got.Current {
		t.Fatalf("longest %d < current %d", got.Longest, got.Current)
	}
}

func TestCalculateFiveConsecutiveDays(t *testing.T) {
	var entries []time.Time
	for offset := -4; offset <= 0; offset++ {
		entries = append(entries, day(offset, 20))
	}
	got := streak.Calculate(entries, now, utc)
	if got.Current != 5 || got.Longest != 5 {
		t.Fatalf("got {%d,%d}, want {5,5}", got.Current, got.Longest)
	}
	if want := time.Date(2026, 8, 20, 0, 0, 0, 0, utc); !got.LastEntryDate.Equal(want) {
		t.Fatalf("last entry date = %v, want %v", got.LastEntryDate, want)
	}
}

func TestCalculateLocalDayBoundary(t *testing.T) {
	// Two entries 60 minutes apart straddle midnight in the device zone but
	// fall on the same UTC day. They must count as two local days.
	loc := time.FixedZone("UTC+2", 2*60*60)
	entries := []time.Time{
		time.Date(2026, 8, 19, 23, 30, 0, 0, loc),
		time.Date(2026, 8, 20, 0, 30, 0, 0, loc),
	}
	localNow := time.Date(2026, 8, 20, 9, 0, 0, 0, loc)
	got := streak.Calculate(entries, localNow, loc)
	if got.Current != 2 || got.Longest != 2 {
		t.Fatalf("got {%d,%d}, want {2,2}", got.Current, got.Longest)
	}
}

func TestParseTimesSkipsMalformed(t *testing.T) {
	values := []string{
		"2026-08-20T10:00:00Z",
		"not-a-timestamp",
		"2026-08-19T09:30:00",
		"",
	}
	got := streak.ParseTimes(values)
	if len(got) != 2 {
		t.Fatalf("parsed %d timestamps, want 2", len(got))
	}
}
