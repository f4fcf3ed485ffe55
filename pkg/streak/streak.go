// Package streak computes consecutive-day journaling streaks from entry
// timestamps. Calculation is pure: the same entries, clock, and location
// always produce the same summary.
package streak

import (
	"sort"
	"time"
)

type Summary struct {
	Current int
	Longest int
	// LastEntryDate is the most recent calendar day with an entry, zero if
	// there are no entries.
	LastEntryDate time.Time
}

// Calculate reduces entry timestamps to distinct calendar days in loc and
// walks them newest-first. The current streak only counts if the newest day
// is today or yesterday; the longest streak is the longest consecutive run
// anywhere in the history. Days are the device's local calendar days, not
// UTC, so an evening's entries never split across two days.
func Calculate(entryTimes []time.Time, now time.Time, loc *time.Location) Summary {
	if loc == nil {
		loc = time.Local
	}

	seen := make(map[string]struct{}, len(entryTimes))
	days := make([]time.Time, 0, len(entryTimes))
	for _, t := range entryTimes {
		if t.IsZero() {
			continue
		}
		d := dateOnly(t.In(loc))
		key := d.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return Summary{}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := dateOnly(now.In(loc))
	yesterday := today.AddDate(0, 0, -1)

	current := 0
	if days[0].Equal(today) || days[0].Equal(yesterday) {
		current = 1
		for i := 1; i < len(days); i++ {
			if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
				break
			}
			current++
		}
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}

	return Summary{Current: current, Longest: longest, LastEntryDate: days[0]}
}

// ParseTimes parses ISO timestamps, skipping malformed values rather than
// failing the whole calculation.
func ParseTimes(values []string) []time.Time {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		for _, layout := range layouts {
			t, err := time.Parse(layout, v)
			if err == nil {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
