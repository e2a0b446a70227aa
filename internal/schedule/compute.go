package schedule

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Compute derives the per-weekday ranked time candidates for one account.
//
// The engagement scores are normalized by the score range over the entire
// record set (x / (max-min), deliberately without subtracting the minimum;
// the save-schedule consumer depends on the historical behavior). Records
// are then bucketed by weekday, ranked within each bucket by normalized
// score descending with ties broken by input order, and the top 50 per
// bucket are rendered as "H:MM" strings in rank order. Weekdays with no
// records are omitted and left for Complete.
//
// An empty record set is a defined terminal case: the result carries zero
// day entries and no error.
func Compute(accountID int64, records []EngagementRecord) CompleteSchedule {
	out := CompleteSchedule{
		AuthUID: WithSuffix(accountID),
		Days:    []DaySchedule{},
		Source:  "internal",
	}
	if len(records) == 0 {
		return out
	}

	scores := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = rec.Engagement
	}

	// Range normalization. When every score is equal the range is zero and
	// the division is degenerate; the scores are left untouched in that case
	// so that every record ties and input order alone decides rank. Either
	// way the division never changes relative order, but the normalized
	// values are what the ranking is defined over, so it stays literal.
	normalized := scores
	if scoreRange := floats.Max(scores) - floats.Min(scores); scoreRange != 0 {
		normalized = make([]float64, len(scores))
		for i, s := range scores {
			normalized[i] = s / scoreRange
		}
	}

	// Partition record indices into weekday buckets, preserving input order.
	var buckets [7][]int
	for i, rec := range records {
		buckets[rec.Weekday] = append(buckets[rec.Weekday], i)
	}

	for day, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		// Rank 1..N by normalized score descending; the stable sort keeps
		// earlier-appearing records ahead on ties.
		ranked := append([]int(nil), bucket...)
		sort.SliceStable(ranked, func(a, b int) bool {
			return normalized[ranked[a]] > normalized[ranked[b]]
		})
		if len(ranked) > SlotsPerDay {
			ranked = ranked[:SlotsPerDay]
		}

		times := make([]string, len(ranked))
		for i, idx := range ranked {
			times[i] = formatTime(records[idx].Hour, records[idx].Minute)
		}
		out.Days = append(out.Days, DaySchedule{Day: dayNames[day], Times: times})
	}
	return out
}

// formatTime renders a time slot in the unpadded "H:MM" wire format,
// e.g. "9:5" for 09:05.
func formatTime(hour, minute int) string {
	return fmt.Sprintf("%d:%d", hour, minute)
}
