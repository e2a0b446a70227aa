package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts lists the created_at representations the timeline API and
// the event store are known to emit. Parsing is timezone-naive: the recorded
// local components are used as-is.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",            // event store / normalized timeline
	"Mon Jan 02 15:04:05 -0700 2006", // raw timeline created_at
	time.RFC3339,
}

// ParseAccountID resolves an account identifier to its numeric form.
// An identifier with the "-tw" suffix is equivalent to the bare numeric id;
// the suffix is stripped before any lookup.
func ParseAccountID(authUID string) (int64, error) {
	trimmed := strings.TrimSuffix(authUID, AccountIDSuffix)
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccountID, authUID)
	}
	return id, nil
}

// WithSuffix renders a numeric account id in its wire form.
func WithSuffix(accountID int64) string {
	return strconv.FormatInt(accountID, 10) + AccountIDSuffix
}

// Normalize converts raw engagement events into engagement records, one
// record per event, preserving input order. A timestamp that fails to parse
// aborts the whole call with ErrMalformedTimestamp rather than silently
// dropping the record. Missing favorite/retweet counts are zero-valued.
func Normalize(accountID int64, events []RawEvent) ([]EngagementRecord, error) {
	records := make([]EngagementRecord, 0, len(events))
	for i, ev := range events {
		ts, err := parseTimestamp(ev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: account %d event %d (%q)", ErrMalformedTimestamp, accountID, i, ev.CreatedAt)
		}
		records = append(records, EngagementRecord{
			Weekday:    mondayIndexed(ts.Weekday()),
			Hour:       ts.Hour(),
			Minute:     ts.Minute(),
			Engagement: ev.EngagementScore(),
		})
	}
	return records, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// mondayIndexed converts Go's Sunday-first weekday to the Monday=0 indexing
// used throughout the pipeline.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
