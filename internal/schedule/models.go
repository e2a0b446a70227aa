// Package schedule implements the posting-time computation pipeline: raw
// engagement events are normalized into per-weekday engagement records,
// ranked into time candidates, backfilled from the default catalog, and the
// completed 7-day schedule is written to the save-schedule API.
//
// The pipeline is a pure function of (account id, events); it holds no
// cross-invocation state other than the read-only DefaultCatalog.
package schedule

// AccountIDSuffix marks twitter-backed account identifiers on the wire.
// It is stripped before any lookup and re-appended on the outgoing schedule.
const AccountIDSuffix = "-tw"

// SlotsPerDay is the maximum number of posting times kept per weekday.
const SlotsPerDay = 50

// dayNames maps weekday index (Monday=0 .. Sunday=6) to wire day names.
var dayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// RawEvent is one engagement event as delivered by the timeline API or the
// event store.
type RawEvent struct {
	ID            int64  `json:"id"`
	CreatedAt     string `json:"created_at"`
	FavoriteCount int64  `json:"favorite_count"`
	RetweetCount  int64  `json:"retweet_count"`
}

// EngagementScore is the weighted popularity proxy for one event.
// Favorites dominate: one favorite counts as much as 100 retweets.
func (e RawEvent) EngagementScore() float64 {
	return float64(e.RetweetCount) + float64(e.FavoriteCount)*100
}

// EngagementRecord is the normalized form of one event: the local posting
// time decomposed into weekday/hour/minute plus the engagement score.
// Records are immutable once created and owned by the pipeline invocation
// that produced them.
type EngagementRecord struct {
	Weekday    int // 0=Monday .. 6=Sunday
	Hour       int
	Minute     int
	Engagement float64
}

// DaySchedule holds the ordered posting times for one weekday.
// Times use the unpadded "H:MM" rendering ("9:5" for 09:05); the format is
// load-bearing for the save-schedule API and must not be changed.
type DaySchedule struct {
	Day   string   `json:"day"`
	Times []string `json:"times"`
}

// CompleteSchedule is the wire shape sent to the save-schedule API.
// After completion it holds exactly one DaySchedule per weekday.
type CompleteSchedule struct {
	AuthUID string        `json:"authUid"`
	Days    []DaySchedule `json:"completeSchedule"`
	Source  string        `json:"source"`
}

// DefaultCatalog is the fixed fallback catalog used to backfill incomplete
// schedules: 50 time slots spread over the day, ordered by historical
// engagement priors. Read-only; never mutated after initialization.
var DefaultCatalog = []string{
	"18:00", "10:45", "17:15", "11:40", "22:10",
	"09:50", "20:20", "08:55", "21:15", "19:25",
	"12:00", "23:05", "07:05", "16:10", "13:35",
	"06:50", "14:55", "05:20", "15:30", "00:30",
	"01:10", "10:20", "17:45", "11:15", "22:30",
	"09:35", "20:40", "08:25", "21:50", "19:05",
	"18:35", "02:15", "15:05", "04:45", "13:15",
	"03:25", "16:40", "14:20", "23:35", "12:25",
	"19:45", "21:30", "08:15", "20:55", "09:10",
	"22:45", "11:50", "17:25", "10:00", "18:55",
}
