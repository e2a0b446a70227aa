package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountID(t *testing.T) {
	id, err := ParseAccountID("19900726-tw")
	require.NoError(t, err)
	assert.Equal(t, int64(19900726), id)

	id, err = ParseAccountID("19900726")
	require.NoError(t, err)
	assert.Equal(t, int64(19900726), id)

	_, err = ParseAccountID("not-an-id")
	assert.ErrorIs(t, err, ErrInvalidAccountID)

	_, err = ParseAccountID("")
	assert.ErrorIs(t, err, ErrInvalidAccountID)
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "19900726-tw", WithSuffix(19900726))
}

func TestNormalize_ProducesOneRecordPerEvent(t *testing.T) {
	events := []RawEvent{
		// 2016-03-28 was a Monday.
		{ID: 3, CreatedAt: "2016-03-28 13:06:02", FavoriteCount: 2, RetweetCount: 5},
		{ID: 2, CreatedAt: "2016-03-27 09:05:00", FavoriteCount: 0, RetweetCount: 1},
		{ID: 1, CreatedAt: "2016-03-26 23:59:59"},
	}

	records, err := Normalize(19900726, events)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, EngagementRecord{Weekday: 0, Hour: 13, Minute: 6, Engagement: 205}, records[0])
	assert.Equal(t, EngagementRecord{Weekday: 6, Hour: 9, Minute: 5, Engagement: 1}, records[1])
	// Missing counts default to zero.
	assert.Equal(t, EngagementRecord{Weekday: 5, Hour: 23, Minute: 59, Engagement: 0}, records[2])
}

func TestNormalize_AcceptsRawTimelineTimestamps(t *testing.T) {
	events := []RawEvent{
		{ID: 1, CreatedAt: "Mon Mar 28 13:06:02 +0000 2016", FavoriteCount: 1},
	}

	records, err := Normalize(1, events)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Weekday)
	assert.Equal(t, 13, records[0].Hour)
	assert.Equal(t, float64(100), records[0].Engagement)
}

func TestNormalize_MalformedTimestampAbortsCall(t *testing.T) {
	events := []RawEvent{
		{ID: 2, CreatedAt: "2016-03-28 13:06:02"},
		{ID: 1, CreatedAt: "yesterday-ish"},
	}

	records, err := Normalize(1, events)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestNormalize_EmptyInput(t *testing.T) {
	records, err := Normalize(1, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMondayIndexed(t *testing.T) {
	assert.Equal(t, 0, mondayIndexed(time.Monday))
	assert.Equal(t, 5, mondayIndexed(time.Saturday))
	assert.Equal(t, 6, mondayIndexed(time.Sunday))
}

func TestEngagementScore_FavoritesWeighted(t *testing.T) {
	ev := RawEvent{FavoriteCount: 3, RetweetCount: 7}
	assert.Equal(t, float64(307), ev.EngagementScore())
}
