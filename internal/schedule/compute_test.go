package schedule

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(weekday, hour, minute int, engagement float64) EngagementRecord {
	return EngagementRecord{Weekday: weekday, Hour: hour, Minute: minute, Engagement: engagement}
}

func TestCompute_EmptyInput(t *testing.T) {
	result := Compute(19900726, nil)

	assert.Equal(t, "19900726-tw", result.AuthUID)
	assert.Equal(t, "internal", result.Source)
	assert.NotNil(t, result.Days)
	assert.Empty(t, result.Days)

	// The empty terminal case has an exact wire shape.
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"authUid":"19900726-tw","completeSchedule":[],"source":"internal"}`, string(raw))
}

func TestCompute_RanksByScoreDescending(t *testing.T) {
	records := []EngagementRecord{
		rec(0, 9, 0, 5),
		rec(0, 10, 30, 100),
		rec(0, 11, 15, 50),
		rec(2, 23, 5, 7),
	}

	result := Compute(42, records)

	require.Len(t, result.Days, 2)
	assert.Equal(t, "mon", result.Days[0].Day)
	assert.Equal(t, []string{"10:30", "11:15", "9:0"}, result.Days[0].Times)
	assert.Equal(t, "wed", result.Days[1].Day)
	assert.Equal(t, []string{"23:5"}, result.Days[1].Times)
	assert.Equal(t, "42-tw", result.AuthUID)
}

func TestCompute_TiesKeepInputOrder(t *testing.T) {
	records := []EngagementRecord{
		rec(4, 8, 1, 10),
		rec(4, 8, 2, 10),
		rec(4, 8, 3, 99),
		rec(4, 8, 4, 10),
	}

	result := Compute(1, records)

	require.Len(t, result.Days, 1)
	assert.Equal(t, "fri", result.Days[0].Day)
	assert.Equal(t, []string{"8:3", "8:1", "8:2", "8:4"}, result.Days[0].Times)
}

func TestCompute_AllScoresEqual(t *testing.T) {
	// Zero score range makes the normalization degenerate; the documented
	// policy is that every record ties and input order decides rank.
	records := []EngagementRecord{
		rec(6, 12, 0, 3),
		rec(6, 13, 0, 3),
		rec(6, 14, 0, 3),
	}

	result := Compute(1, records)

	require.Len(t, result.Days, 1)
	assert.Equal(t, "sun", result.Days[0].Day)
	assert.Equal(t, []string{"12:0", "13:0", "14:0"}, result.Days[0].Times)
}

func TestCompute_KeepsTopFiftyPerDay(t *testing.T) {
	var records []EngagementRecord
	for i := 0; i < 60; i++ {
		records = append(records, rec(1, 8, i, float64(60-i)))
	}

	result := Compute(1, records)

	require.Len(t, result.Days, 1)
	require.Len(t, result.Days[0].Times, 50)
	for i := 0; i < 50; i++ {
		assert.Equal(t, fmt.Sprintf("8:%d", i), result.Days[0].Times[i])
	}
}

func TestCompute_UnpaddedTimeFormat(t *testing.T) {
	result := Compute(1, []EngagementRecord{rec(0, 9, 5, 1)})

	require.Len(t, result.Days, 1)
	assert.Equal(t, []string{"9:5"}, result.Days[0].Times)
}

func TestCompute_OmitsEmptyWeekdays(t *testing.T) {
	records := []EngagementRecord{
		rec(5, 18, 0, 2),
	}

	result := Compute(1, records)

	require.Len(t, result.Days, 1)
	assert.Equal(t, "sat", result.Days[0].Day)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0:0", formatTime(0, 0))
	assert.Equal(t, "9:5", formatTime(9, 5))
	assert.Equal(t, "23:59", formatTime(23, 59))
	assert.Equal(t, "18:0", formatTime(18, 0))
}
