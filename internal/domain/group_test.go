package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logAt(date string, start time.Time) Log {
	return Log{
		ID:           start.Format(time.RFC3339),
		Date:         date,
		StartTime:    start,
		EndTime:      start.Add(30 * time.Minute),
		ActivityType: ActivityWork,
		Description:  "entry",
		Source:       SourceWeb,
	}
}

func TestGroupByDay_OrdersDatesAndStartTimes(t *testing.T) {
	logs := []Log{
		logAt("2024-01-02", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		logAt("2024-01-01", time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)),
		logAt("2024-01-01", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)),
	}

	groups := GroupByDay(logs)
	require.Len(t, groups, 2)

	assert.Equal(t, "2024-01-01", groups[0].Date)
	assert.Equal(t, "2024-01-02", groups[1].Date)

	require.Len(t, groups[0].Logs, 2)
	assert.Equal(t, 8, groups[0].Logs[0].StartTime.Hour())
	assert.Equal(t, 14, groups[0].Logs[1].StartTime.Hour())
}

func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil))
}

func TestGroupByDay_DoesNotMutateInput(t *testing.T) {
	first := logAt("2024-01-01", time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC))
	second := logAt("2024-01-01", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	logs := []Log{first, second}

	GroupByDay(logs)

	assert.Equal(t, first.ID, logs[0].ID, "input order should be preserved")
	assert.Equal(t, second.ID, logs[1].ID)
}
