package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeRangeRoundTrip(t *testing.T) {
	testCases := []struct {
		startTime string
		endTime   string
	}{
		{startTime: "09:00", endTime: "17:00"},
		{startTime: "00:00", endTime: "23:59"},
		{startTime: "22:00", endTime: "06:00"}, // 跨天班次
	}

	for _, tc := range testCases {
		startTime, endTime := SplitTimeRange(FormatTimeRange(tc.startTime, tc.endTime))

		require.Equal(t, tc.startTime, startTime)
		require.Equal(t, tc.endTime, endTime)
	}
}

func TestSplitTimeRangeFallback(t *testing.T) {
	// 缺少分隔符时返回回退时间段
	for _, timeRange := range []string{"", "09:00", "09:00-17:00", "全天"} {
		startTime, endTime := SplitTimeRange(timeRange)

		require.Equal(t, FallbackStartTime, startTime, "timeRange=%q", timeRange)
		require.Equal(t, FallbackEndTime, endTime, "timeRange=%q", timeRange)
	}
}

func TestShiftTimeRange(t *testing.T) {
	shift := &Shift{StartTime: "09:00", EndTime: "13:00"}

	require.Equal(t, "09:00 - 13:00", shift.TimeRange())
}

func TestShiftClone(t *testing.T) {
	assignedTo := int64(7)
	shift := &Shift{
		ID:         1,
		Kind:       EventKindPlanning,
		Title:      "早班",
		Date:       "2024-03-04",
		StartTime:  "09:00",
		EndTime:    "13:00",
		Color:      "#3498db",
		AssignedTo: &assignedTo,
	}

	clone := shift.Clone()
	require.Equal(t, shift, clone)

	// 副本完全独立，修改副本不影响原值
	clone.Title = "晚班"
	*clone.AssignedTo = 99

	require.Equal(t, "早班", shift.Title)
	require.Equal(t, int64(7), *shift.AssignedTo)
}

func TestShiftCloneUnassigned(t *testing.T) {
	shift := &Shift{ID: 1, Title: "早班"}

	clone := shift.Clone()

	require.Nil(t, clone.AssignedTo)
}
