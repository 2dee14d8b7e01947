package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

func mustParseDate(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateLayout, date)
	require.NoError(t, err)
	return parsed
}

func TestDuplicateWeekScenario(t *testing.T) {
	employee := int64(1)
	shifts := []*domain.Shift{
		{
			ID:         7,
			Kind:       domain.EventKindPlanning,
			Title:      "早班",
			Date:       "2024-03-05",
			StartTime:  "09:00",
			EndTime:    "13:00",
			Color:      "#3498db",
			AssignedTo: &employee,
		},
	}

	duplicated, err := DuplicateWeek(shifts, mustParseDate(t, "2024-03-11"))
	require.NoError(t, err)

	require.Len(t, duplicated, 1)
	clone := duplicated[0]
	require.Equal(t, "2024-03-12", clone.Date)
	require.Equal(t, "早班", clone.Title)
	require.Equal(t, "09:00", clone.StartTime)
	require.Equal(t, "13:00", clone.EndTime)
	require.Equal(t, "#3498db", clone.Color)
	require.Equal(t, employee, *clone.AssignedTo)
	require.Zero(t, clone.ID) // 新班次还没有持久化，不应该带着来源班次的 ID
}

func TestDuplicateWeekSelectsExactlySourceWindow(t *testing.T) {
	shifts := []*domain.Shift{
		{ID: 1, Title: "太早", Date: "2024-03-03", StartTime: "09:00", EndTime: "10:00"},  // 来源周之前的周日
		{ID: 2, Title: "来源一", Date: "2024-03-04", StartTime: "09:00", EndTime: "10:00"}, // 来源周周一
		{ID: 3, Title: "来源二", Date: "2024-03-10", StartTime: "09:00", EndTime: "10:00"}, // 来源周周日
		{ID: 4, Title: "目标周", Date: "2024-03-11", StartTime: "09:00", EndTime: "10:00"}, // 目标周周一
	}

	duplicated, err := DuplicateWeek(shifts, mustParseDate(t, "2024-03-11"))
	require.NoError(t, err)

	require.Len(t, duplicated, 2)
	require.Equal(t, "2024-03-11", duplicated[0].Date)
	require.Equal(t, "来源一", duplicated[0].Title)
	require.Equal(t, "2024-03-17", duplicated[1].Date)
	require.Equal(t, "来源二", duplicated[1].Title)
}

func TestDuplicateWeekNormalizesTargetAnchor(t *testing.T) {
	shifts := []*domain.Shift{
		{ID: 1, Title: "早班", Date: "2024-03-05", StartTime: "09:00", EndTime: "13:00"},
	}

	// 目标锚点给的是周三，仍然应该按包含它的那一周处理
	duplicated, err := DuplicateWeek(shifts, mustParseDate(t, "2024-03-13"))
	require.NoError(t, err)

	require.Len(t, duplicated, 1)
	require.Equal(t, "2024-03-12", duplicated[0].Date)
}

func TestDuplicateWeekNothingToCopy(t *testing.T) {
	shifts := []*domain.Shift{
		{ID: 1, Title: "别的周", Date: "2024-01-01", StartTime: "09:00", EndTime: "13:00"},
	}

	_, err := DuplicateWeek(shifts, mustParseDate(t, "2024-03-11"))
	require.ErrorIs(t, err, ErrNothingToCopy)
}

func TestDuplicateWeekDoesNotMutateInput(t *testing.T) {
	shifts := []*domain.Shift{
		{ID: 1, Title: "早班", Date: "2024-03-05", StartTime: "09:00", EndTime: "13:00"},
	}

	duplicated, err := DuplicateWeek(shifts, mustParseDate(t, "2024-03-11"))
	require.NoError(t, err)

	duplicated[0].Title = "改过的标题"
	require.Equal(t, "早班", shifts[0].Title)
	require.Equal(t, "2024-03-05", shifts[0].Date)
}
