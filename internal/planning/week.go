package planning

import (
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// WeekStart 把任意时刻归一到其所在周的周一（零点）
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	// time.Sunday 为 0，但排班表以周一作为一周的第一天
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return day.AddDate(0, 0, -(weekday - 1))
}

// WeekDates 返回从周起始日开始的连续 7 天日期
func WeekDates(weekStart time.Time) [7]string {
	var dates [7]string
	for i := range dates {
		dates[i] = weekStart.AddDate(0, 0, i).Format(domain.DateLayout)
	}
	return dates
}
