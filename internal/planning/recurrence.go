package planning

import (
	"fmt"
	"iter"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// WeeklyOccurrences 以 7 天为步长从 start 生成班次实例，直到步进日期超过 end 为止。
// 序列是惰性、有限且可重放的；当 start <= end 时序列总是包含 start 当天，
// end 早于 start 时序列为空。每个实例都是模板的独立副本。
func WeeklyOccurrences(template *domain.Shift, start time.Time, end time.Time) iter.Seq[*domain.Shift] {
	return func(yield func(*domain.Shift) bool) {
		for date := start; !date.After(end); date = date.AddDate(0, 0, 7) {
			occurrence := template.Clone()
			occurrence.ID = 0
			occurrence.Date = date.Format(domain.DateLayout)
			if !yield(occurrence) {
				return
			}
		}
	}
}

// ExpandWeekly 把模板按周展开成具体的班次切片，
// 起始日期取模板自身的日期，endDate 为闭区间的结束日期
func ExpandWeekly(template *domain.Shift, endDate string) ([]*domain.Shift, error) {
	start, err := template.ParseDate()
	if err != nil {
		return nil, fmt.Errorf("模板日期 %q 格式错误", template.Date)
	}

	end, err := time.Parse(domain.DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("重复结束日期 %q 格式错误", endDate)
	}

	shifts := make([]*domain.Shift, 0)
	for occurrence := range WeeklyOccurrences(template, start, end) {
		shifts = append(shifts, occurrence)
	}

	return shifts, nil
}
