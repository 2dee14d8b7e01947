package planning

import (
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// ErrNothingToCopy 表示来源周中没有任何班次，复制操作不会产生写入
var ErrNothingToCopy = errors.New("上一周没有可复制的班次")

// DuplicateWeek 把目标周前一周（targetWeekStart 往前 7 天的完整一周）的所有班次
// 向后平移 7 天，生成内容相同的新班次。选择只是对已有集合的纯过滤，不会读取事件存储。
func DuplicateWeek(shifts []*domain.Shift, targetWeekStart time.Time) ([]*domain.Shift, error) {
	targetWeekStart = WeekStart(targetWeekStart)
	sourceWeekStart := targetWeekStart.AddDate(0, 0, -7)

	duplicated := make([]*domain.Shift, 0)
	for _, shift := range shifts {
		date, err := shift.ParseDate()
		if err != nil {
			continue
		}
		if date.Before(sourceWeekStart) || !date.Before(targetWeekStart) {
			continue
		}

		clone := shift.Clone()
		clone.ID = 0
		clone.Date = date.AddDate(0, 0, 7).Format(domain.DateLayout)
		duplicated = append(duplicated, clone)
	}

	if len(duplicated) == 0 {
		return nil, ErrNothingToCopy
	}

	return duplicated, nil
}
