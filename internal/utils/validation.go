package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// ValidateShift 在班次被交给事件存储之前进行校验
func ValidateShift(shift *domain.Shift) error {
	if strings.TrimSpace(shift.Title) == "" {
		return errors.New("班次标题不能为空")
	}

	if _, err := time.Parse(domain.DateLayout, shift.Date); err != nil {
		return fmt.Errorf("班次日期 %q 格式错误", shift.Date)
	}

	// 开始时间和结束时间各自校验格式即可，
	// 不约束结束时间必须晚于开始时间（跨天班次按原样接受）
	if _, err := time.Parse(domain.TimeLayout, shift.StartTime); err != nil {
		return fmt.Errorf("班次开始时间 %q 格式错误", shift.StartTime)
	}
	if _, err := time.Parse(domain.TimeLayout, shift.EndTime); err != nil {
		return fmt.Errorf("班次结束时间 %q 格式错误", shift.EndTime)
	}

	if shift.Kind != domain.EventKindPlanning {
		return fmt.Errorf("事件类型 %q 不是排班班次", shift.Kind)
	}

	return nil
}
