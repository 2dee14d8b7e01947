package handler

import (
	"fmt"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// ExportCalendar 把排班班次导出成 iCalendar 订阅源，
// 员工可以把它加入自己的日历软件
func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.repository.ListShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//crm-planning//排班表//CN")

	for _, shift := range shifts {
		start, err := time.ParseInLocation(domain.DateLayout+" "+domain.TimeLayout, shift.Date+" "+shift.StartTime, time.Local)
		if err != nil {
			continue
		}
		end, err := time.ParseInLocation(domain.DateLayout+" "+domain.TimeLayout, shift.Date+" "+shift.EndTime, time.Local)
		if err != nil {
			continue
		}
		// 结束时间在开始时间之前时按跨天班次处理
		if end.Before(start) {
			end = end.AddDate(0, 0, 1)
		}

		event := cal.AddEvent(fmt.Sprintf("shift-%d@crm-planning", shift.ID))
		event.SetCreatedTime(shift.CreatedAt)
		event.SetDtStampTime(shift.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(shift.Title)
		if shift.Description != "" {
			event.SetDescription(shift.Description)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="planning.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cal.Serialize()))
}
