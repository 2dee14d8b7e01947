package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/planning"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/repository"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/utils"
)

// demoShifts 是演示数据中一周的固定班次安排
var demoShifts = []struct {
	Title     string
	StartTime string
	EndTime   string
	Days      []int // 距周一的偏移
}{
	{Title: "早班", StartTime: "09:00", EndTime: "13:00", Days: []int{0, 1, 2, 3, 4}},
	{Title: "午班", StartTime: "13:00", EndTime: "17:00", Days: []int{0, 1, 2, 3, 4}},
	{Title: "晚班", StartTime: "17:00", EndTime: "21:00", Days: []int{0, 1, 2, 3, 4, 5}},
	{Title: "前台值班", StartTime: "10:00", EndTime: "16:00", Days: []int{5, 6}},
}

// SeedDemoData 生成一份可以直接打开排班表查看的演示数据：
// 一批员工、当前周的完整班次安排和一条持续四周的重复班次
func SeedDemoData(r *repository.Repository, emailDomain string) {
	// 先插入员工
	staff := make([]*domain.StaffMember, 0, 6)
	for i := 0; i < 6; i++ {
		member := utils.GenerateRandomStaffMember(emailDomain)
		if err := r.CreateStaffMember(member); err != nil {
			slog.Error("无法插入员工", slog.String("error", err.Error()))
			continue
		}
		staff = append(staff, member)
	}

	if len(staff) == 0 {
		slog.Error("没有成功插入任何员工，跳过班次生成")
		return
	}

	// 当前周的固定班次，轮流分配给各个员工，留出一部分未分配
	weekStart := planning.WeekStart(time.Now())
	shifts := make([]*domain.Shift, 0)
	next := 0

	for _, demo := range demoShifts {
		for _, day := range demo.Days {
			shift := &domain.Shift{
				Kind:      domain.EventKindPlanning,
				Title:     demo.Title,
				Date:      weekStart.AddDate(0, 0, day).Format(domain.DateLayout),
				StartTime: demo.StartTime,
				EndTime:   demo.EndTime,
			}

			if rand.Intn(5) != 0 {
				member := staff[next%len(staff)]
				next++
				shift.AssignedTo = &member.ID
				shift.Color = member.Color
			} else {
				shift.Color = "#95a5a6"
			}

			shifts = append(shifts, shift)
		}
	}

	if err := r.CreateShifts(shifts); err != nil {
		slog.Error("无法插入本周班次", slog.String("error", err.Error()))
		return
	}
	slog.Info("插入本周班次成功", slog.Int("count", len(shifts)))

	// 一条持续四周的重复班次
	member := staff[0]
	template := &domain.Shift{
		Kind:       domain.EventKindPlanning,
		Title:      "周会值班",
		Date:       weekStart.Format(domain.DateLayout),
		StartTime:  "08:30",
		EndTime:    "09:00",
		Color:      member.Color,
		AssignedTo: &member.ID,
	}

	occurrences, err := planning.ExpandWeekly(template, weekStart.AddDate(0, 0, 21).Format(domain.DateLayout))
	if err != nil {
		slog.Error("无法展开重复班次", slog.String("error", err.Error()))
		return
	}

	if err := r.CreateShifts(occurrences); err != nil {
		slog.Error("无法插入重复班次", slog.String("error", err.Error()))
		return
	}
	slog.Info("插入重复班次成功", slog.Int("count", len(occurrences)))
}
