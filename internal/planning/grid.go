package planning

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

type filterKind int

const (
	filterAll filterKind = iota
	filterUnassigned
	filterStaff
)

// RowFilter 控制排班表中展示哪些行
type RowFilter struct {
	kind    filterKind
	staffID int64
}

func FilterAll() RowFilter {
	return RowFilter{kind: filterAll}
}

func FilterUnassigned() RowFilter {
	return RowFilter{kind: filterUnassigned}
}

func FilterStaff(staffID int64) RowFilter {
	return RowFilter{kind: filterStaff, staffID: staffID}
}

// ParseRowFilter 解析请求参数中的行过滤条件："all"、"unassigned" 或员工 ID
func ParseRowFilter(param string) (RowFilter, error) {
	switch param {
	case "", "all":
		return FilterAll(), nil
	case "unassigned":
		return FilterUnassigned(), nil
	default:
		staffID, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			return RowFilter{}, fmt.Errorf("无效的过滤条件 %q", param)
		}
		return FilterStaff(staffID), nil
	}
}

type GridRow struct {
	StaffID     *int64             `json:"staffID"` // 为 nil 时表示未分配行
	DisplayName string             `json:"displayName"`
	Color       string             `json:"color"`
	Cells       [7][]*domain.Shift `json:"cells"`
}

type Grid struct {
	WeekStart string     `json:"weekStart"`
	Dates     [7]string  `json:"dates"`
	Rows      []*GridRow `json:"rows"`
}

// ProjectGrid 把班次集合投影成员工 × 星期的排班表。
// 纯读侧投影：不修改输入，相同输入总是产生相同输出。
// 第一行永远是合成的未分配行，之后按过滤条件排花名册行；
// 单元格内的班次保持传入顺序，同一格允许多个班次。
func ProjectGrid(shifts []*domain.Shift, roster []*domain.StaffMember, anchor time.Time, filter RowFilter) *Grid {
	weekStart := WeekStart(anchor)
	dates := WeekDates(weekStart)

	rows := make([]*GridRow, 0, len(roster)+1)
	rows = append(rows, &GridRow{
		StaffID:     nil,
		DisplayName: "未分配",
	})

	if filter.kind != filterUnassigned {
		for _, member := range roster {
			if filter.kind == filterStaff && member.ID != filter.staffID {
				continue
			}
			staffID := member.ID
			rows = append(rows, &GridRow{
				StaffID:     &staffID,
				DisplayName: member.DisplayName(),
				Color:       member.Color,
			})
		}
	}

	dayIndex := make(map[string]int, len(dates))
	for i, date := range dates {
		dayIndex[date] = i
	}

	for _, shift := range shifts {
		day, inWindow := dayIndex[shift.Date]
		if !inWindow {
			continue
		}

		for _, row := range rows {
			if !rowMatches(row, shift) {
				continue
			}
			row.Cells[day] = append(row.Cells[day], shift)
		}
	}

	return &Grid{
		WeekStart: weekStart.Format(domain.DateLayout),
		Dates:     dates,
		Rows:      rows,
	}
}

func rowMatches(row *GridRow, shift *domain.Shift) bool {
	if row.StaffID == nil {
		return shift.AssignedTo == nil
	}
	return shift.AssignedTo != nil && *shift.AssignedTo == *row.StaffID
}
