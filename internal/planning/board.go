package planning

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/utils"
)

// EventStore 是排班核心对事件存储的唯一依赖。
// 实现方负责超时控制；CreateShifts 必须是全有或全无的批量写入。
type EventStore interface {
	ListShifts() ([]*domain.Shift, error)
	CreateShift(shift *domain.Shift) error
	CreateShifts(shifts []*domain.Shift) error
	UpdateShift(shift *domain.Shift) error
	DeleteShift(id int64) error
}

// RosterProvider 提供可被排班的员工列表
type RosterProvider interface {
	ListStaff() ([]*domain.StaffMember, error)
}

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
)

// Defaults 是创建班次时使用的显式默认值，
// 用于替代散落在各处的全局状态
type Defaults struct {
	Color string // 班次未指定颜色且没有被分配给员工时使用
}

// Board 是排班表的编排核心：持有内存中的班次集合，
// 对事件存储发起读写，并在每次变更后重新投影排班表。
// Board 由单个调用流独占，不支持并发使用。
type Board struct {
	store  EventStore
	roster RosterProvider

	defaults Defaults
	shifts   []*domain.Shift
	staff    []*domain.StaffMember
	anchor   time.Time
	filter   RowFilter
	state    State
}

func NewBoard(store EventStore, roster RosterProvider, defaults Defaults, now time.Time) *Board {
	return &Board{
		store:    store,
		roster:   roster,
		defaults: defaults,
		shifts:   make([]*domain.Shift, 0),
		staff:    make([]*domain.StaffMember, 0),
		anchor:   WeekStart(now),
		filter:   FilterAll(),
		state:    StateIdle,
	}
}

func (b *Board) State() State {
	return b.state
}

func (b *Board) WeekAnchor() time.Time {
	return b.anchor
}

func (b *Board) Shifts() []*domain.Shift {
	return b.shifts
}

// Load 拉取花名册和全部排班班次（按事件类型过滤由事件存储完成）
func (b *Board) Load() error {
	b.state = StateLoading
	defer func() { b.state = StateIdle }()

	staff, err := b.roster.ListStaff()
	if err != nil {
		return err
	}

	shifts, err := b.store.ListShifts()
	if err != nil {
		return err
	}

	b.staff = staff
	b.shifts = shifts
	return nil
}

// Grid 把当前的班次集合投影成本周的排班表
func (b *Board) Grid() *Grid {
	return ProjectGrid(b.shifts, b.staff, b.anchor, b.filter)
}

func (b *Board) SetFilter(filter RowFilter) {
	b.filter = filter
}

func (b *Board) NextWeek() {
	b.anchor = b.anchor.AddDate(0, 0, 7)
}

func (b *Board) PreviousWeek() {
	b.anchor = b.anchor.AddDate(0, 0, -7)
}

// SetWeek 把窗口锚点设置到包含给定日期的那一周
func (b *Board) SetWeek(t time.Time) {
	b.anchor = WeekStart(t)
}

func (b *Board) GoToCurrentWeek(now time.Time) {
	b.SetWeek(now)
}

// CreateSingle 校验并创建单个班次，成功后追加到内存集合
func (b *Board) CreateSingle(shift *domain.Shift) error {
	b.applyDefaults(shift)
	if err := utils.ValidateShift(shift); err != nil {
		return err
	}

	b.state = StateLoading
	defer func() { b.state = StateIdle }()

	if err := b.store.CreateShift(shift); err != nil {
		return err
	}

	b.shifts = append(b.shifts, shift)
	return nil
}

// CreateRecurring 按周展开模板并批量创建。
// endDate 为空或无法解析时退回到创建单个班次；
// 批量创建成功后从事件存储整体重取，而不是在本地乐观插入。
func (b *Board) CreateRecurring(template *domain.Shift, endDate string) (int, error) {
	b.applyDefaults(template)
	if err := utils.ValidateShift(template); err != nil {
		return 0, err
	}

	if endDate == "" {
		if err := b.CreateSingle(template); err != nil {
			return 0, err
		}
		return 1, nil
	}

	occurrences, err := ExpandWeekly(template, endDate)
	if err != nil {
		// 结束日期无法解析时按约定退回到单个创建
		if createErr := b.CreateSingle(template); createErr != nil {
			return 0, createErr
		}
		return 1, nil
	}

	if len(occurrences) == 0 {
		return 0, nil
	}

	b.state = StateLoading
	defer func() { b.state = StateIdle }()

	if err := b.store.CreateShifts(occurrences); err != nil {
		return 0, err
	}

	shifts, err := b.store.ListShifts()
	if err != nil {
		return len(occurrences), err
	}
	b.shifts = shifts

	return len(occurrences), nil
}

// Update 对单个班次打补丁，成功后按 ID 替换内存集合中的对应项
func (b *Board) Update(id int64, patch ShiftPatch) (*domain.Shift, error) {
	index := -1
	for i, shift := range b.shifts {
		if shift.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("班次 %d 不存在", id)
	}

	updated := b.shifts[index].Clone()
	patch.Apply(updated)
	if err := utils.ValidateShift(updated); err != nil {
		return nil, err
	}

	b.state = StateLoading
	defer func() { b.state = StateIdle }()

	if err := b.store.UpdateShift(updated); err != nil {
		return nil, err
	}

	b.shifts[index] = updated
	return updated, nil
}

// Delete 删除单个班次，成功后从内存集合中移除
func (b *Board) Delete(id int64) error {
	b.state = StateLoading
	defer func() { b.state = StateIdle }()

	if err := b.store.DeleteShift(id); err != nil {
		return err
	}

	shifts := make([]*domain.Shift, 0, len(b.shifts))
	for _, shift := range b.shifts {
		if shift.ID != id {
			shifts = append(shifts, shift)
		}
	}
	b.shifts = shifts
	return nil
}

// DuplicatePreviousWeek 把上一周的班次整体复制到当前周。
// 来源周为空时返回 ErrNothingToCopy 且不产生任何写入；
// 批量创建成功后整体重取班次集合。
func (b *Board) DuplicatePreviousWeek() (int, error) {
	duplicated, err := DuplicateWeek(b.shifts, b.anchor)
	if err != nil {
		return 0, err
	}

	b.state = StateLoading
	defer func() { b.state = StateIdle }()

	if err := b.store.CreateShifts(duplicated); err != nil {
		return 0, err
	}

	shifts, err := b.store.ListShifts()
	if err != nil {
		return len(duplicated), err
	}
	b.shifts = shifts

	return len(duplicated), nil
}

// applyDefaults 填充事件类型和颜色：
// 班次被分配给员工时默认使用该员工的花名册颜色，否则使用配置的回退颜色
func (b *Board) applyDefaults(shift *domain.Shift) {
	if shift.Kind == "" {
		shift.Kind = domain.EventKindPlanning
	}

	if shift.Color != "" {
		return
	}

	if shift.AssignedTo != nil {
		for _, member := range b.staff {
			if member.ID == *shift.AssignedTo {
				shift.Color = member.Color
				return
			}
		}
	}

	shift.Color = b.defaults.Color
}

// ShiftPatch 描述对单个班次的部分修改；
// 指针字段为 nil 时表示保持原值，Unassign 为 true 时清除分配
type ShiftPatch struct {
	Title       *string
	Date        *string
	StartTime   *string
	EndTime     *string
	Description *string
	Color       *string
	AssignedTo  *int64
	Unassign    bool
}

func (p *ShiftPatch) Apply(shift *domain.Shift) {
	if p.Title != nil {
		shift.Title = *p.Title
	}
	if p.Date != nil {
		shift.Date = *p.Date
	}
	if p.StartTime != nil {
		shift.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		shift.EndTime = *p.EndTime
	}
	if p.Description != nil {
		shift.Description = *p.Description
	}
	if p.Color != nil {
		shift.Color = *p.Color
	}
	if p.Unassign {
		shift.AssignedTo = nil
	} else if p.AssignedTo != nil {
		assignedTo := *p.AssignedTo
		shift.AssignedTo = &assignedTo
	}
}
