package planning

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

type fakeEventStore struct {
	shifts []*domain.Shift
	nextID int64

	failNext   error
	listCalls  int
	batchCalls int
}

func (s *fakeEventStore) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *fakeEventStore) ListShifts() ([]*domain.Shift, error) {
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	s.listCalls++

	shifts := make([]*domain.Shift, 0, len(s.shifts))
	for _, shift := range s.shifts {
		shifts = append(shifts, shift.Clone())
	}
	return shifts, nil
}

func (s *fakeEventStore) CreateShift(shift *domain.Shift) error {
	if err := s.takeFailure(); err != nil {
		return err
	}

	s.nextID++
	shift.ID = s.nextID
	s.shifts = append(s.shifts, shift.Clone())
	return nil
}

func (s *fakeEventStore) CreateShifts(shifts []*domain.Shift) error {
	if err := s.takeFailure(); err != nil {
		return err
	}
	s.batchCalls++

	for _, shift := range shifts {
		s.nextID++
		shift.ID = s.nextID
		s.shifts = append(s.shifts, shift.Clone())
	}
	return nil
}

func (s *fakeEventStore) UpdateShift(shift *domain.Shift) error {
	if err := s.takeFailure(); err != nil {
		return err
	}

	for i, existing := range s.shifts {
		if existing.ID == shift.ID {
			s.shifts[i] = shift.Clone()
			return nil
		}
	}
	return errors.New("班次不存在")
}

func (s *fakeEventStore) DeleteShift(id int64) error {
	if err := s.takeFailure(); err != nil {
		return err
	}

	shifts := make([]*domain.Shift, 0, len(s.shifts))
	for _, shift := range s.shifts {
		if shift.ID != id {
			shifts = append(shifts, shift)
		}
	}
	s.shifts = shifts
	return nil
}

type fakeRoster struct {
	staff []*domain.StaffMember
}

func (r *fakeRoster) ListStaff() ([]*domain.StaffMember, error) {
	return r.staff, nil
}

func newTestBoard(t *testing.T, store *fakeEventStore) *Board {
	t.Helper()

	roster := &fakeRoster{staff: testRoster()}
	board := NewBoard(store, roster, Defaults{Color: "#95a5a6"}, mustParseDate(t, "2024-03-13"))
	require.NoError(t, board.Load())
	require.Equal(t, StateIdle, board.State())
	return board
}

func TestBoardCreateSingle(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	shift := &domain.Shift{
		Title:     "早班",
		Date:      "2024-03-11",
		StartTime: "09:00",
		EndTime:   "13:00",
	}
	require.NoError(t, board.CreateSingle(shift))

	require.Equal(t, int64(1), shift.ID) // 由事件存储分配
	require.Len(t, board.Shifts(), 1)
	require.Equal(t, StateIdle, board.State())

	// 未分配的班次使用配置的回退颜色
	require.Equal(t, "#95a5a6", shift.Color)
}

func TestBoardCreateSingleUsesRosterColor(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	employee := int64(2)
	shift := &domain.Shift{
		Title:      "午班",
		Date:       "2024-03-11",
		StartTime:  "13:00",
		EndTime:    "17:00",
		AssignedTo: &employee,
	}
	require.NoError(t, board.CreateSingle(shift))

	require.Equal(t, "#3498db", shift.Color)
}

func TestBoardCreateSingleValidation(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	shift := &domain.Shift{
		Title:     "   ",
		Date:      "2024-03-11",
		StartTime: "09:00",
		EndTime:   "13:00",
	}
	require.Error(t, board.CreateSingle(shift))

	// 校验失败时不应该发起任何写入
	require.Empty(t, store.shifts)
	require.Empty(t, board.Shifts())
	require.Equal(t, StateIdle, board.State())
}

func TestBoardCreateRecurring(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	template := &domain.Shift{
		Title:     "早班",
		Date:      "2024-03-04",
		StartTime: "09:00",
		EndTime:   "13:00",
	}
	count, err := board.CreateRecurring(template, "2024-03-25")
	require.NoError(t, err)

	require.Equal(t, 4, count)
	require.Equal(t, 1, store.batchCalls)
	// 批量创建成功后整体重取，而不是本地追加
	require.Equal(t, 2, store.listCalls) // Load 一次，批量创建后一次
	require.Len(t, board.Shifts(), 4)
}

func TestBoardCreateRecurringFallsBackToSingle(t *testing.T) {
	for _, endDate := range []string{"", "not-a-date"} {
		store := &fakeEventStore{}
		board := newTestBoard(t, store)

		template := &domain.Shift{
			Title:     "早班",
			Date:      "2024-03-04",
			StartTime: "09:00",
			EndTime:   "13:00",
		}
		count, err := board.CreateRecurring(template, endDate)
		require.NoError(t, err)

		require.Equal(t, 1, count, "endDate=%q", endDate)
		require.Equal(t, 0, store.batchCalls)
		require.Len(t, board.Shifts(), 1)
	}
}

func TestBoardUpdate(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	shift := &domain.Shift{Title: "早班", Date: "2024-03-11", StartTime: "09:00", EndTime: "13:00"}
	require.NoError(t, board.CreateSingle(shift))

	newTitle := "晚班"
	employee := int64(1)
	updated, err := board.Update(shift.ID, ShiftPatch{Title: &newTitle, AssignedTo: &employee})
	require.NoError(t, err)

	require.Equal(t, "晚班", updated.Title)
	require.Equal(t, employee, *updated.AssignedTo)
	require.Equal(t, "2024-03-11", updated.Date)

	// 内存集合中按 ID 替换
	require.Len(t, board.Shifts(), 1)
	require.Equal(t, "晚班", board.Shifts()[0].Title)
	require.Equal(t, "晚班", store.shifts[0].Title)
}

func TestBoardUpdateUnassign(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	employee := int64(1)
	shift := &domain.Shift{Title: "早班", Date: "2024-03-11", StartTime: "09:00", EndTime: "13:00", AssignedTo: &employee}
	require.NoError(t, board.CreateSingle(shift))

	updated, err := board.Update(shift.ID, ShiftPatch{Unassign: true})
	require.NoError(t, err)

	require.Nil(t, updated.AssignedTo)
}

func TestBoardDeleteRemovesFromGrid(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	employee := int64(1)
	keep := &domain.Shift{Title: "早班", Date: "2024-03-11", StartTime: "09:00", EndTime: "13:00", AssignedTo: &employee}
	remove := &domain.Shift{Title: "晚班", Date: "2024-03-12", StartTime: "17:00", EndTime: "21:00", AssignedTo: &employee}
	require.NoError(t, board.CreateSingle(keep))
	require.NoError(t, board.CreateSingle(remove))

	before := board.Grid()
	require.Len(t, before.Rows[1].Cells[0], 1)
	require.Len(t, before.Rows[1].Cells[1], 1)

	require.NoError(t, board.Delete(remove.ID))

	after := board.Grid()
	require.Len(t, board.Shifts(), 1)
	require.Len(t, after.Rows[1].Cells[0], 1) // 其他单元格不受影响
	require.Empty(t, after.Rows[1].Cells[1])
}

func TestBoardTransportErrorLeavesCollectionUnchanged(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	shift := &domain.Shift{Title: "早班", Date: "2024-03-11", StartTime: "09:00", EndTime: "13:00"}
	require.NoError(t, board.CreateSingle(shift))

	store.failNext = errors.New("连接超时")
	next := &domain.Shift{Title: "晚班", Date: "2024-03-12", StartTime: "17:00", EndTime: "21:00"}
	require.Error(t, board.CreateSingle(next))

	require.Len(t, board.Shifts(), 1)
	require.Equal(t, StateIdle, board.State())

	store.failNext = errors.New("连接超时")
	require.Error(t, board.Delete(shift.ID))
	require.Len(t, board.Shifts(), 1)
}

func TestBoardDuplicatePreviousWeek(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)
	board.SetWeek(mustParseDate(t, "2024-03-11"))

	employee := int64(1)
	source := &domain.Shift{Title: "早班", Date: "2024-03-05", StartTime: "09:00", EndTime: "13:00", AssignedTo: &employee}
	require.NoError(t, board.CreateSingle(source))

	count, err := board.DuplicatePreviousWeek()
	require.NoError(t, err)

	require.Equal(t, 1, count)
	require.Len(t, board.Shifts(), 2)

	grid := board.Grid()
	require.Len(t, grid.Rows[1].Cells[1], 1) // 2024-03-12 是目标周周二
	require.Equal(t, "早班", grid.Rows[1].Cells[1][0].Title)
}

func TestBoardDuplicatePreviousWeekNothingToCopy(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)
	board.SetWeek(mustParseDate(t, "2024-03-11"))

	count, err := board.DuplicatePreviousWeek()
	require.ErrorIs(t, err, ErrNothingToCopy)
	require.Zero(t, count)
	require.Equal(t, 0, store.batchCalls)
}

func TestBoardWeekNavigation(t *testing.T) {
	store := &fakeEventStore{}
	board := newTestBoard(t, store)

	require.Equal(t, "2024-03-11", board.WeekAnchor().Format(domain.DateLayout))

	board.NextWeek()
	require.Equal(t, "2024-03-18", board.WeekAnchor().Format(domain.DateLayout))

	board.PreviousWeek()
	board.PreviousWeek()
	require.Equal(t, "2024-03-04", board.WeekAnchor().Format(domain.DateLayout))

	board.GoToCurrentWeek(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.Equal(t, "2024-04-29", board.WeekAnchor().Format(domain.DateLayout))
}
