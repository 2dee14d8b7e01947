package planning

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

func testRoster() []*domain.StaffMember {
	return []*domain.StaffMember{
		{ID: 1, FirstName: "伟", LastName: "王", Color: "#e74c3c"},
		{ID: 2, FirstName: "芳", LastName: "李", Color: "#3498db"},
	}
}

func testShifts() []*domain.Shift {
	e1 := int64(1)
	e2 := int64(2)
	return []*domain.Shift{
		{ID: 10, Title: "早班", Date: "2024-03-04", StartTime: "09:00", EndTime: "13:00", AssignedTo: &e1},
		{ID: 11, Title: "晚班", Date: "2024-03-04", StartTime: "17:00", EndTime: "21:00", AssignedTo: &e1},
		{ID: 12, Title: "午班", Date: "2024-03-06", StartTime: "13:00", EndTime: "17:00", AssignedTo: &e2},
		{ID: 13, Title: "机动", Date: "2024-03-08", StartTime: "09:00", EndTime: "17:00"},
		{ID: 14, Title: "别的周", Date: "2024-03-15", StartTime: "09:00", EndTime: "17:00", AssignedTo: &e1},
	}
}

func TestProjectGridRows(t *testing.T) {
	grid := ProjectGrid(testShifts(), testRoster(), mustParseDate(t, "2024-03-04"), FilterAll())

	require.Equal(t, "2024-03-04", grid.WeekStart)
	require.Len(t, grid.Rows, 3)

	// 第一行永远是未分配行
	require.Nil(t, grid.Rows[0].StaffID)
	require.Equal(t, "未分配", grid.Rows[0].DisplayName)
	require.Equal(t, int64(1), *grid.Rows[1].StaffID)
	require.Equal(t, "王伟", grid.Rows[1].DisplayName)
	require.Equal(t, int64(2), *grid.Rows[2].StaffID)
}

func TestProjectGridCellPlacement(t *testing.T) {
	grid := ProjectGrid(testShifts(), testRoster(), mustParseDate(t, "2024-03-04"), FilterAll())

	// 员工 1 在周一有两个班次，保持传入顺序
	monday := grid.Rows[1].Cells[0]
	require.Len(t, monday, 2)
	require.Equal(t, int64(10), monday[0].ID)
	require.Equal(t, int64(11), monday[1].ID)

	// 员工 2 的班次只出现在自己的行里
	require.Empty(t, grid.Rows[1].Cells[2])
	require.Len(t, grid.Rows[2].Cells[2], 1)
	require.Equal(t, int64(12), grid.Rows[2].Cells[2][0].ID)

	// 未分配的班次落在未分配行
	require.Len(t, grid.Rows[0].Cells[4], 1)
	require.Equal(t, int64(13), grid.Rows[0].Cells[4][0].ID)

	// 窗口之外的班次不出现在任何单元格里
	for _, row := range grid.Rows {
		for _, cell := range row.Cells {
			for _, shift := range cell {
				require.NotEqual(t, int64(14), shift.ID)
			}
		}
	}
}

func TestProjectGridStaffFilter(t *testing.T) {
	grid := ProjectGrid(testShifts(), testRoster(), mustParseDate(t, "2024-03-04"), FilterStaff(2))

	require.Len(t, grid.Rows, 2)
	require.Nil(t, grid.Rows[0].StaffID)
	require.Equal(t, int64(2), *grid.Rows[1].StaffID)
}

func TestProjectGridUnassignedFilter(t *testing.T) {
	grid := ProjectGrid(testShifts(), testRoster(), mustParseDate(t, "2024-03-04"), FilterUnassigned())

	require.Len(t, grid.Rows, 1)
	require.Nil(t, grid.Rows[0].StaffID)
	require.Len(t, grid.Rows[0].Cells[4], 1)
}

func TestProjectGridDeterministic(t *testing.T) {
	shifts := testShifts()
	roster := testRoster()
	anchor := mustParseDate(t, "2024-03-04")

	first := ProjectGrid(shifts, roster, anchor, FilterAll())
	second := ProjectGrid(shifts, roster, anchor, FilterAll())

	require.Equal(t, first, second)
}

func TestProjectGridNormalizesAnchor(t *testing.T) {
	// 锚点给周四，窗口仍然是包含它的周一起始的一周
	grid := ProjectGrid(testShifts(), testRoster(), mustParseDate(t, "2024-03-07"), FilterAll())

	require.Equal(t, "2024-03-04", grid.WeekStart)
	require.Len(t, grid.Rows[1].Cells[0], 2)
}

func TestParseRowFilter(t *testing.T) {
	filter, err := ParseRowFilter("")
	require.NoError(t, err)
	require.Equal(t, FilterAll(), filter)

	filter, err = ParseRowFilter("all")
	require.NoError(t, err)
	require.Equal(t, FilterAll(), filter)

	filter, err = ParseRowFilter("unassigned")
	require.NoError(t, err)
	require.Equal(t, FilterUnassigned(), filter)

	filter, err = ParseRowFilter("42")
	require.NoError(t, err)
	require.Equal(t, FilterStaff(42), filter)

	_, err = ParseRowFilter("abc")
	require.Error(t, err)
}
