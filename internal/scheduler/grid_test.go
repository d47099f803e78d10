package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

// 测试数据：
// 联邦州 1（排序 1）下有服务区 10（排序 1）和 11（排序 2），
// 联邦州 2（排序 2）下有服务区 12，服务区 13 没有归属联邦州。
// 员工 100、101 在服务区 10，员工 102 在服务区 12，员工 103 没有服务区。
func gridFixture() *GridInput {
	return &GridInput{
		WeekStart: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		FederalStates: []*domain.FederalState{
			{ID: 2, Name: "Steiermark", SortOrder: ptr(int32(2))},
			{ID: 1, Name: "Wien", SortOrder: ptr(int32(1))},
		},
		Regions: []*domain.Region{
			{ID: 11, Name: "Wien Süd", FederalStateID: ptr(int64(1)), SortOrder: ptr(int32(2))},
			{ID: 10, Name: "Wien Nord", FederalStateID: ptr(int64(1)), SortOrder: ptr(int32(1))},
			{ID: 12, Name: "Graz", FederalStateID: ptr(int64(2)), SortOrder: ptr(int32(1))},
			{ID: 13, Name: "Ohne Land", FederalStateID: nil, SortOrder: nil},
		},
		Employees: []*domain.Profile{
			{ID: 101, FullName: "Bettina Bauer", RegionID: ptr(int64(10)), SortOrder: ptr(int32(2))},
			{ID: 100, FullName: "Anna Huber", RegionID: ptr(int64(10)), SortOrder: ptr(int32(1))},
			{ID: 102, FullName: "Clara Steiner", RegionID: ptr(int64(12)), SortOrder: nil},
			{ID: 103, FullName: "Doris Egger", RegionID: nil, SortOrder: nil},
		},
		Shifts: []*domain.Shift{
			assignedShift(1, 100, "2024-06-03", "09:00:00", "10:30:00"),
			assignedShift(2, 100, "2024-06-03", "14:00:00", "15:00:00"),
			assignedShift(3, 100, "2024-06-05", "09:00:00", "10:00:00"),
			assignedShift(4, 102, "2024-06-06", "08:00:00", "12:00:00"),
		},
		OpenShifts: []*domain.Shift{
			{ID: 5, ShiftDate: "2024-06-04", TimeFrom: "10:00:00", TimeTo: "12:00:00", OpenShift: true, RegionID: ptr(int64(11))},
		},
		Absences: []*domain.Absence{
			{ID: 1, EmployeeID: 101, StartDate: "2024-06-04", StartTime: "00:00:00", EndDate: "2024-06-05", EndTime: "23:59:59"},
		},
	}
}

func findEmployeeRow(groups []*FederalStateGroup, employeeID int64) *EmployeeShifts {
	for _, sg := range groups {
		for _, rg := range sg.RegionGroups {
			for _, row := range rg.EmployeeShifts {
				if row.Employee.ID == employeeID {
					return row
				}
			}
		}
	}
	return nil
}

func TestBuildWeekGrid_Ordering(t *testing.T) {
	groups := BuildWeekGrid(gridFixture())

	// 联邦州：Wien(1), Steiermark(2)，最后是无联邦州的一组
	if len(groups) != 3 {
		t.Fatalf("期望 3 个联邦州分组, got %d", len(groups))
	}
	if groups[0].FederalState == nil || groups[0].FederalState.ID != 1 {
		t.Errorf("第一组应该是 Wien")
	}
	if groups[1].FederalState == nil || groups[1].FederalState.ID != 2 {
		t.Errorf("第二组应该是 Steiermark")
	}
	if groups[2].FederalState != nil {
		t.Errorf("最后一组应该没有联邦州")
	}

	// Wien 下：服务区 10（有员工）和 11（只有开放班次），排序 10 在前
	wien := groups[0]
	if len(wien.RegionGroups) != 2 {
		t.Fatalf("Wien 下期望 2 个服务区, got %d", len(wien.RegionGroups))
	}
	if wien.RegionGroups[0].Region.ID != 10 || wien.RegionGroups[1].Region.ID != 11 {
		t.Errorf("服务区排序不对: %d, %d", wien.RegionGroups[0].Region.ID, wien.RegionGroups[1].Region.ID)
	}

	// 服务区 10 内员工按 sort_order 排序
	rows := wien.RegionGroups[0].EmployeeShifts
	if len(rows) != 2 || rows[0].Employee.ID != 100 || rows[1].Employee.ID != 101 {
		t.Errorf("员工排序不对")
	}

	// 无服务区的员工在结尾的一组
	last := groups[2]
	foundNoRegion := false
	for _, rg := range last.RegionGroups {
		if rg.Region == nil {
			foundNoRegion = true
			if len(rg.EmployeeShifts) != 1 || rg.EmployeeShifts[0].Employee.ID != 103 {
				t.Errorf("无服务区分组内容不对")
			}
		}
	}
	if !foundNoRegion {
		t.Errorf("缺少无服务区员工的结尾分组")
	}
}

func TestBuildWeekGrid_EmptyRegionsDropped(t *testing.T) {
	groups := BuildWeekGrid(gridFixture())

	// 服务区 13 没有员工也没有开放班次，不应该出现
	for _, sg := range groups {
		for _, rg := range sg.RegionGroups {
			if rg.Region != nil && rg.Region.ID == 13 {
				t.Fatalf("空服务区 13 不应该出现在结果中")
			}
		}
	}
}

func TestBuildWeekGrid_Completeness(t *testing.T) {
	in := gridFixture()
	groups := BuildWeekGrid(in)

	// 每一条班次恰好出现一次
	seen := make(map[int64]int)
	for _, sg := range groups {
		for _, rg := range sg.RegionGroups {
			for _, shift := range rg.OpenShifts {
				seen[shift.ID]++
			}
			for _, row := range rg.EmployeeShifts {
				for _, day := range row.Days {
					for _, shift := range day.Shifts {
						seen[shift.ID]++
					}
				}
			}
		}
	}

	for _, shift := range in.Shifts {
		if seen[shift.ID] != 1 {
			t.Errorf("班次 %d 出现了 %d 次", shift.ID, seen[shift.ID])
		}
	}
	for _, shift := range in.OpenShifts {
		if seen[shift.ID] != 1 {
			t.Errorf("开放班次 %d 出现了 %d 次", shift.ID, seen[shift.ID])
		}
	}
}

func TestBuildWeekGrid_DayCells(t *testing.T) {
	groups := BuildWeekGrid(gridFixture())

	row := findEmployeeRow(groups, 100)
	if row == nil {
		t.Fatal("找不到员工 100 的行")
	}

	if len(row.Days) != 7 {
		t.Fatalf("一行应该有 7 天, got %d", len(row.Days))
	}

	// 周一有两条班次，按开始时间排序
	monday := row.Days[0]
	if monday.Date != "2024-06-03" || len(monday.Shifts) != 2 {
		t.Fatalf("周一格子不对: %+v", monday)
	}
	if monday.Shifts[0].ID != 1 || monday.Shifts[1].ID != 2 {
		t.Errorf("格子内班次没有按开始时间排序")
	}

	// 周三有一条
	if len(row.Days[2].Shifts) != 1 || row.Days[2].Shifts[0].ID != 3 {
		t.Errorf("周三格子不对")
	}
}

func TestBuildWeekGrid_AbsenceSpansDays(t *testing.T) {
	groups := BuildWeekGrid(gridFixture())

	row := findEmployeeRow(groups, 101)
	if row == nil {
		t.Fatal("找不到员工 101 的行")
	}

	// 请假区间为周二到周三
	wantCovered := map[int]bool{1: true, 2: true}
	for i, day := range row.Days {
		if wantCovered[i] && len(day.Absences) != 1 {
			t.Errorf("第 %d 天应该有请假记录", i)
		}
		if !wantCovered[i] && len(day.Absences) != 0 {
			t.Errorf("第 %d 天不应该有请假记录", i)
		}
	}
}

func TestBuildWeekGrid_TotalHours(t *testing.T) {
	groups := BuildWeekGrid(gridFixture())

	// 员工 100: 1.5 + 1 + 1 = 3.5 小时
	row := findEmployeeRow(groups, 100)
	if row == nil {
		t.Fatal("找不到员工 100 的行")
	}
	if math.Abs(row.TotalHours-3.5) > 1e-9 {
		t.Errorf("员工 100 周工时 = %v, want 3.5", row.TotalHours)
	}

	// 员工 102: 4 小时
	row = findEmployeeRow(groups, 102)
	if math.Abs(row.TotalHours-4) > 1e-9 {
		t.Errorf("员工 102 周工时 = %v, want 4", row.TotalHours)
	}

	// 没有班次的员工为 0
	row = findEmployeeRow(groups, 103)
	if row.TotalHours != 0 {
		t.Errorf("员工 103 周工时 = %v, want 0", row.TotalHours)
	}
}
