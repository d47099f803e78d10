package scheduler

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

func TestPlanTakeOver_SeekingReplacement(t *testing.T) {
	shift := assignedShift(1, 7, "2024-06-03", "09:00:00", "10:00:00")
	shift.SeekingReplacement = true

	change, err := PlanTakeOver(shift, 8)
	if err != nil {
		t.Fatalf("接手寻找替班的班次失败: %v", err)
	}
	if change.EmployeeID != 8 {
		t.Errorf("EmployeeID = %d, want 8", change.EmployeeID)
	}
	if change.OriginalEmployeeID == nil || *change.OriginalEmployeeID != 7 {
		t.Errorf("应该记录原持有人 7, got %v", change.OriginalEmployeeID)
	}
}

func TestPlanTakeOver_OpenShift(t *testing.T) {
	shift := &domain.Shift{
		ID:        2,
		ShiftDate: "2024-06-03",
		TimeFrom:  "14:00:00",
		TimeTo:    "15:00:00",
		OpenShift: true,
		RegionID:  ptr(int64(10)),
	}

	change, err := PlanTakeOver(shift, 9)
	if err != nil {
		t.Fatalf("接手开放班次失败: %v", err)
	}
	if change.EmployeeID != 9 {
		t.Errorf("EmployeeID = %d, want 9", change.EmployeeID)
	}
	if change.OriginalEmployeeID != nil {
		t.Errorf("开放班次被接手后 OriginalEmployeeID 应该为空, got %v", *change.OriginalEmployeeID)
	}
}

func TestPlanTakeOver_Rejections(t *testing.T) {
	t.Run("plain assigned shift is not takeable", func(t *testing.T) {
		shift := assignedShift(3, 7, "2024-06-03", "09:00:00", "10:00:00")
		if _, err := PlanTakeOver(shift, 8); !errors.Is(err, ErrNotTakeable) {
			t.Errorf("err = %v, want ErrNotTakeable", err)
		}
	})

	t.Run("holder cannot take over own shift", func(t *testing.T) {
		shift := assignedShift(4, 7, "2024-06-03", "09:00:00", "10:00:00")
		shift.SeekingReplacement = true
		if _, err := PlanTakeOver(shift, 7); !errors.Is(err, ErrTakeOverSelf) {
			t.Errorf("err = %v, want ErrTakeOverSelf", err)
		}
	})
}

func TestCheckTakeOverScope(t *testing.T) {
	employee := &ViewerScope{EmployeeID: 8, Role: domain.RoleEmployee, FederalStateID: ptr(int64(1))}
	admin := &ViewerScope{EmployeeID: 1, Role: domain.RoleAdmin}

	if err := CheckTakeOverScope(employee, ptr(int64(1))); err != nil {
		t.Errorf("同一联邦州应该放行: %v", err)
	}
	if err := CheckTakeOverScope(employee, ptr(int64(2))); !errors.Is(err, ErrOutOfScope) {
		t.Errorf("跨联邦州应该拒绝, got %v", err)
	}
	if err := CheckTakeOverScope(employee, nil); !errors.Is(err, ErrOutOfScope) {
		t.Errorf("无法解析联邦州时应该拒绝, got %v", err)
	}

	noState := &ViewerScope{EmployeeID: 9, Role: domain.RoleEmployee}
	if err := CheckTakeOverScope(noState, ptr(int64(1))); !errors.Is(err, ErrOutOfScope) {
		t.Errorf("没有联邦州的员工应该被拒绝, got %v", err)
	}

	// 管理员不受范围限制
	if err := CheckTakeOverScope(admin, ptr(int64(2))); err != nil {
		t.Errorf("管理员应该放行: %v", err)
	}
	if err := CheckTakeOverScope(admin, nil); err != nil {
		t.Errorf("管理员应该放行: %v", err)
	}
}

func TestCanCreateShift(t *testing.T) {
	employee := &ViewerScope{EmployeeID: 7, Role: domain.RoleEmployee}
	admin := &ViewerScope{EmployeeID: 1, Role: domain.RoleAdmin}

	if err := CanCreateShift(employee, ptr(int64(7)), false); err != nil {
		t.Errorf("员工应该可以给自己创建班次: %v", err)
	}
	if err := CanCreateShift(employee, nil, false); err != nil {
		t.Errorf("员工不指定持有人时默认给自己, 应该放行: %v", err)
	}
	if err := CanCreateShift(employee, ptr(int64(8)), false); !errors.Is(err, ErrNotOwner) {
		t.Errorf("员工不能给别人创建班次, got %v", err)
	}
	if err := CanCreateShift(employee, nil, true); !errors.Is(err, ErrNotOwner) {
		t.Errorf("员工不能发布开放班次, got %v", err)
	}

	// 管理员不受限制
	if err := CanCreateShift(admin, ptr(int64(8)), false); err != nil {
		t.Errorf("管理员应该可以给任何人创建班次: %v", err)
	}
	if err := CanCreateShift(admin, nil, true); err != nil {
		t.Errorf("管理员应该可以发布开放班次: %v", err)
	}
}

func TestCanEditShift(t *testing.T) {
	shift := assignedShift(1, 7, "2024-06-03", "09:00:00", "10:00:00")

	owner := &ViewerScope{EmployeeID: 7, Role: domain.RoleEmployee}
	other := &ViewerScope{EmployeeID: 8, Role: domain.RoleEmployee}
	admin := &ViewerScope{EmployeeID: 1, Role: domain.RoleAdmin}

	if err := CanEditShift(shift, owner); err != nil {
		t.Errorf("持有人应该可以编辑自己的班次: %v", err)
	}
	if err := CanEditShift(shift, admin); err != nil {
		t.Errorf("管理员应该可以编辑任何班次: %v", err)
	}
	if err := CanEditShift(shift, other); !errors.Is(err, ErrNotOwner) {
		t.Errorf("其他员工不应该可以编辑, got %v", err)
	}

	open := &domain.Shift{ID: 2, OpenShift: true, RegionID: ptr(int64(10))}
	if err := CanEditShift(open, owner); !errors.Is(err, ErrNotOwner) {
		t.Errorf("普通员工不能改动开放班次, got %v", err)
	}
	if err := CanEditShift(open, admin); err != nil {
		t.Errorf("管理员应该可以改动开放班次: %v", err)
	}
}

func TestCanToggleReplacement(t *testing.T) {
	shift := assignedShift(1, 7, "2024-06-03", "09:00:00", "10:00:00")

	owner := &ViewerScope{EmployeeID: 7, Role: domain.RoleEmployee}
	other := &ViewerScope{EmployeeID: 8, Role: domain.RoleEmployee}
	admin := &ViewerScope{EmployeeID: 1, Role: domain.RoleAdmin}

	if err := CanToggleReplacement(shift, owner); err != nil {
		t.Errorf("持有人应该可以操作: %v", err)
	}
	if err := CanToggleReplacement(shift, admin); err != nil {
		t.Errorf("管理员应该可以操作: %v", err)
	}
	if err := CanToggleReplacement(shift, other); err == nil {
		t.Errorf("其他员工不应该可以操作")
	}

	open := &domain.Shift{ID: 2, OpenShift: true}
	if err := CanToggleReplacement(open, admin); !errors.Is(err, ErrNotTakeable) {
		t.Errorf("开放班次没有寻找替班状态, got %v", err)
	}
}
