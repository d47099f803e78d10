package scheduler

import (
	"errors"
	"testing"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func assignedShift(id, employeeID int64, date, from, to string) *domain.Shift {
	return &domain.Shift{
		ID:         id,
		EmployeeID: &employeeID,
		ShiftDate:  date,
		TimeFrom:   from,
		TimeTo:     to,
	}
}

func TestHasOverlap(t *testing.T) {
	cases := []struct {
		name                   string
		aFrom, aTo, bFrom, bTo string
		want                   bool
	}{
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"partial", "09:30", "10:30", "09:00", "10:00", true},
		{"touching is not overlap", "09:00", "10:00", "10:00", "11:00", false},
		{"one minute over", "09:00", "10:01", "10:00", "11:00", true},
		{"disjoint", "08:00", "09:00", "14:00", "15:00", false},
		{"with seconds", "09:00:00", "10:00:00", "10:00:00", "11:00:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasOverlap(tc.aFrom, tc.aTo, tc.bFrom, tc.bTo); got != tc.want {
				t.Errorf("HasOverlap(%s-%s, %s-%s) = %v, want %v", tc.aFrom, tc.aTo, tc.bFrom, tc.bTo, got, tc.want)
			}
			// 对称性
			if got := HasOverlap(tc.bFrom, tc.bTo, tc.aFrom, tc.aTo); got != tc.want {
				t.Errorf("HasOverlap 交换参数后结果不对称")
			}
		})
	}
}

func TestFindConflict(t *testing.T) {
	existing := []*domain.Shift{
		assignedShift(1, 7, "2024-06-03", "09:00:00", "10:00:00"),
		assignedShift(2, 7, "2024-06-03", "14:00:00", "15:00:00"),
		assignedShift(3, 8, "2024-06-03", "09:00:00", "10:00:00"),
		assignedShift(4, 7, "2024-06-04", "09:00:00", "10:00:00"),
	}

	t.Run("conflict on same employee and date", func(t *testing.T) {
		candidate := assignedShift(0, 7, "2024-06-03", "09:30:00", "10:30:00")
		conflicting := FindConflict(candidate, existing)
		if conflicting == nil || conflicting.ID != 1 {
			t.Fatalf("期望和班次 1 冲突, got %+v", conflicting)
		}
	})

	t.Run("other employee does not conflict", func(t *testing.T) {
		candidate := assignedShift(0, 9, "2024-06-03", "09:00:00", "10:00:00")
		if conflicting := FindConflict(candidate, existing); conflicting != nil {
			t.Fatalf("不同员工之间不应该冲突, got %+v", conflicting)
		}
	})

	t.Run("other date does not conflict", func(t *testing.T) {
		candidate := assignedShift(0, 7, "2024-06-05", "09:00:00", "10:00:00")
		if conflicting := FindConflict(candidate, existing); conflicting != nil {
			t.Fatalf("不同日期之间不应该冲突, got %+v", conflicting)
		}
	})

	t.Run("candidate excludes itself when editing", func(t *testing.T) {
		candidate := assignedShift(1, 7, "2024-06-03", "09:00:00", "10:30:00")
		if conflicting := FindConflict(candidate, existing); conflicting != nil {
			t.Fatalf("编辑时不应该和自己冲突, got %+v", conflicting)
		}
	})

	t.Run("same day back to back shifts are valid", func(t *testing.T) {
		candidate := assignedShift(0, 7, "2024-06-03", "10:00:00", "14:00:00")
		if conflicting := FindConflict(candidate, existing); conflicting != nil {
			t.Fatalf("首尾相接的班次不应该冲突, got %+v", conflicting)
		}
	})

	t.Run("open candidate is exempt", func(t *testing.T) {
		candidate := &domain.Shift{
			ShiftDate: "2024-06-03",
			TimeFrom:  "09:00:00",
			TimeTo:    "10:00:00",
			OpenShift: true,
			RegionID:  ptr(int64(1)),
		}
		if conflicting := FindConflict(candidate, existing); conflicting != nil {
			t.Fatalf("开放班次不参与冲突检查, got %+v", conflicting)
		}
	})

	t.Run("assigned shift with stale open flag still counts", func(t *testing.T) {
		stale := assignedShift(6, 7, "2024-06-03", "09:00:00", "10:00:00")
		stale.OpenShift = true
		candidate := assignedShift(0, 7, "2024-06-03", "09:30:00", "10:30:00")
		conflicting := FindConflict(candidate, []*domain.Shift{stale})
		if conflicting == nil || conflicting.ID != 6 {
			t.Fatalf("有持有人的班次即使挂着开放标记也应该参与冲突检查, got %+v", conflicting)
		}
	})

	t.Run("stored open shift is not counted", func(t *testing.T) {
		open := &domain.Shift{
			ID:        5,
			ShiftDate: "2024-06-03",
			TimeFrom:  "09:00:00",
			TimeTo:    "17:00:00",
			OpenShift: true,
		}
		candidate := assignedShift(0, 7, "2024-06-03", "11:00:00", "12:00:00")
		if conflicting := FindConflict(candidate, append(existing, open)); conflicting != nil {
			t.Fatalf("已存在的开放班次不应该算作冲突, got %+v", conflicting)
		}
	})
}

func TestValidateNoOverlap(t *testing.T) {
	existing := []*domain.Shift{
		assignedShift(1, 7, "2024-06-03", "09:00:00", "10:00:00"),
	}

	candidate := assignedShift(0, 7, "2024-06-03", "09:30:00", "10:30:00")
	err := ValidateNoOverlap(candidate, existing)
	if err == nil {
		t.Fatal("期望返回冲突错误")
	}

	var overlapErr *OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("期望 *OverlapError, got %T", err)
	}
	if overlapErr.Date != "2024-06-03" {
		t.Errorf("冲突日期不对: %s", overlapErr.Date)
	}
	if overlapErr.Conflicting == nil || overlapErr.Conflicting.ID != 1 {
		t.Errorf("冲突班次不对: %+v", overlapErr.Conflicting)
	}

	ok := assignedShift(0, 7, "2024-06-03", "10:00:00", "11:00:00")
	if err := ValidateNoOverlap(ok, existing); err != nil {
		t.Fatalf("不冲突的班次不应该报错: %v", err)
	}
}
