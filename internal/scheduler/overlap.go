package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

// OverlapError: 排班时间和当天已有的排班冲突。
// Date 用于告诉调用方是哪一天发生了冲突。
type OverlapError struct {
	Date        string
	Conflicting *domain.Shift
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("该时间段与 %s 当天已有的排班冲突", e.Date)
}

// HasOverlap 判断两个半开区间 [aFrom, aTo) 和 [bFrom, bTo) 是否重叠。
// 时间为 HH:MM 或 HH:MM:SS 格式的字符串，补零后字典序比较等价于数值比较，
// 因此不需要解析。首尾恰好相接的两个区间不算重叠。
func HasOverlap(aFrom, aTo, bFrom, bTo string) bool {
	return aFrom < bTo && aTo > bFrom
}

// FindConflict 在 existing 中查找和 candidate 冲突的班次。
// 只有同一员工同一天的班次才可能冲突；没有持有人的班次（开放班次）不参与检查，
// candidate 本身（按 ID 排除）也不参与检查。没有冲突时返回 nil。
// 有持有人的班次一律参与检查，即便它的 open_shift 标记还没清掉。
func FindConflict(candidate *domain.Shift, existing []*domain.Shift) *domain.Shift {
	if candidate.OpenShift || candidate.EmployeeID == nil {
		return nil
	}

	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if other.EmployeeID == nil {
			continue
		}
		if *other.EmployeeID != *candidate.EmployeeID || other.ShiftDate != candidate.ShiftDate {
			continue
		}
		if HasOverlap(candidate.TimeFrom, candidate.TimeTo, other.TimeFrom, other.TimeTo) {
			return other
		}
	}

	return nil
}

// ValidateNoOverlap 是 FindConflict 的错误形式封装，方便直接向上返回。
func ValidateNoOverlap(candidate *domain.Shift, existing []*domain.Shift) error {
	if conflicting := FindConflict(candidate, existing); conflicting != nil {
		return &OverlapError{Date: candidate.ShiftDate, Conflicting: conflicting}
	}
	return nil
}
