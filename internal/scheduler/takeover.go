package scheduler

import (
	"errors"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

var (
	// ErrNotTakeable: 班次既不是开放班次也没有在寻找替班
	ErrNotTakeable = errors.New("该排班当前不可被接手")
	// ErrTakeOverSelf: 不能接手自己持有的班次
	ErrTakeOverSelf = errors.New("不能接手自己的排班")
	// ErrOutOfScope: 班次不在操作者所在联邦州的范围内
	ErrOutOfScope = errors.New("该排班不在您所在联邦州的范围内")
	// ErrNotOwner: 操作者不是班次的持有人
	ErrNotOwner = errors.New("只能操作自己的排班")
)

// TakeOverChange 描述一次接手操作要写入的字段。
type TakeOverChange struct {
	EmployeeID         int64
	OriginalEmployeeID *int64
}

// PlanTakeOver 校验 taker 是否可以接手 shift，并给出要应用的变更：
//
//   - 寻找替班的班次被接手后，记录原持有人到 OriginalEmployeeID；
//   - 开放班次被接手后，OriginalEmployeeID 保持为空；
//   - 两种情况下 open_shift 和 seeking_replacement 都会被清掉。
//
// 时间冲突的检查不在这里做，必须和写入放在同一个事务里（见 repository）。
func PlanTakeOver(shift *domain.Shift, takerID int64) (*TakeOverChange, error) {
	if !shift.OpenShift && !shift.SeekingReplacement {
		return nil, ErrNotTakeable
	}

	if shift.EmployeeID != nil && *shift.EmployeeID == takerID {
		return nil, ErrTakeOverSelf
	}

	change := &TakeOverChange{EmployeeID: takerID}
	if !shift.OpenShift && shift.SeekingReplacement {
		change.OriginalEmployeeID = shift.EmployeeID
	}

	return change, nil
}

// CheckTakeOverScope 做接手操作的范围校验：
// 管理员不受限制，其余员工只能接手自己所在联邦州内的班次。
// shiftStateID 是班次所属服务区归属的联邦州（开放班次按 region_id 解析，
// 寻找替班的班次按持有人所在服务区解析），解析不出来时一律拒绝。
func CheckTakeOverScope(viewer *ViewerScope, shiftStateID *int64) error {
	if viewer.IsAdmin() {
		return nil
	}

	if viewer.FederalStateID == nil || shiftStateID == nil {
		return ErrOutOfScope
	}
	if *viewer.FederalStateID != *shiftStateID {
		return ErrOutOfScope
	}

	return nil
}

// CanCreateShift 校验 actor 是否可以创建一个班次：
// 管理员不受限制，普通员工只能给自己创建已分配的班次，
// 开放班次只能由管理员发布。
func CanCreateShift(actor *ViewerScope, employeeID *int64, openShift bool) error {
	if actor.IsAdmin() {
		return nil
	}
	if openShift {
		return ErrNotOwner
	}
	if employeeID != nil && *employeeID != actor.EmployeeID {
		return ErrNotOwner
	}
	return nil
}

// CanEditShift 校验 actor 是否可以编辑或删除一个班次：
// 管理员不受限制，普通员工只能操作自己持有的班次。
// 开放班次没有持有人，普通员工改不了它。
func CanEditShift(shift *domain.Shift, actor *ViewerScope) error {
	if actor.IsAdmin() {
		return nil
	}
	if shift.EmployeeID == nil || *shift.EmployeeID != actor.EmployeeID {
		return ErrNotOwner
	}
	return nil
}

// CanToggleReplacement 校验 actor 是否可以切换班次的寻找替班状态：
// 只有班次的持有人自己或管理员可以操作，开放班次没有这个状态。
func CanToggleReplacement(shift *domain.Shift, actor *ViewerScope) error {
	if shift.OpenShift || shift.EmployeeID == nil {
		return ErrNotTakeable
	}
	if actor.IsAdmin() {
		return nil
	}
	if *shift.EmployeeID != actor.EmployeeID {
		return ErrOutOfScope
	}
	return nil
}
