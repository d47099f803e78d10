package scheduler

import (
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

// ViewerScope: 表示查看者的可见范围。
// 管理员可以看到全部数据，普通员工只能看到自己所在联邦州的数据。
type ViewerScope struct {
	EmployeeID     int64
	Role           domain.Role
	RegionID       *int64
	FederalStateID *int64
}

func (s *ViewerScope) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

// GridInput: 构建周视图所需要的全部数据。
// 这里的数据应该已经按照查看者的可见范围加载完毕，
// BuildWeekGrid 本身只做纯粹的分组和汇总，不会再做权限过滤。
type GridInput struct {
	WeekStart     time.Time
	Employees     []*domain.Profile
	Regions       []*domain.Region
	FederalStates []*domain.FederalState
	Shifts        []*domain.Shift // 已分配的班次，EmployeeID 不为空
	OpenShifts    []*domain.Shift
	Absences      []*domain.Absence
}

// DayCell: 某个员工在某一天的格子
type DayCell struct {
	Date     string            `json:"date"`
	Shifts   []*domain.Shift   `json:"shifts"`
	Absences []*domain.Absence `json:"absences"`
}

// EmployeeShifts: 某个员工整周的一行
type EmployeeShifts struct {
	Employee   *domain.Profile `json:"employee"`
	Days       []DayCell       `json:"days"`
	TotalHours float64         `json:"totalHours"`
}

// RegionGroup: 某个服务区下的所有员工行和该服务区的开放班次。
// Region 为 nil 时表示这一组员工还没有被分配到任何服务区。
type RegionGroup struct {
	Region         *domain.Region    `json:"region"`
	OpenShifts     []*domain.Shift   `json:"openShifts"`
	EmployeeShifts []*EmployeeShifts `json:"employeeShifts"`
}

// FederalStateGroup: 周视图的最外层分组。
// FederalState 为 nil 时表示这一组服务区没有归属的联邦州。
type FederalStateGroup struct {
	FederalState *domain.FederalState `json:"federalState"`
	RegionGroups []*RegionGroup       `json:"regionGroups"`
}
