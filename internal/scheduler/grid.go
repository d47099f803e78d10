package scheduler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

// 没有设置 sort_order 的记录统一排到最后
const missingSortOrder = 1 << 30

func sortOrderOf(order *int32) int {
	if order == nil {
		return missingSortOrder
	}
	return int(*order)
}

// minutesOf 把 HH:MM 或 HH:MM:SS 格式的时间换算成分钟数。
// 秒在排班场景下没有意义，直接忽略。
func minutesOf(t string) int {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

// ShiftHours 返回一个班次的时长（小时）。
func ShiftHours(shift *domain.Shift) float64 {
	return float64(minutesOf(shift.TimeTo)-minutesOf(shift.TimeFrom)) / 60
}

// BuildWeekGrid 把一周内的排班数据组装成 联邦州 -> 服务区 -> 员工 -> 天 的层级结构。
//
// 约定：
//   - 各层都按 sort_order 升序排列，没有 sort_order 的排在最后，再按名称稳定排序；
//   - 既没有员工也没有开放班次的服务区不出现在结果中；
//   - 没有分配服务区的员工被追加为结尾的一组（Region 为 nil），
//     没有归属联邦州的服务区同理（FederalState 为 nil）；
//   - 范围内的每一条班次和请假记录都恰好出现在一个格子里，不重复也不丢失。
func BuildWeekGrid(in *GridInput) []*FederalStateGroup {
	dates := WeekDates(in.WeekStart)

	// 员工、服务区、联邦州各自排好序，后面的分组直接保持这个顺序
	employees := make([]*domain.Profile, len(in.Employees))
	copy(employees, in.Employees)
	sort.SliceStable(employees, func(i, j int) bool {
		oi, oj := sortOrderOf(employees[i].SortOrder), sortOrderOf(employees[j].SortOrder)
		if oi != oj {
			return oi < oj
		}
		return employees[i].FullName < employees[j].FullName
	})

	regions := make([]*domain.Region, len(in.Regions))
	copy(regions, in.Regions)
	sort.SliceStable(regions, func(i, j int) bool {
		oi, oj := sortOrderOf(regions[i].SortOrder), sortOrderOf(regions[j].SortOrder)
		if oi != oj {
			return oi < oj
		}
		return regions[i].Name < regions[j].Name
	})

	states := make([]*domain.FederalState, len(in.FederalStates))
	copy(states, in.FederalStates)
	sort.SliceStable(states, func(i, j int) bool {
		oi, oj := sortOrderOf(states[i].SortOrder), sortOrderOf(states[j].SortOrder)
		if oi != oj {
			return oi < oj
		}
		return states[i].Name < states[j].Name
	})

	// 每个员工一行，按天切分班次和请假
	rows := make([]*EmployeeShifts, 0, len(employees))
	for _, employee := range employees {
		row := &EmployeeShifts{
			Employee: employee,
			Days:     make([]DayCell, len(dates)),
		}

		for i, date := range dates {
			cell := DayCell{
				Date:     date,
				Shifts:   make([]*domain.Shift, 0),
				Absences: make([]*domain.Absence, 0),
			}

			for _, shift := range in.Shifts {
				if shift.EmployeeID == nil || *shift.EmployeeID != employee.ID {
					continue
				}
				if shift.ShiftDate != date {
					continue
				}
				cell.Shifts = append(cell.Shifts, shift)
				row.TotalHours += ShiftHours(shift)
			}

			sort.SliceStable(cell.Shifts, func(a, b int) bool {
				return cell.Shifts[a].TimeFrom < cell.Shifts[b].TimeFrom
			})

			for _, absence := range in.Absences {
				if absence.EmployeeID != employee.ID {
					continue
				}
				if absence.CoversDate(date) {
					cell.Absences = append(cell.Absences, absence)
				}
			}

			row.Days[i] = cell
		}

		rows = append(rows, row)
	}

	// 按服务区分组
	regionGroups := make([]*RegionGroup, 0, len(regions))
	for _, region := range regions {
		group := &RegionGroup{
			Region:         region,
			OpenShifts:     make([]*domain.Shift, 0),
			EmployeeShifts: make([]*EmployeeShifts, 0),
		}

		for _, row := range rows {
			if row.Employee.RegionID != nil && *row.Employee.RegionID == region.ID {
				group.EmployeeShifts = append(group.EmployeeShifts, row)
			}
		}
		for _, shift := range in.OpenShifts {
			if shift.RegionID != nil && *shift.RegionID == region.ID {
				group.OpenShifts = append(group.OpenShifts, shift)
			}
		}

		sort.SliceStable(group.OpenShifts, func(a, b int) bool {
			if group.OpenShifts[a].ShiftDate != group.OpenShifts[b].ShiftDate {
				return group.OpenShifts[a].ShiftDate < group.OpenShifts[b].ShiftDate
			}
			return group.OpenShifts[a].TimeFrom < group.OpenShifts[b].TimeFrom
		})

		// 空的服务区不展示
		if len(group.EmployeeShifts) > 0 || len(group.OpenShifts) > 0 {
			regionGroups = append(regionGroups, group)
		}
	}

	// 没有分配服务区的员工追加为最后一组
	noRegionRows := make([]*EmployeeShifts, 0)
	for _, row := range rows {
		if row.Employee.RegionID == nil {
			noRegionRows = append(noRegionRows, row)
		}
	}
	if len(noRegionRows) > 0 {
		regionGroups = append(regionGroups, &RegionGroup{
			Region:         nil,
			OpenShifts:     make([]*domain.Shift, 0),
			EmployeeShifts: noRegionRows,
		})
	}

	// 按联邦州分组
	stateGroups := make([]*FederalStateGroup, 0, len(states))
	claimed := make(map[*RegionGroup]bool)

	for _, state := range states {
		group := &FederalStateGroup{
			FederalState: state,
			RegionGroups: make([]*RegionGroup, 0),
		}

		for _, rg := range regionGroups {
			if rg.Region != nil && rg.Region.FederalStateID != nil && *rg.Region.FederalStateID == state.ID {
				group.RegionGroups = append(group.RegionGroups, rg)
				claimed[rg] = true
			}
		}

		if len(group.RegionGroups) > 0 {
			stateGroups = append(stateGroups, group)
		}
	}

	// 没有归属联邦州的服务区（以及没有服务区的员工组）追加为最后一组
	orphans := make([]*RegionGroup, 0)
	for _, rg := range regionGroups {
		if !claimed[rg] {
			orphans = append(orphans, rg)
		}
	}
	if len(orphans) > 0 {
		stateGroups = append(stateGroups, &FederalStateGroup{
			FederalState: nil,
			RegionGroups: orphans,
		})
	}

	return stateGroups
}
