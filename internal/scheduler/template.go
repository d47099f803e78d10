package scheduler

import (
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

// PlannedShift: 周模板展开后要生成的一条具体班次
type PlannedShift struct {
	Date       string
	TimeFrom   string
	TimeTo     string
	ClientName string
	Notes      string
}

// PlanTemplateWeek 把周模板展开成从 weekStart（周一）开始的那一周的具体班次。
// DayOfWeek 0 落在 weekStart 当天，6 落在周日。
// 结果按 (日期, 开始时间) 排序，套用时冲突报错会落在最早的一条上。
func PlanTemplateWeek(shifts []domain.TemplateShift, weekStart time.Time) []PlannedShift {
	planned := make([]PlannedShift, 0, len(shifts))
	for _, ts := range shifts {
		planned = append(planned, PlannedShift{
			Date:       weekStart.AddDate(0, 0, int(ts.DayOfWeek)).Format(DateLayout),
			TimeFrom:   ts.TimeFrom,
			TimeTo:     ts.TimeTo,
			ClientName: ts.ClientName,
			Notes:      ts.Notes,
		})
	}

	sort.SliceStable(planned, func(i, j int) bool {
		if planned[i].Date != planned[j].Date {
			return planned[i].Date < planned[j].Date
		}
		return planned[i].TimeFrom < planned[j].TimeFrom
	})

	return planned
}
