package domain

import "time"

type Absence struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeID"`
	StartDate  string    `json:"startDate"`
	StartTime  string    `json:"startTime"`
	EndDate    string    `json:"endDate"`
	EndTime    string    `json:"endTime"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}

// CoversDate 判断某一天是否落在请假区间内，day 为 YYYY-MM-DD 格式。
func (a *Absence) CoversDate(day string) bool {
	return a.StartDate <= day && day <= a.EndDate
}
