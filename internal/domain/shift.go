package domain

import "time"

// Shift 是一次护理上门服务的预约。
// EmployeeID 为空时表示这是一个还没有人认领的开放班次，
// 此时 RegionID 标记这个班次属于哪一个服务区。
// 日期一律使用 YYYY-MM-DD 格式，时间一律使用 HH:MM:SS 格式，
// 这两种格式下字符串的字典序比较和实际时间先后是一致的。
type Shift struct {
	ID                 int64     `json:"id"`
	EmployeeID         *int64    `json:"employeeID"`
	ShiftDate          string    `json:"shiftDate"`
	TimeFrom           string    `json:"timeFrom"`
	TimeTo             string    `json:"timeTo"`
	ClientName         string    `json:"clientName"`
	Notes              string    `json:"notes"`
	RegionID           *int64    `json:"regionID"`
	OpenShift          bool      `json:"openShift"`
	SeekingReplacement bool      `json:"seekingReplacement"`
	OriginalEmployeeID *int64    `json:"originalEmployeeID"`
	CreatedBy          *int64    `json:"createdBy"`
	CreatedAt          time.Time `json:"createdAt"`
	Version            int32     `json:"-"`
}
