package domain

import "time"

// TemplateShift 中的 DayOfWeek 以 0 表示周一，6 表示周日，
// 和周视图中一周从周一开始的约定保持一致。
type TemplateShift struct {
	ID         int64  `json:"id"`
	DayOfWeek  int32  `json:"dayOfWeek"`
	TimeFrom   string `json:"timeFrom"`
	TimeTo     string `json:"timeTo"`
	ClientName string `json:"clientName"`
	Notes      string `json:"notes"`
}

type WeeklyTemplate struct {
	ID         int64           `json:"id"`
	EmployeeID int64           `json:"employeeID"`
	Name       string          `json:"name"`
	Shifts     []TemplateShift `json:"shifts"`
	CreatedAt  time.Time       `json:"createdAt"`
	Version    int32           `json:"-"`
}
