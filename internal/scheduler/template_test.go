package scheduler

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

func TestPlanTemplateWeek(t *testing.T) {
	// 2024-06-03 是周一
	weekStart := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	t.Run("day offsets land on the right dates", func(t *testing.T) {
		shifts := []domain.TemplateShift{
			{DayOfWeek: 0, TimeFrom: "08:00:00", TimeTo: "12:00:00", ClientName: "Huber"},
			{DayOfWeek: 3, TimeFrom: "08:00:00", TimeTo: "12:00:00", ClientName: "Gruber"},
			{DayOfWeek: 6, TimeFrom: "08:00:00", TimeTo: "12:00:00", ClientName: "Bauer"},
		}

		planned := PlanTemplateWeek(shifts, weekStart)
		if len(planned) != 3 {
			t.Fatalf("len(planned) = %d, want 3", len(planned))
		}

		wantDates := []string{"2024-06-03", "2024-06-06", "2024-06-09"}
		for i, want := range wantDates {
			if planned[i].Date != want {
				t.Errorf("planned[%d].Date = %s, want %s", i, planned[i].Date, want)
			}
		}
	})

	t.Run("output is ordered by date then start time", func(t *testing.T) {
		shifts := []domain.TemplateShift{
			{DayOfWeek: 5, TimeFrom: "14:00:00", TimeTo: "16:00:00"},
			{DayOfWeek: 0, TimeFrom: "14:00:00", TimeTo: "16:00:00"},
			{DayOfWeek: 0, TimeFrom: "08:00:00", TimeTo: "12:00:00"},
		}

		planned := PlanTemplateWeek(shifts, weekStart)
		if planned[0].Date != "2024-06-03" || planned[0].TimeFrom != "08:00:00" {
			t.Errorf("第一条应该是周一早上的班次, got %+v", planned[0])
		}
		if planned[1].Date != "2024-06-03" || planned[1].TimeFrom != "14:00:00" {
			t.Errorf("第二条应该是周一下午的班次, got %+v", planned[1])
		}
		if planned[2].Date != "2024-06-08" {
			t.Errorf("第三条应该落在周六, got %+v", planned[2])
		}
	})

	t.Run("fields carry over", func(t *testing.T) {
		shifts := []domain.TemplateShift{
			{DayOfWeek: 1, TimeFrom: "09:00:00", TimeTo: "11:00:00", ClientName: "Leitner", Notes: "Schlüssel beim Nachbarn"},
		}

		planned := PlanTemplateWeek(shifts, weekStart)
		got := planned[0]
		if got.TimeFrom != "09:00:00" || got.TimeTo != "11:00:00" {
			t.Errorf("时间段没有原样带过来: %+v", got)
		}
		if got.ClientName != "Leitner" || got.Notes != "Schlüssel beim Nachbarn" {
			t.Errorf("客户和备注没有原样带过来: %+v", got)
		}
	})

	t.Run("empty template plans nothing", func(t *testing.T) {
		if planned := PlanTemplateWeek(nil, weekStart); len(planned) != 0 {
			t.Errorf("空模板不应该生成班次, got %d 条", len(planned))
		}
	})
}
