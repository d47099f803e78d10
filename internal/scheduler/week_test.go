package scheduler

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"wednesday goes back two days", time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC), "2024-06-03"},
		{"sunday goes back six days", time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC), "2024-06-03"},
		{"monday stays", time.Date(2024, 6, 3, 23, 59, 0, 0, time.UTC), "2024-06-03"},
		{"saturday", time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), "2024-06-03"},
		{"across month boundary", time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC), "2024-07-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeekStart(tc.now)
			if got.Format(DateLayout) != tc.want {
				t.Errorf("WeekStart(%s) = %s, want %s", tc.now.Format(DateLayout), got.Format(DateLayout), tc.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("周一锚点应该是零点: %v", got)
			}
		})
	}
}

func TestAddWeeks(t *testing.T) {
	anchor := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	if got := AddWeeks(anchor, 1).Format(DateLayout); got != "2024-06-10" {
		t.Errorf("下一周 = %s", got)
	}
	if got := AddWeeks(anchor, -1).Format(DateLayout); got != "2024-05-27" {
		t.Errorf("上一周 = %s", got)
	}
	if got := AddWeeks(AddWeeks(anchor, 1), -1); !got.Equal(anchor) {
		t.Errorf("前后翻页应该回到原点: %v", got)
	}
}

func TestWeekDates(t *testing.T) {
	anchor := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	dates := WeekDates(anchor)

	if len(dates) != 7 {
		t.Fatalf("一周应该有 7 天, got %d", len(dates))
	}
	if dates[0] != "2024-06-03" || dates[6] != "2024-06-09" {
		t.Errorf("日期区间不对: %v", dates)
	}
}

func TestWeekRange(t *testing.T) {
	anchor := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	start, end := WeekRange(anchor)

	// 跨年的一周
	if start != "2024-12-30" || end != "2025-01-05" {
		t.Errorf("WeekRange = [%s, %s]", start, end)
	}
}
