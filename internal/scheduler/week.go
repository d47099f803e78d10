package scheduler

import "time"

const DateLayout = "2006-01-02"

// WeekStart 返回 now 所在的那一周的周一（零点）。
// 周日算作上一周的最后一天，因此周日要往前退 6 天。
func WeekStart(now time.Time) time.Time {
	weekday := int(now.Weekday())

	offset := 1 - weekday
	if weekday == 0 {
		offset = -6
	}

	monday := now.AddDate(0, 0, offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

// AddWeeks 把周锚点前后移动整周，用于上一周 / 下一周的翻页。
func AddWeeks(anchor time.Time, weeks int) time.Time {
	return anchor.AddDate(0, 0, 7*weeks)
}

// WeekDates 返回从 anchor 开始的连续 7 天，格式为 YYYY-MM-DD。
func WeekDates(anchor time.Time) []string {
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = anchor.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// WeekRange 返回周视图查询所使用的日期区间 [anchor, anchor+6]（闭区间）。
func WeekRange(anchor time.Time) (string, string) {
	return anchor.Format(DateLayout), anchor.AddDate(0, 0, 6).Format(DateLayout)
}
