package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

func ValidateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("日期 %s 格式错误，应为 YYYY-MM-DD", date)
	}
	return nil
}

// NormalizeTimeOfDay 接受 HH:MM 或 HH:MM:SS，统一返回 HH:MM:SS。
// 存储和比较都只用补齐秒数之后的形式，保证字典序比较可靠。
func NormalizeTimeOfDay(value string) (string, error) {
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t.Format(timeLayout), nil
	}
	if t, err := time.Parse(shortTimeLayout, value); err == nil {
		return t.Format(timeLayout), nil
	}
	return "", fmt.Errorf("时间 %s 格式错误，应为 HH:MM 或 HH:MM:SS", value)
}

// NormalizeShiftWindow 检查班次的日期和时间段并返回补齐后的时间。
// 时间段按半开区间处理，要求开始时间严格早于结束时间。
func NormalizeShiftWindow(date, timeFrom, timeTo string) (string, string, error) {
	if err := ValidateDate(date); err != nil {
		return "", "", err
	}

	from, err := NormalizeTimeOfDay(timeFrom)
	if err != nil {
		return "", "", err
	}
	to, err := NormalizeTimeOfDay(timeTo)
	if err != nil {
		return "", "", err
	}

	if from >= to {
		return "", "", errors.New("结束时间必须晚于开始时间")
	}
	return from, to, nil
}

// ValidateAbsenceSpan 检查请假区间的日期和时间，
// 并把两端的时间就地补齐成 HH:MM:SS。
func ValidateAbsenceSpan(absence *domain.Absence) error {
	if err := ValidateDate(absence.StartDate); err != nil {
		return err
	}
	if err := ValidateDate(absence.EndDate); err != nil {
		return err
	}

	startTime, err := NormalizeTimeOfDay(absence.StartTime)
	if err != nil {
		return err
	}
	endTime, err := NormalizeTimeOfDay(absence.EndTime)
	if err != nil {
		return err
	}
	absence.StartTime, absence.EndTime = startTime, endTime

	if absence.StartDate > absence.EndDate {
		return errors.New("请假结束日期不能早于开始日期")
	}
	if absence.StartDate == absence.EndDate && absence.StartTime >= absence.EndTime {
		return errors.New("请假结束时间必须晚于开始时间")
	}
	return nil
}

// ValidateTemplateShifts 检查周模板中的每一条班次并就地补齐时间，
// 同时保证同一天内的班次之间互不重叠。
func ValidateTemplateShifts(shifts []domain.TemplateShift) error {
	for i := range shifts {
		shift := &shifts[i]
		if shift.DayOfWeek < 0 || shift.DayOfWeek > 6 {
			return fmt.Errorf("第 %d 条班次的星期无效", i+1)
		}

		timeFrom, err := NormalizeTimeOfDay(shift.TimeFrom)
		if err != nil {
			return fmt.Errorf("第 %d 条班次的开始时间格式错误", i+1)
		}
		timeTo, err := NormalizeTimeOfDay(shift.TimeTo)
		if err != nil {
			return fmt.Errorf("第 %d 条班次的结束时间格式错误", i+1)
		}
		shift.TimeFrom, shift.TimeTo = timeFrom, timeTo

		if shift.TimeFrom >= shift.TimeTo {
			return fmt.Errorf("第 %d 条班次的结束时间必须晚于开始时间", i+1)
		}
	}

	for i := 0; i < len(shifts); i++ {
		for j := i + 1; j < len(shifts); j++ {
			if shifts[i].DayOfWeek != shifts[j].DayOfWeek {
				continue
			}
			if shifts[i].TimeFrom < shifts[j].TimeTo && shifts[i].TimeTo > shifts[j].TimeFrom {
				return fmt.Errorf("第 %d 条班次和第 %d 条班次的时间冲突", i+1, j+1)
			}
		}
	}

	return nil
}
