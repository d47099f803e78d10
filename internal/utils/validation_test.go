package utils

import (
	"testing"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

func TestNormalizeTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:00:00", "08:00:00", false},
		{"08:00", "08:00:00", false},
		{"23:59", "23:59:00", false},
		{"8:00", "", true},
		{"08:00:00:00", "", true},
		{"25:00", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := NormalizeTimeOfDay(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("NormalizeTimeOfDay(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeTimeOfDay(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeShiftWindow(t *testing.T) {
	cases := []struct {
		name     string
		date     string
		from     string
		to       string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{"valid", "2025-03-10", "08:00:00", "12:00:00", "08:00:00", "12:00:00", false},
		{"short form gets padded", "2025-03-10", "08:00", "12:00", "08:00:00", "12:00:00", false},
		{"bad date", "2025-3-10", "08:00:00", "12:00:00", "", "", true},
		{"bad time", "2025-03-10", "8:00", "12:00:00", "", "", true},
		{"from equals to", "2025-03-10", "08:00:00", "08:00:00", "", "", true},
		{"from equals to across formats", "2025-03-10", "08:00", "08:00:00", "", "", true},
		{"from after to", "2025-03-10", "13:00:00", "08:00:00", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := NormalizeShiftWindow(tc.date, tc.from, tc.to)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NormalizeShiftWindow(%s, %s, %s) = %v, wantErr %v", tc.date, tc.from, tc.to, err, tc.wantErr)
			}
			if from != tc.wantFrom || to != tc.wantTo {
				t.Errorf("NormalizeShiftWindow(%s, %s, %s) = (%s, %s), want (%s, %s)", tc.date, tc.from, tc.to, from, to, tc.wantFrom, tc.wantTo)
			}
		})
	}
}

func TestValidateAbsenceSpan(t *testing.T) {
	valid := &domain.Absence{
		StartDate: "2025-03-10",
		StartTime: "08:00:00",
		EndDate:   "2025-03-12",
		EndTime:   "18:00:00",
	}
	if err := ValidateAbsenceSpan(valid); err != nil {
		t.Errorf("合法的请假区间被拒绝: %v", err)
	}

	// 跨日的请假允许结束时间早于开始时间
	overnight := &domain.Absence{
		StartDate: "2025-03-10",
		StartTime: "20:00:00",
		EndDate:   "2025-03-11",
		EndTime:   "06:00:00",
	}
	if err := ValidateAbsenceSpan(overnight); err != nil {
		t.Errorf("跨日请假被拒绝: %v", err)
	}

	reversed := &domain.Absence{
		StartDate: "2025-03-12",
		StartTime: "08:00:00",
		EndDate:   "2025-03-10",
		EndTime:   "18:00:00",
	}
	if err := ValidateAbsenceSpan(reversed); err == nil {
		t.Error("结束日期早于开始日期的请假应该被拒绝")
	}

	sameDayReversed := &domain.Absence{
		StartDate: "2025-03-10",
		StartTime: "18:00:00",
		EndDate:   "2025-03-10",
		EndTime:   "08:00:00",
	}
	if err := ValidateAbsenceSpan(sameDayReversed); err == nil {
		t.Error("同一天内结束时间早于开始时间的请假应该被拒绝")
	}

	// 简写的时间会被就地补齐
	short := &domain.Absence{
		StartDate: "2025-03-10",
		StartTime: "08:00",
		EndDate:   "2025-03-10",
		EndTime:   "18:00",
	}
	if err := ValidateAbsenceSpan(short); err != nil {
		t.Fatalf("HH:MM 形式的请假时间被拒绝: %v", err)
	}
	if short.StartTime != "08:00:00" || short.EndTime != "18:00:00" {
		t.Errorf("请假时间没有被补齐: %s - %s", short.StartTime, short.EndTime)
	}
}

func TestValidateTemplateShifts(t *testing.T) {
	valid := []domain.TemplateShift{
		{DayOfWeek: 0, TimeFrom: "08:00:00", TimeTo: "12:00:00"},
		{DayOfWeek: 0, TimeFrom: "12:00:00", TimeTo: "16:00:00"},
		{DayOfWeek: 3, TimeFrom: "08:00:00", TimeTo: "12:00:00"},
	}
	if err := ValidateTemplateShifts(valid); err != nil {
		t.Errorf("合法的模板班次被拒绝: %v", err)
	}

	badDay := []domain.TemplateShift{
		{DayOfWeek: 7, TimeFrom: "08:00:00", TimeTo: "12:00:00"},
	}
	if err := ValidateTemplateShifts(badDay); err == nil {
		t.Error("星期超出范围的模板班次应该被拒绝")
	}

	conflict := []domain.TemplateShift{
		{DayOfWeek: 2, TimeFrom: "08:00:00", TimeTo: "12:00:00"},
		{DayOfWeek: 2, TimeFrom: "11:00:00", TimeTo: "14:00:00"},
	}
	if err := ValidateTemplateShifts(conflict); err == nil {
		t.Error("同一天内时间重叠的模板班次应该被拒绝")
	}

	// 不同天的相同时间段不算冲突
	sameTimeDifferentDay := []domain.TemplateShift{
		{DayOfWeek: 1, TimeFrom: "08:00:00", TimeTo: "12:00:00"},
		{DayOfWeek: 2, TimeFrom: "08:00:00", TimeTo: "12:00:00"},
	}
	if err := ValidateTemplateShifts(sameTimeDifferentDay); err != nil {
		t.Errorf("不同天的相同时间段被误判为冲突: %v", err)
	}

	// 简写时间会被补齐，混用两种格式时冲突照样能查出来
	mixed := []domain.TemplateShift{
		{DayOfWeek: 4, TimeFrom: "09:00", TimeTo: "10:00"},
		{DayOfWeek: 4, TimeFrom: "09:30:00", TimeTo: "10:30:00"},
	}
	if err := ValidateTemplateShifts(mixed); err == nil {
		t.Error("混用 HH:MM 和 HH:MM:SS 时的冲突没有被查出来")
	}
	if mixed[0].TimeFrom != "09:00:00" {
		t.Errorf("模板班次时间没有被补齐: %s", mixed[0].TimeFrom)
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	password := GenerateRandomPassword(12)
	if len(password) != 12 {
		t.Errorf("密码长度 = %d, 期望 12", len(password))
	}
}

func TestGenerateRandomOTP(t *testing.T) {
	otp := GenerateRandomOTP()
	if len(otp) != 6 {
		t.Errorf("OTP 长度 = %d, 期望 6", len(otp))
	}
	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Errorf("OTP 中出现非数字字符: %q", c)
		}
	}
}

func TestGenerateRandomShiftWindow(t *testing.T) {
	for i := 0; i < 100; i++ {
		from, to := GenerateRandomShiftWindow()
		if got, err := NormalizeTimeOfDay(from); err != nil || got != from {
			t.Fatalf("开始时间格式错误: %s (%v)", from, err)
		}
		if got, err := NormalizeTimeOfDay(to); err != nil || got != to {
			t.Fatalf("结束时间格式错误: %s (%v)", to, err)
		}
		if from >= to {
			t.Fatalf("时间段无效: %s - %s", from, to)
		}
	}
}
