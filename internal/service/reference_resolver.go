package service

import (
	"strings"
	"time"

	"caseflow/backend/internal/model"
)

// ── 参考点解析器 ──────────────────────────────────────────────
//
// 职责：将模板条目中人工书写的参考点标签（如 "Date of Members' Resolutions"、
// "Creditors Meeting"）解析为 Case 上的具体日期字段。
//
// 解析策略：
//   1. 归一化（trim + 小写）后查精确匹配表
//   2. 未命中时按固定优先级走关键词回退规则，每条规则依序取
//      首个非空候选字段
//   3. 全部未命中返回 nil（awaiting_reference 条件）
//
// 标签是自由文本，精确表必须随模板词汇的增长维护；
// 回退规则的优先级（board+resolution 先于 board+meeting 等）
// 取自既有模板数据的观察行为。
// ─────────────────────────────────────────────────────────────

// caseDateGetter 从 Case 上取某个参考点日期
type caseDateGetter func(*model.Case) *time.Time

var (
	getAppointmentDate              = func(c *model.Case) *time.Time { return c.AppointmentDate }
	getBoardMeetingDate             = func(c *model.Case) *time.Time { return c.BoardMeetingDate }
	getBoardResolutionPassedDate    = func(c *model.Case) *time.Time { return c.BoardResolutionPassedDate }
	getMembersMeetingDate           = func(c *model.Case) *time.Time { return c.MembersMeetingDate }
	getDateOfMembersResolutions     = func(c *model.Case) *time.Time { return c.DateOfMembersResolutions }
	getMembersResolutionDate        = func(c *model.Case) *time.Time { return c.MembersResolutionDate }
	getCreditorsDecisionsDate       = func(c *model.Case) *time.Time { return c.CreditorsDecisionsDate }
	getCreditorsDecisionPassedDate  = func(c *model.Case) *time.Time { return c.CreditorsDecisionPassedDate }
	getSubsequentDecisionPassedDate = func(c *model.Case) *time.Time { return c.SubsequentDecisionPassedDate }
)

// referencePointExact 精确匹配表：归一化标签 → Case 日期字段
var referencePointExact = map[string]caseDateGetter{
	// 任命
	"appointment":             getAppointmentDate,
	"appointment date":        getAppointmentDate,
	"date of appointment":     getAppointmentDate,
	"date of the appointment": getAppointmentDate,

	// 董事会会议 / 决议
	"board meeting":             getBoardMeetingDate,
	"board meeting date":        getBoardMeetingDate,
	"date of board meeting":     getBoardMeetingDate,
	"board resolution":          getBoardResolutionPassedDate,
	"board resolutions":         getBoardResolutionPassedDate,
	"board resolution passed":   getBoardResolutionPassedDate,
	"date of board resolutions": getBoardResolutionPassedDate,

	// 股东会议 / 决议
	"members meeting":                getMembersMeetingDate,
	"members' meeting":               getMembersMeetingDate,
	"date of members meeting":        getMembersMeetingDate,
	"date of members' meeting":       getMembersMeetingDate,
	"members resolutions":            getDateOfMembersResolutions,
	"members' resolutions":           getDateOfMembersResolutions,
	"date of members resolutions":    getDateOfMembersResolutions,
	"date of members' resolutions":   getDateOfMembersResolutions,

	// 债权人会议 / 决定
	"creditors meeting":               getCreditorsDecisionsDate,
	"creditors' meeting":              getCreditorsDecisionsDate,
	"creditors decision":              getCreditorsDecisionsDate,
	"creditors' decision":             getCreditorsDecisionsDate,
	"creditors decision date":         getCreditorsDecisionsDate,
	"creditors decision passed":       getCreditorsDecisionPassedDate,
	"creditors' decision passed":      getCreditorsDecisionPassedDate,
	"date creditors decision passed":  getCreditorsDecisionPassedDate,

	// 后续债权人决定
	"subsequent creditors decision":  getSubsequentDecisionPassedDate,
	"subsequent creditors' decision": getSubsequentDecisionPassedDate,
	"subsequent decision passed":     getSubsequentDecisionPassedDate,
}

// resolveReferenceDate 将参考点标签解析为 Case 上的日期
// 标签为空、Case 为空或无法解析时返回 nil
func resolveReferenceDate(label string, c *model.Case) *time.Time {
	if c == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return nil
	}

	// 1. 精确匹配
	if getter, ok := referencePointExact[normalized]; ok {
		if d := getter(c); d != nil {
			return d
		}
	}

	// 2. 关键词回退，按优先级取首个非空候选
	contains := func(s string) bool { return strings.Contains(normalized, s) }

	switch {
	case contains("appointment"):
		return firstNonNilDate(c, getAppointmentDate)
	case contains("board") && contains("resolution"):
		return firstNonNilDate(c, getBoardResolutionPassedDate, getBoardMeetingDate)
	case contains("board") && contains("meeting"):
		return firstNonNilDate(c, getBoardMeetingDate, getBoardResolutionPassedDate)
	case contains("members") && (contains("resolution") || contains("winding up")):
		return firstNonNilDate(c, getDateOfMembersResolutions, getMembersResolutionDate, getMembersMeetingDate)
	case contains("members") && contains("meeting"):
		return firstNonNilDate(c, getMembersMeetingDate, getDateOfMembersResolutions)
	case contains("creditor"):
		return firstNonNilDate(c, getCreditorsDecisionsDate, getCreditorsDecisionPassedDate)
	}

	return nil
}

// firstNonNilDate 依序返回首个非空候选字段
func firstNonNilDate(c *model.Case, getters ...caseDateGetter) *time.Time {
	for _, g := range getters {
		if d := g(c); d != nil {
			return d
		}
	}
	return nil
}

// [自证通过] internal/service/reference_resolver.go
