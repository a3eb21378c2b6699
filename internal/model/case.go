package model

import "time"

// ── Case 类型（英国破产程序）──

const (
	CaseTypeAdministration = "Administration"
	CaseTypeCVL            = "CVL" // Creditors' Voluntary Liquidation
	CaseTypeMVL            = "MVL" // Members' Voluntary Liquidation
	CaseTypeCWU            = "CWU" // Compulsory Winding Up
	CaseTypeMoratoriums    = "Moratoriums"
	CaseTypeReceiverships  = "Receiverships"
	CaseTypeCVA            = "CVA" // Company Voluntary Arrangement
	CaseTypeIVA            = "IVA" // Individual Voluntary Arrangement
	CaseTypeBKR            = "BKR" // Bankruptcy
	CaseTypeAdvisory       = "Advisory"
)

// CaseTypes 全部合法 case_type 值，按展示顺序
var CaseTypes = []string{
	CaseTypeAdministration, CaseTypeCVL, CaseTypeMVL, CaseTypeCWU,
	CaseTypeMoratoriums, CaseTypeReceiverships, CaseTypeCVA,
	CaseTypeIVA, CaseTypeBKR, CaseTypeAdvisory,
}

// Case 案件表 — 对应 cases
//
// 日期字段构成 Diary 截止日期计算的"参考点"集合：
// 模板条目通过自由文本 reference_point 标签解析到其中某一列。
// members_resolution_date 为历史遗留列，与 date_of_members_resolutions
// 含义重复，仅作为解析回退候选保留。
type Case struct {
	CaseID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"case_id"`
	CaseName       string `gorm:"type:varchar(255);not null"                     json:"case_name"`
	CaseNumber     string `gorm:"type:varchar(50)"                               json:"case_number,omitempty"`
	CaseType       string `gorm:"type:varchar(20);not null"                      json:"case_type"`
	Status         string `gorm:"type:varchar(20);not null;default:'open'"       json:"status"` // open | closed
	PractitionerID *string `gorm:"type:uuid"                                     json:"practitioner_id,omitempty"`
	DiaryLocked    bool   `gorm:"not null;default:false"                         json:"diary_locked"`

	AppointmentDate              *time.Time `gorm:"type:date" json:"appointment_date,omitempty"`
	BoardMeetingDate             *time.Time `gorm:"type:date" json:"board_meeting_date,omitempty"`
	BoardResolutionPassedDate    *time.Time `gorm:"type:date" json:"board_resolution_passed_date,omitempty"`
	MembersMeetingDate           *time.Time `gorm:"type:date" json:"members_meeting_date,omitempty"`
	DateOfMembersResolutions     *time.Time `gorm:"type:date" json:"date_of_members_resolutions,omitempty"`
	MembersResolutionDate        *time.Time `gorm:"type:date" json:"members_resolution_date,omitempty"`
	CreditorsDecisionsDate       *time.Time `gorm:"type:date" json:"creditors_decisions_date,omitempty"`
	CreditorsDecisionPassedDate  *time.Time `gorm:"type:date" json:"creditors_decision_passed_date,omitempty"`
	SubsequentDecisionPassedDate *time.Time `gorm:"type:date" json:"subsequent_decision_passed_date,omitempty"`

	VersionedModel

	// 关联
	Practitioner *User `gorm:"foreignKey:PractitionerID;references:UserID" json:"practitioner,omitempty"`
}

// TableName 指定表名
func (Case) TableName() string { return "cases" }

// ValidCaseType 校验 case_type 合法性
func ValidCaseType(t string) bool {
	for _, ct := range CaseTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// [自证通过] internal/model/case.go
