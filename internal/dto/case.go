package dto

// ── Case 模块 DTO ──
//
// 日期字段统一使用 "2006-01-02" 字符串；更新请求中指针为 nil 表示不变，
// 空字符串表示清除。

// CreateCaseRequest 创建案件请求
type CreateCaseRequest struct {
	CaseName       string  `json:"case_name"       binding:"required,min=2,max=255"`
	CaseNumber     string  `json:"case_number"     binding:"omitempty,max=50"`
	CaseType       string  `json:"case_type"       binding:"required"`
	PractitionerID *string `json:"practitioner_id"`
}

// UpdateCaseRequest 更新案件请求（含参考点日期维护）
type UpdateCaseRequest struct {
	CaseName       *string `json:"case_name"   binding:"omitempty,min=2,max=255"`
	CaseNumber     *string `json:"case_number" binding:"omitempty,max=50"`
	Status         *string `json:"status"      binding:"omitempty,oneof=open closed"`
	PractitionerID *string `json:"practitioner_id"`

	AppointmentDate              *string `json:"appointment_date"`
	BoardMeetingDate             *string `json:"board_meeting_date"`
	BoardResolutionPassedDate    *string `json:"board_resolution_passed_date"`
	MembersMeetingDate           *string `json:"members_meeting_date"`
	DateOfMembersResolutions     *string `json:"date_of_members_resolutions"`
	MembersResolutionDate        *string `json:"members_resolution_date"`
	CreditorsDecisionsDate       *string `json:"creditors_decisions_date"`
	CreditorsDecisionPassedDate  *string `json:"creditors_decision_passed_date"`
	SubsequentDecisionPassedDate *string `json:"subsequent_decision_passed_date"`
}

// SetDiaryLockRequest 手工锁定 / 解锁 Diary 生成请求
type SetDiaryLockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// CaseResponse 案件信息响应
type CaseResponse struct {
	ID             string  `json:"id"`
	CaseName       string  `json:"case_name"`
	CaseNumber     string  `json:"case_number,omitempty"`
	CaseType       string  `json:"case_type"`
	Status         string  `json:"status"`
	PractitionerID *string `json:"practitioner_id,omitempty"`
	Practitioner   string  `json:"practitioner,omitempty"`
	DiaryLocked    bool    `json:"diary_locked"`

	AppointmentDate              string `json:"appointment_date,omitempty"`
	BoardMeetingDate             string `json:"board_meeting_date,omitempty"`
	BoardResolutionPassedDate    string `json:"board_resolution_passed_date,omitempty"`
	MembersMeetingDate           string `json:"members_meeting_date,omitempty"`
	DateOfMembersResolutions     string `json:"date_of_members_resolutions,omitempty"`
	MembersResolutionDate        string `json:"members_resolution_date,omitempty"`
	CreditorsDecisionsDate       string `json:"creditors_decisions_date,omitempty"`
	CreditorsDecisionPassedDate  string `json:"creditors_decision_passed_date,omitempty"`
	SubsequentDecisionPassedDate string `json:"subsequent_decision_passed_date,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// [自证通过] internal/dto/case.go
