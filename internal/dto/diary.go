package dto

// ── Case Diary 模块 DTO ──

// DiaryEntryResponse Diary 条目响应
type DiaryEntryResponse struct {
	ID             string `json:"id"`
	CaseID         string `json:"case_id"`
	EntryID        string `json:"entry_id"`
	Category       string `json:"category,omitempty"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ReferencePoint string `json:"reference_point,omitempty"`
	TimeOffset     string `json:"time_offset,omitempty"`
	DeadlineDate   string `json:"deadline_date,omitempty"` // "2006-01-02"，未能计算时为空
	Status         string `json:"status"`
	Notes          string `json:"notes"`
	CompletedDate  string `json:"completed_date,omitempty"`
	SortOrder      int    `json:"sort_order"`
}

// UpdateDiaryEntryRequest 更新 Diary 条目请求
// notes 与 completed_date 是用户仅有的两个可直接修改字段；
// completed_date 空字符串表示清除完成标记
type UpdateDiaryEntryRequest struct {
	Notes         *string `json:"notes"`
	CompletedDate *string `json:"completed_date"`
}

// GenerateDiaryResponse 生成 Diary 响应
type GenerateDiaryResponse struct {
	CreatedCount int  `json:"created_count"`
	DiaryLocked  bool `json:"diary_locked"`
}

// [自证通过] internal/dto/diary.go
