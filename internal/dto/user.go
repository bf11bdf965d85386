package dto

import "time"

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username  string  `json:"username"   binding:"required,min=2,max=50"`
	Password  string  `json:"password"   binding:"required,min=6,max=64"`
	Name      string  `json:"name"       binding:"omitempty,max=100"`
	Email     *string `json:"email"      binding:"omitempty,email,max=64"`
	Mobile    *string `json:"mobile"     binding:"omitempty,max=20"`
	Avatar    string  `json:"avatar"     binding:"omitempty,max=255"`
	Gender    int     `json:"gender"     binding:"omitempty,oneof=0 1 2"`
	UserType  int     `json:"user_type"`
	DeptID    *string `json:"dept_id"    binding:"omitempty,uuid"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
	Sort      int     `json:"sort"`
}

// UpdateUserRequest 更新用户请求 — 所有字段可选
type UpdateUserRequest struct {
	Username   *string `json:"username"    binding:"omitempty,min=2,max=50"`
	Name       *string `json:"name"        binding:"omitempty,max=100"`
	Email      *string `json:"email"       binding:"omitempty,email,max=64"`
	Mobile     *string `json:"mobile"      binding:"omitempty,max=20"`
	Avatar     *string `json:"avatar"      binding:"omitempty,max=255"`
	Gender     *int    `json:"gender"      binding:"omitempty,oneof=0 1 2"`
	UserType   *int    `json:"user_type"`
	UserStatus *int    `json:"user_status" binding:"omitempty,oneof=0 1"`
	DeptID     *string `json:"dept_id"     binding:"omitempty,uuid"`
	ManagerID  *string `json:"manager_id"  binding:"omitempty,uuid"`
	Sort       *int    `json:"sort"`
}

// UpdateProfileRequest 用户更新个人信息请求（不含管理字段）
type UpdateProfileRequest struct {
	Name   *string `json:"name"   binding:"omitempty,max=100"`
	Email  *string `json:"email"  binding:"omitempty,email,max=64"`
	Mobile *string `json:"mobile" binding:"omitempty,max=20"`
	Avatar *string `json:"avatar" binding:"omitempty,max=255"`
	Gender *int    `json:"gender" binding:"omitempty,oneof=0 1 2"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Page       int     `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize   int     `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Name       string  `form:"name"`
	Username   string  `form:"username"`
	Mobile     string  `form:"mobile"`
	Email      string  `form:"email"`
	UserStatus *int    `form:"user_status"`
	UserType   *int    `form:"user_type"`
	DeptID     *string `form:"dept_id" binding:"omitempty,uuid"`
}

// UserResponse 用户响应
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Email       *string    `json:"email,omitempty"`
	Mobile      *string    `json:"mobile,omitempty"`
	Avatar      string     `json:"avatar"`
	Gender      int        `json:"gender"`
	UserType    int        `json:"user_type"`
	UserStatus  int        `json:"user_status"`
	IsSuperuser bool       `json:"is_superuser"`
	IsActive    bool       `json:"is_active"`
	DeptID      *string    `json:"dept_id,omitempty"`
	ManagerID   *string    `json:"manager_id,omitempty"`
	Sort        int        `json:"sort"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserSimple 用户简单输出（用于选择器）
type UserSimple struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	Email    *string `json:"email,omitempty"`
	Mobile   *string `json:"mobile,omitempty"`
	DeptName *string `json:"dept_name,omitempty"`
}

// UserSimpleListRequest 用户简单列表查询参数
type UserSimpleListRequest struct {
	UserStatus *int    `form:"user_status"`
	DeptID     *string `form:"dept_id" binding:"omitempty,uuid"`
}

// CheckUniqueRequest 唯一性检查参数
type CheckUniqueRequest struct {
	Field     string  `form:"field"      binding:"required,oneof=username email mobile"`
	Value     string  `form:"value"      binding:"required"`
	ExcludeID *string `form:"exclude_id" binding:"omitempty,uuid"`
}

// UserBatchDeleteRequest 批量删除用户请求
type UserBatchDeleteRequest struct {
	IDs  []string `json:"ids" binding:"required,min=1,dive,uuid"`
	Hard bool     `json:"hard"`
}

// UserBatchDeleteResponse 批量删除用户响应
type UserBatchDeleteResponse struct {
	SuccessCount int      `json:"success_count"`
	FailedIDs    []string `json:"failed_ids"`
}

// UserBatchStatusRequest 批量更新用户状态请求
type UserBatchStatusRequest struct {
	IDs        []string `json:"ids"         binding:"required,min=1,dive,uuid"`
	UserStatus *int     `json:"user_status" binding:"required,oneof=0 1"`
}

// ResetPasswordRequest 管理员重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// ChangePasswordRequest 用户修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}
