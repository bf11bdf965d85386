package dto

import "time"

// ── 部门模块 DTO ──

// CreateDeptRequest 创建部门请求
type CreateDeptRequest struct {
	Name        string  `json:"name"        binding:"required,min=1,max=64"`
	Code        *string `json:"code"        binding:"omitempty,max=32"`
	DeptType    string  `json:"dept_type"   binding:"omitempty,max=20"`
	Phone       *string `json:"phone"       binding:"omitempty,max=20"`
	Email       *string `json:"email"       binding:"omitempty,email,max=64"`
	Status      *bool   `json:"status"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"   binding:"omitempty,uuid"`
	LeadID      *string `json:"lead_id"     binding:"omitempty,uuid"`
	Sort        int     `json:"sort"`
}

// UpdateDeptRequest 更新部门请求，所有字段可选。
// parent_id 与当前值不一致时直接拒绝，换父必须走 Move 接口
type UpdateDeptRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=64"`
	Code        *string `json:"code"        binding:"omitempty,max=32"`
	DeptType    *string `json:"dept_type"   binding:"omitempty,max=20"`
	Phone       *string `json:"phone"       binding:"omitempty,max=20"`
	Email       *string `json:"email"       binding:"omitempty,email,max=64"`
	Status      *bool   `json:"status"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"   binding:"omitempty,uuid"`
	LeadID      *string `json:"lead_id"     binding:"omitempty,uuid"`
	Sort        *int    `json:"sort"`
}

// DeptResponse 部门响应
type DeptResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Code            *string    `json:"code,omitempty"`
	DeptType        string     `json:"dept_type"`
	DeptTypeDisplay string     `json:"dept_type_display"`
	Phone           *string    `json:"phone,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Status          bool       `json:"status"`
	Description     *string    `json:"description,omitempty"`
	ParentID        *string    `json:"parent_id,omitempty"`
	LeadID          *string    `json:"lead_id,omitempty"`
	Sort            int        `json:"sort"`
	Level           int        `json:"level"`
	Path            string     `json:"path"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DeptTreeNode 部门树形节点
type DeptTreeNode struct {
	DeptResponse
	Children []*DeptTreeNode `json:"children"`
}

// DeptCountedNode 带子部门数/用户数的部门节点（搜索、按父查询使用）
type DeptCountedNode struct {
	DeptResponse
	ChildCount int64              `json:"child_count"`
	UserCount  int64              `json:"user_count"`
	Children   []*DeptCountedNode `json:"children,omitempty"`
}

// MoveDeptRequest 移动部门请求
type MoveDeptRequest struct {
	DeptID      string  `json:"dept_id"       binding:"required,uuid"`
	NewParentID *string `json:"new_parent_id" binding:"omitempty,uuid"`
}

// DeptBatchDeleteRequest 批量删除部门请求
type DeptBatchDeleteRequest struct {
	IDs  []string `json:"ids"  binding:"required,min=1,dive,uuid"`
	Hard bool     `json:"hard"`
}

// DeptBatchDeleteResponse 批量删除部门响应
type DeptBatchDeleteResponse struct {
	Count     int      `json:"count"`
	FailedIDs []string `json:"failed_ids"`
}

// DeptBatchStatusRequest 批量更新部门状态请求
type DeptBatchStatusRequest struct {
	IDs    []string `json:"ids"    binding:"required,min=1,dive,uuid"`
	Status *bool    `json:"status" binding:"required"`
}

// DeptStatsResponse 部门统计响应
type DeptStatsResponse struct {
	TotalCount    int64            `json:"total_count"`
	ActiveCount   int64            `json:"active_count"`
	InactiveCount int64            `json:"inactive_count"`
	RootCount     int64            `json:"root_count"`
	TypeStats     map[string]int64 `json:"type_stats"`
	MaxLevel      int              `json:"max_level"`
}

// DeptUsersRequest 部门添加/移除用户请求
type DeptUsersRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1,dive,uuid"`
}
