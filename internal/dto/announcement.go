package dto

import "time"

// ── 公告模块 DTO ──

// CreateAnnouncementRequest 创建公告请求
type CreateAnnouncementRequest struct {
	Title      string     `json:"title"       binding:"required,max=200"`
	Content    string     `json:"content"     binding:"required"`
	Summary    string     `json:"summary"     binding:"omitempty,max=500"`
	Priority   int        `json:"priority"    binding:"omitempty,oneof=0 1 2"`
	IsTop      bool       `json:"is_top"`
	TargetType string     `json:"target_type" binding:"omitempty,oneof=all dept role user"`
	TargetIDs  []string   `json:"target_ids"`
	ExpireTime *time.Time `json:"expire_time"`
}

// UpdateAnnouncementRequest 更新公告请求 — 所有字段可选
type UpdateAnnouncementRequest struct {
	Title      *string    `json:"title"       binding:"omitempty,max=200"`
	Content    *string    `json:"content"`
	Summary    *string    `json:"summary"     binding:"omitempty,max=500"`
	Priority   *int       `json:"priority"    binding:"omitempty,oneof=0 1 2"`
	IsTop      *bool      `json:"is_top"`
	TargetType *string    `json:"target_type" binding:"omitempty,oneof=all dept role user"`
	TargetIDs  []string   `json:"target_ids"`
	ExpireTime *time.Time `json:"expire_time"`
}

// AnnouncementListRequest 公告列表查询参数（管理端）
type AnnouncementListRequest struct {
	Page     int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"  binding:"omitempty,oneof=draft published expired"`
	Keyword  string `form:"keyword" binding:"omitempty,max=64"`
}

// MyAnnouncementListRequest 用户可见公告列表查询参数
type MyAnnouncementListRequest struct {
	Page       int  `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize   int  `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	UnreadOnly bool `form:"unread_only"`
}

// AnnouncementResponse 公告响应
type AnnouncementResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Summary     string     `json:"summary,omitempty"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	IsTop       bool       `json:"is_top"`
	TargetType  string     `json:"target_type"`
	TargetIDs   []string   `json:"target_ids"`
	PublishTime *time.Time `json:"publish_time,omitempty"`
	ExpireTime  *time.Time `json:"expire_time,omitempty"`
	PublisherID *string    `json:"publisher_id,omitempty"`
	ReadCount   int        `json:"read_count"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AnnouncementReader 公告阅读者
type AnnouncementReader struct {
	UserID   string     `json:"user_id"`
	UserName string     `json:"user_name"`
	ReadAt   *time.Time `json:"read_at,omitempty"`
}

// AnnouncementReadStats 公告阅读统计响应
type AnnouncementReadStats struct {
	TotalRead int                  `json:"total_read"`
	Readers   []AnnouncementReader `json:"readers"`
}
