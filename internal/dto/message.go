package dto

import "time"

// ── 消息模块 DTO ──

// MessageListRequest 消息列表查询参数
type MessageListRequest struct {
	Page     int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	MsgType  string `form:"msg_type" binding:"omitempty,oneof=system workflow todo announcement"`
	Status   string `form:"status"   binding:"omitempty,oneof=unread read"`
}

// MessageResponse 消息响应
type MessageResponse struct {
	ID          string     `json:"id"`
	RecipientID string     `json:"recipient_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	MsgType     string     `json:"msg_type"`
	Status      string     `json:"status"`
	LinkType    string     `json:"link_type,omitempty"`
	LinkID      string     `json:"link_id,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	SenderID    *string    `json:"sender_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateMessageRequest 创建消息请求
type CreateMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Title       string `json:"title"        binding:"required,max=200"`
	Content     string `json:"content"      binding:"required"`
	MsgType     string `json:"msg_type"     binding:"omitempty,oneof=system workflow todo announcement"`
	LinkType    string `json:"link_type"    binding:"omitempty,max=50"`
	LinkID      string `json:"link_id"      binding:"omitempty,max=50"`
}

// UnreadCountResponse 未读消息数响应
type UnreadCountResponse struct {
	Total  int64            `json:"total"`
	ByType map[string]int64 `json:"by_type"`
}

// MarkAllReadRequest 全部标记已读请求
type MarkAllReadRequest struct {
	MsgType string `json:"msg_type" binding:"omitempty,oneof=system workflow todo announcement"`
}

// AffectedResponse 批量操作影响行数响应
type AffectedResponse struct {
	Count int64 `json:"count"`
}

// NotifySendRequest 发送通知请求
type NotifySendRequest struct {
	RecipientIDs []string               `json:"recipient_ids" binding:"required,min=1,dive,uuid"`
	Title        string                 `json:"title"         binding:"required,max=200"`
	Content      string                 `json:"content"       binding:"required"`
	Channels     []string               `json:"channels"`
	MsgType      string                 `json:"msg_type"  binding:"omitempty,oneof=system workflow todo announcement"`
	Context      map[string]interface{} `json:"context"`
	LinkType     string                 `json:"link_type" binding:"omitempty,max=50"`
	LinkID       string                 `json:"link_id"   binding:"omitempty,max=50"`
}
