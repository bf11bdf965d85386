package model

import "time"

// 消息类型枚举
const (
	MsgTypeSystem       = "system"
	MsgTypeWorkflow     = "workflow"
	MsgTypeTodo         = "todo"
	MsgTypeAnnouncement = "announcement"
)

// 消息状态枚举
const (
	MsgStatusUnread = "unread"
	MsgStatusRead   = "read"
)

// Message 站内消息表 — 对应 core_message
type Message struct {
	MessageID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RecipientID string     `gorm:"type:uuid;not null;index:ix_message_recipient_status,priority:1;index:ix_message_recipient_type,priority:1" json:"recipient_id"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Content     string     `gorm:"type:text;not null"                             json:"content"`
	MsgType     string     `gorm:"type:varchar(20);not null;default:'system';index:ix_message_recipient_type,priority:2" json:"msg_type"`
	Status      string     `gorm:"type:varchar(20);not null;default:'unread';index:ix_message_recipient_status,priority:2" json:"status"`
	LinkType    string     `gorm:"type:varchar(50);not null;default:''"           json:"link_type"`
	LinkID      string     `gorm:"type:varchar(50);not null;default:''"           json:"link_id"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	SenderID    *string    `gorm:"type:uuid"                                      json:"sender_id,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Message) TableName() string { return "core_message" }
