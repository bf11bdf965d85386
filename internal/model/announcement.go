package model

import "time"

// 公告状态枚举
const (
	AnnouncementStatusDraft     = "draft"
	AnnouncementStatusPublished = "published"
	AnnouncementStatusExpired   = "expired"
)

// Announcement 公告表 — 对应 core_announcement
//
// 状态机：draft → published（单向，由 Publish 守卫）；
// expire_time 到期后 status 不自动翻转，可见性查询额外按过期时间过滤。
type Announcement struct {
	AnnouncementID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title          string      `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string      `gorm:"type:text;not null"                             json:"content"`
	Summary        string      `gorm:"type:varchar(500);not null;default:''"          json:"summary"`
	Status         string      `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Priority       int         `gorm:"type:smallint;not null;default:0;index"         json:"priority"` // 0普通/1重要/2紧急
	IsTop          bool        `gorm:"not null;default:false"                         json:"is_top"`
	TargetType     string      `gorm:"type:varchar(20);not null;default:'all'"        json:"target_type"`
	TargetIDs      StringArray `gorm:"type:jsonb;not null;default:'[]'"               json:"target_ids"`
	PublishTime    *time.Time  `json:"publish_time,omitempty"`
	ExpireTime     *time.Time  `json:"expire_time,omitempty"`
	PublisherID    *string     `gorm:"type:uuid"                                      json:"publisher_id,omitempty"`
	ReadCount      int         `gorm:"not null;default:0"                             json:"read_count"`
	SoftDeleteModel

	// 响应期标注，不落库
	IsRead bool `gorm:"-" json:"is_read"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "core_announcement" }

// Expired 判断公告在给定时刻是否已过期
func (a *Announcement) Expired(now time.Time) bool {
	return a.ExpireTime != nil && !a.ExpireTime.After(now)
}

// AnnouncementRead 公告阅读记录表 — 对应 core_announcement_read
// (announcement_id, user_id) 唯一，首次阅读创建一条
type AnnouncementRead struct {
	ID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AnnouncementID string     `gorm:"type:uuid;not null;uniqueIndex:ux_announcement_read,priority:1" json:"announcement_id"`
	UserID         string     `gorm:"type:uuid;not null;uniqueIndex:ux_announcement_read,priority:2" json:"user_id"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (AnnouncementRead) TableName() string { return "core_announcement_read" }
