package model

import "time"

// 用户状态枚举
const (
	UserStatusDisabled = 0
	UserStatusEnabled  = 1
)

// User 用户表 — 对应 core_user
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string     `gorm:"type:varchar(50);not null"                      json:"username"`
	PasswordHash string     `gorm:"type:varchar(255);not null;default:''"          json:"-"`
	Name         string     `gorm:"type:varchar(100);not null;default:''"          json:"name"`
	Email        *string    `gorm:"type:varchar(64)"                               json:"email,omitempty"`
	Mobile       *string    `gorm:"type:varchar(20)"                               json:"mobile,omitempty"`
	Avatar       string     `gorm:"type:varchar(255);not null;default:''"          json:"avatar"`
	Gender       int        `gorm:"type:smallint;not null;default:0"               json:"gender"`
	UserType     int        `gorm:"type:smallint;not null;default:1"               json:"user_type"`
	UserStatus   int        `gorm:"type:smallint;not null;default:1"               json:"user_status"`
	IsSuperuser  bool       `gorm:"not null;default:false"                         json:"is_superuser"`
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	DeptID       *string    `gorm:"type:uuid;index"                                json:"dept_id,omitempty"`
	ManagerID    *string    `gorm:"type:uuid;index"                                json:"manager_id,omitempty"`
	Sort         int        `gorm:"not null;default:0"                             json:"sort"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	SoftDeleteModel

	// 关联
	Dept *Dept `gorm:"foreignKey:DeptID;references:DeptID" json:"dept,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "core_user" }

// CanDelete 系统超级管理员不允许删除
func (u *User) CanDelete() bool {
	return !u.IsSuperuser
}
