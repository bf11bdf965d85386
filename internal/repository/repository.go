package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Dept         DeptRepository
	User         UserRepository
	Message      MessageRepository
	Announcement AnnouncementRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Dept:         NewDeptRepo(db),
		User:         NewUserRepo(db),
		Message:      NewMessageRepo(db),
		Announcement: NewAnnouncementRepo(db),
	}
}
