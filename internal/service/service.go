package service

import (
	"go.uber.org/zap"

	"fast-admin/backend/internal/repository"
	"fast-admin/backend/pkg/jwt"
	"fast-admin/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Dept         DeptService
	User         UserService
	Message      MessageService
	Announcement AnnouncementService
	Notify       NotifyService
	Export       ExportService
}

// NewService 创建 Service 聚合。cache 可为 nil（降级为直查数据库）
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	logger *zap.Logger,
) *Service {
	deptSvc := NewDeptService(repo, logger)
	messageSvc := NewMessageService(repo, cache, logger)

	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, cache, logger),
		Dept:         deptSvc,
		User:         NewUserService(repo, deptSvc, logger),
		Message:      messageSvc,
		Announcement: NewAnnouncementService(repo, logger),
		Notify:       NewNotifyService(messageSvc, logger),
		Export:       NewExportService(repo, logger),
	}
}
