package handler

import "fast-admin/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Dept         *DeptHandler
	User         *UserHandler
	Message      *MessageHandler
	Announcement *AnnouncementHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Dept:         NewDeptHandler(svc.Dept),
		User:         NewUserHandler(svc.User),
		Message:      NewMessageHandler(svc.Message, svc.Notify),
		Announcement: NewAnnouncementHandler(svc.Announcement),
		Export:       NewExportHandler(svc.Export),
	}
}
