package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/service"
	"fast-admin/backend/pkg/response"
)

// AnnouncementHandler 公告模块 HTTP 处理器
type AnnouncementHandler struct {
	annSvc service.AnnouncementService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(annSvc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{annSvc: annSvc}
}

// CreateAnnouncement 创建公告（草稿）
// POST /api/v1/announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ann, err := h.annSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.Created(c, ann)
}

// GetAnnouncement 公告详情
// GET /api/v1/announcements/:id
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	ann, err := h.annSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, ann)
}

// UpdateAnnouncement 更新公告
// PUT /api/v1/announcements/:id
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ann, err := h.annSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, ann)
}

// DeleteAnnouncement 删除公告
// DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.annSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListAnnouncements 公告管理列表
// GET /api/v1/announcements
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	var req dto.AnnouncementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	anns, total, err := h.annSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, anns, total, req.Page, req.PageSize)
}

// ListMyAnnouncements 当前用户可见的公告
// GET /api/v1/announcements/my
func (h *AnnouncementHandler) ListMyAnnouncements(c *gin.Context) {
	aud, ok := GetAudience(c)
	if !ok {
		return
	}

	var req dto.MyAnnouncementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	anns, total, err := h.annSvc.ListVisible(c.Request.Context(), aud, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, anns, total, req.Page, req.PageSize)
}

// PublishAnnouncement 发布公告
// PUT /api/v1/announcements/:id/publish
func (h *AnnouncementHandler) PublishAnnouncement(c *gin.Context) {
	publisherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ann, err := h.annSvc.Publish(c.Request.Context(), c.Param("id"), publisherID)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, ann)
}

// MarkAsRead 标记公告已读
// PUT /api/v1/announcements/:id/read
func (h *AnnouncementHandler) MarkAsRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.annSvc.MarkAsRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, nil)
}

// UnreadCount 未读公告数
// GET /api/v1/announcements/my/unread_count
func (h *AnnouncementHandler) UnreadCount(c *gin.Context) {
	aud, ok := GetAudience(c)
	if !ok {
		return
	}

	count, err := h.annSvc.UnreadCount(c.Request.Context(), aud)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"count": count})
}

// ReadStats 公告阅读统计
// GET /api/v1/announcements/:id/read_stats
func (h *AnnouncementHandler) ReadStats(c *gin.Context) {
	stats, err := h.annSvc.ReadStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, stats)
}

// handleAnnouncementError 公告模块错误 → HTTP 响应映射
func (h *AnnouncementHandler) handleAnnouncementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnnouncementNotFound):
		response.NotFound(c, 14001, "公告不存在")
	case errors.Is(err, service.ErrAnnouncementNotDraft):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrAnnouncementBadTarget):
		response.BadRequest(c, 14003, err.Error())
	default:
		response.InternalError(c)
	}
}
