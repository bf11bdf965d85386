package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/service"
	"fast-admin/backend/pkg/response"
)

// MessageHandler 消息模块 HTTP 处理器
type MessageHandler struct {
	messageSvc service.MessageService
	notifySvc  service.NotifyService
}

// NewMessageHandler 创建 MessageHandler
func NewMessageHandler(messageSvc service.MessageService, notifySvc service.NotifyService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc, notifySvc: notifySvc}
}

// ListMessages 当前用户消息列表
// GET /api/v1/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	msgs, total, err := h.messageSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, msgs, total, req.Page, req.PageSize)
}

// GetMessage 消息详情
// GET /api/v1/messages/:id
func (h *MessageHandler) GetMessage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	msg, err := h.messageSvc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleMessageError(c, err)
		return
	}
	response.OK(c, msg)
}

// UnreadCount 未读消息统计
// GET /api/v1/messages/unread_count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.messageSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// MarkAsRead 标记消息已读
// PUT /api/v1/messages/:id/read
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	msg, err := h.messageSvc.MarkAsRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleMessageError(c, err)
		return
	}
	response.OK(c, msg)
}

// MarkAllAsRead 全部标记已读
// PUT /api/v1/messages/read_all
func (h *MessageHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarkAllReadRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, err := h.messageSvc.MarkAllAsRead(c.Request.Context(), userID, req.MsgType)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.AffectedResponse{Count: count})
}

// DeleteMessage 删除消息
// DELETE /api/v1/messages/:id
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.messageSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleMessageError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteAllRead 清空已读消息
// DELETE /api/v1/messages/read
func (h *MessageHandler) DeleteAllRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.messageSvc.DeleteAllRead(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.AffectedResponse{Count: count})
}

// CreateMessage 发送单条消息（管理端）
// POST /api/v1/messages
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	senderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	msg, err := h.messageSvc.Create(c.Request.Context(), &req, &senderID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, msg)
}

// SendNotify 多渠道发送通知（管理端）
// POST /api/v1/messages/notify
func (h *MessageHandler) SendNotify(c *gin.Context) {
	senderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.NotifySendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	results, err := h.notifySvc.Send(c.Request.Context(), &req, &senderID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"results": results})
}

// handleMessageError 消息模块错误 → HTTP 响应映射
func (h *MessageHandler) handleMessageError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMessageNotFound) {
		response.NotFound(c, 13001, "消息不存在")
		return
	}
	response.InternalError(c)
}
