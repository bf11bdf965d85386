package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/service"
	"fast-admin/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser 创建用户
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, user)
}

// GetUser 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateUser 更新用户
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateProfile 更新个人信息
// PUT /api/v1/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// DeleteUser 删除用户
// DELETE /api/v1/users/:id?hard=false
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	hard := c.Query("hard") == "true"
	if err := h.userSvc.Delete(c.Request.Context(), id, hard, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

// BatchDeleteUsers 批量删除用户
// POST /api/v1/users/batch_delete
func (h *UserHandler) BatchDeleteUsers(c *gin.Context) {
	var req dto.UserBatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.userSvc.BatchDelete(c.Request.Context(), req.IDs, req.Hard, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// BatchUpdateStatus 批量更新用户状态
// POST /api/v1/users/batch/status
func (h *UserHandler) BatchUpdateStatus(c *gin.Context) {
	var req dto.UserBatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, err := h.userSvc.BatchUpdateStatus(c.Request.Context(), req.IDs, *req.UserStatus)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.AffectedResponse{Count: count})
}

// ListUsers 用户分页列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OKPage(c, users, total, req.Page, req.PageSize)
}

// ListSimple 用户简单列表（选择器）
// GET /api/v1/users/simple
func (h *UserHandler) ListSimple(c *gin.Context) {
	var req dto.UserSimpleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, err := h.userSvc.ListSimple(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"list": users})
}

// GetSubordinates 直接下属列表
// GET /api/v1/users/:id/subordinates
func (h *UserHandler) GetSubordinates(c *gin.Context) {
	id := c.Param("id")
	users, err := h.userSvc.GetDirectSubordinates(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"list": users})
}

// CheckUnique 唯一性检查
// GET /api/v1/users/check/unique?field=username&value=xxx
func (h *UserHandler) CheckUnique(c *gin.Context) {
	var req dto.CheckUniqueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	available, err := h.userSvc.CheckUnique(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"available": available})
}

// ResetPassword 管理员重置密码
// POST /api/v1/users/:id/reset_password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id := c.Param("id")
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.userSvc.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

// ChangePassword 修改本人密码
// PUT /api/v1/users/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleUserError 用户模块错误 → HTTP 响应映射
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrDeptNotFound):
		response.BadRequest(c, 11001, "部门不存在")
	case errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrMobileExists):
		response.Conflict(c, 12002, err.Error())
	case errors.Is(err, service.ErrUserProtected):
		response.Forbidden(c, 12003, err.Error())
	case errors.Is(err, service.ErrOldPasswordWrong):
		response.BadRequest(c, 12004, err.Error())
	case errors.Is(err, service.ErrUniqueField):
		response.BadRequest(c, 12005, err.Error())
	default:
		response.InternalError(c)
	}
}
