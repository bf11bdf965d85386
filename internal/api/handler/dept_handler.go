package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fast-admin/backend/internal/dto"
	"fast-admin/backend/internal/service"
	pkgerrors "fast-admin/backend/pkg/errors"
	"fast-admin/backend/pkg/response"
)

// DeptHandler 部门模块 HTTP 处理器
type DeptHandler struct {
	deptSvc service.DeptService
}

// NewDeptHandler 创建 DeptHandler
func NewDeptHandler(deptSvc service.DeptService) *DeptHandler {
	return &DeptHandler{deptSvc: deptSvc}
}

// CreateDept 创建部门
// POST /api/v1/depts
func (h *DeptHandler) CreateDept(c *gin.Context) {
	var req dto.CreateDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.Created(c, dept)
}

// GetDept 获取部门详情
// GET /api/v1/depts/:id
func (h *DeptHandler) GetDept(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, dept)
}

// UpdateDept 更新部门
// PUT /api/v1/depts/:id
func (h *DeptHandler) UpdateDept(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	var req dto.UpdateDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, dept)
}

// MoveDept 移动部门
// POST /api/v1/depts/move
func (h *DeptHandler) MoveDept(c *gin.Context) {
	var req dto.MoveDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.deptSvc.Move(c.Request.Context(), req.DeptID, req.NewParentID); err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteDept 删除部门
// DELETE /api/v1/depts/:id?hard=false
func (h *DeptHandler) DeleteDept(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	hard := c.Query("hard") == "true"
	if err := h.deptSvc.Delete(c.Request.Context(), id, hard, callerID); err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, nil)
}

// BatchDeleteDepts 批量删除部门
// POST /api/v1/depts/batch_delete
func (h *DeptHandler) BatchDeleteDepts(c *gin.Context) {
	var req dto.DeptBatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.deptSvc.BatchDelete(c.Request.Context(), req.IDs, req.Hard, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, resp)
}

// BatchUpdateStatus 批量更新部门状态
// POST /api/v1/depts/batch/status
func (h *DeptHandler) BatchUpdateStatus(c *gin.Context) {
	var req dto.DeptBatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, err := h.deptSvc.BatchUpdateStatus(c.Request.Context(), req.IDs, *req.Status)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.AffectedResponse{Count: count})
}

// GetTree 部门树
// GET /api/v1/depts/tree?parent_id=xxx
func (h *DeptHandler) GetTree(c *gin.Context) {
	var parentID *string
	if pid := c.Query("parent_id"); pid != "" {
		parentID = &pid
	}

	tree, err := h.deptSvc.GetTree(c.Request.Context(), parentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": tree})
}

// ListByParent 按父部门查询（带子部门数/用户数）
// GET /api/v1/depts?parent_id=xxx
func (h *DeptHandler) ListByParent(c *gin.Context) {
	var parentID *string
	if pid := c.Query("parent_id"); pid != "" {
		parentID = &pid
	}

	nodes, err := h.deptSvc.GetByParent(c.Request.Context(), parentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": nodes})
}

// GetChildren 直接子部门
// GET /api/v1/depts/:id/children
func (h *DeptHandler) GetChildren(c *gin.Context) {
	id := c.Param("id")
	children, err := h.deptSvc.GetChildren(c.Request.Context(), id)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}
	response.OK(c, gin.H{"list": children})
}

// GetDescendants 全部后代部门
// GET /api/v1/depts/:id/descendants
func (h *DeptHandler) GetDescendants(c *gin.Context) {
	id := c.Param("id")
	descendants, err := h.deptSvc.GetDescendants(c.Request.Context(), id)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}
	response.OK(c, gin.H{"list": descendants})
}

// GetAncestors 全部祖先部门（近祖先在前）
// GET /api/v1/depts/:id/ancestors
func (h *DeptHandler) GetAncestors(c *gin.Context) {
	id := c.Param("id")
	ancestors, err := h.deptSvc.GetAncestors(c.Request.Context(), id)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}
	response.OK(c, gin.H{"list": ancestors})
}

// CanDelete 删除前检查
// GET /api/v1/depts/:id/can_delete
func (h *DeptHandler) CanDelete(c *gin.Context) {
	id := c.Param("id")
	ok, reason, err := h.deptSvc.CanDelete(c.Request.Context(), id)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}
	response.OK(c, gin.H{"can_delete": ok, "reason": reason})
}

// SearchDepts 关键词搜索
// GET /api/v1/depts/search?keyword=xxx
func (h *DeptHandler) SearchDepts(c *gin.Context) {
	keyword := c.Query("keyword")
	nodes, err := h.deptSvc.Search(c.Request.Context(), keyword)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": nodes})
}

// GetByIDs 按 ID 批量查询
// POST /api/v1/depts/by_ids
func (h *DeptHandler) GetByIDs(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	nodes, err := h.deptSvc.GetByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": nodes})
}

// GetStats 部门统计
// GET /api/v1/depts/stats
func (h *DeptHandler) GetStats(c *gin.Context) {
	stats, err := h.deptSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// GetDeptUsers 部门用户列表
// GET /api/v1/depts/:id/users?include_children=false
func (h *DeptHandler) GetDeptUsers(c *gin.Context) {
	id := c.Param("id")
	includeChildren := c.Query("include_children") == "true"

	users, err := h.deptSvc.GetDeptUsers(c.Request.Context(), id, includeChildren)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}
	response.OK(c, gin.H{"list": users})
}

// AddDeptUsers 向部门添加用户
// POST /api/v1/depts/:id/users
func (h *DeptHandler) AddDeptUsers(c *gin.Context) {
	id := c.Param("id")
	var req dto.DeptUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	added, err := h.deptSvc.AddUsers(c.Request.Context(), id, req.UserIDs)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}
	response.OK(c, gin.H{"count": added})
}

// RemoveDeptUsers 从部门移除用户
// DELETE /api/v1/depts/:id/users
func (h *DeptHandler) RemoveDeptUsers(c *gin.Context) {
	id := c.Param("id")
	var req dto.DeptUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	removed, err := h.deptSvc.RemoveUsers(c.Request.Context(), id, req.UserIDs)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}
	response.OK(c, gin.H{"count": removed})
}

// handleDeptError 部门模块错误 → HTTP 响应映射
func (h *DeptHandler) handleDeptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDeptNotFound):
		response.NotFound(c, 11001, "部门不存在")
	case errors.Is(err, service.ErrDeptParentNotFound):
		response.BadRequest(c, 11002, "父部门不存在")
	case errors.Is(err, service.ErrDeptInvalidCode),
		errors.Is(err, service.ErrDeptInvalidPhone),
		errors.Is(err, service.ErrDeptInvalidType):
		response.BadRequest(c, 11003, err.Error())
	case errors.Is(err, service.ErrDeptMoveSelf),
		errors.Is(err, service.ErrDeptMoveCycle):
		response.BadRequest(c, 11004, err.Error())
	case errors.Is(err, service.ErrDeptUseMove):
		response.BadRequest(c, 11005, err.Error())
	case errors.Is(err, service.ErrDeptHasChildren),
		errors.Is(err, service.ErrDeptHasUsers):
		response.Conflict(c, 11006, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 11007, err.Error())
	default:
		response.InternalError(c)
	}
}
