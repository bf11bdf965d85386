package handler

import (
	"github.com/gin-gonic/gin"

	"fast-admin/backend/internal/model"
	"fast-admin/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetAudience 组装当前用户的公告受众。
// dept_id 来自 JWT；角色体系尚未落地，RoleIDs 暂为空
func GetAudience(c *gin.Context) (model.Audience, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return model.Audience{}, false
	}
	aud := model.Audience{UserID: userID}
	if deptID := c.GetString("dept_id"); deptID != "" {
		aud.DeptIDs = []string{deptID}
	}
	return aud, true
}

// IsSuperuser 当前请求是否来自超级管理员
func IsSuperuser(c *gin.Context) bool {
	v, exists := c.Get("is_superuser")
	if !exists {
		return false
	}
	isSuper, ok := v.(bool)
	return ok && isSuper
}
