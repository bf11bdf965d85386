package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fast-admin/backend/pkg/jwt"
	"fast-admin/backend/pkg/redis"
	"fast-admin/backend/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token，
// 校验 Redis 黑名单后将用户信息注入上下文。cache 可为 nil（跳过黑名单检查）
func JWTAuth(jwtMgr *jwt.Manager, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		if cache != nil {
			blacklisted, err := cache.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "Token 已注销")
				c.Abort()
				return
			}
		}

		// 将用户信息注入上下文
		c.Set("user_id", claims.UserID)
		c.Set("dept_id", claims.DeptID)
		c.Set("is_superuser", claims.IsSuperuser)
		c.Set("access_token", parts[1])

		c.Next()
	}
}

// SuperuserOnly 超级管理员权限中间件
func SuperuserOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("is_superuser")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}
		if isSuper, ok := v.(bool); !ok || !isSuper {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}
		c.Next()
	}
}
