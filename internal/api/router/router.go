package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fast-admin/backend/config"
	"fast-admin/backend/internal/api/handler"
	"fast-admin/backend/internal/api/middleware"
	"fast-admin/backend/pkg/jwt"
	"fast-admin/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, cache *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(8 << 20)) // Excel 导入需要放宽到 8MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(cache, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(cache, 30, time.Minute), h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, cache))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 部门模块
			depts := authorized.Group("/depts")
			{
				depts.GET("", h.Dept.ListByParent)
				depts.GET("/tree", h.Dept.GetTree)
				depts.GET("/search", h.Dept.SearchDepts)
				depts.GET("/stats", h.Dept.GetStats)
				depts.GET("/export", h.Export.ExportDepartments)
				depts.GET("/:id", h.Dept.GetDept)
				depts.GET("/:id/children", h.Dept.GetChildren)
				depts.GET("/:id/descendants", h.Dept.GetDescendants)
				depts.GET("/:id/ancestors", h.Dept.GetAncestors)
				depts.GET("/:id/can_delete", h.Dept.CanDelete)
				depts.GET("/:id/users", h.Dept.GetDeptUsers)
				depts.POST("/by_ids", h.Dept.GetByIDs)

				// 管理操作
				depts.POST("", middleware.SuperuserOnly(), h.Dept.CreateDept)
				depts.PUT("/:id", middleware.SuperuserOnly(), h.Dept.UpdateDept)
				depts.DELETE("/:id", middleware.SuperuserOnly(), h.Dept.DeleteDept)
				depts.POST("/move", middleware.SuperuserOnly(), h.Dept.MoveDept)
				depts.POST("/batch_delete", middleware.SuperuserOnly(), h.Dept.BatchDeleteDepts)
				depts.POST("/batch/status", middleware.SuperuserOnly(), h.Dept.BatchUpdateStatus)
				depts.POST("/:id/users", middleware.SuperuserOnly(), h.Dept.AddDeptUsers)
				depts.DELETE("/:id/users", middleware.SuperuserOnly(), h.Dept.RemoveDeptUsers)
				depts.POST("/import", middleware.SuperuserOnly(), h.Export.ImportDepartments)
			}

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/simple", h.User.ListSimple)
				users.GET("/check/unique", h.User.CheckUnique)
				users.PUT("/profile", h.User.UpdateProfile)
				users.PUT("/password", h.User.ChangePassword)
				users.GET("/:id/subordinates", h.User.GetSubordinates)

				users.GET("", middleware.SuperuserOnly(), h.User.ListUsers)
				users.GET("/export", middleware.SuperuserOnly(), h.Export.ExportUsers)
				users.GET("/import/template", middleware.SuperuserOnly(), h.Export.UserImportTemplate)
				users.GET("/:id", middleware.SuperuserOnly(), h.User.GetUser)
				users.POST("", middleware.SuperuserOnly(), h.User.CreateUser)
				users.PUT("/:id", middleware.SuperuserOnly(), h.User.UpdateUser)
				users.DELETE("/:id", middleware.SuperuserOnly(), h.User.DeleteUser)
				users.POST("/batch_delete", middleware.SuperuserOnly(), h.User.BatchDeleteUsers)
				users.POST("/batch/status", middleware.SuperuserOnly(), h.User.BatchUpdateStatus)
				users.POST("/:id/reset_password", middleware.SuperuserOnly(), h.User.ResetPassword)
			}

			// 消息模块
			messages := authorized.Group("/messages")
			{
				messages.GET("", h.Message.ListMessages)
				messages.GET("/unread_count", h.Message.UnreadCount)
				messages.GET("/:id", h.Message.GetMessage)
				messages.PUT("/:id/read", h.Message.MarkAsRead)
				messages.PUT("/read_all", h.Message.MarkAllAsRead)
				messages.DELETE("/read", h.Message.DeleteAllRead)
				messages.DELETE("/:id", h.Message.DeleteMessage)

				messages.POST("", middleware.SuperuserOnly(), h.Message.CreateMessage)
				messages.POST("/notify", middleware.SuperuserOnly(), h.Message.SendNotify)
			}

			// 公告模块
			announcements := authorized.Group("/announcements")
			{
				announcements.GET("/my", h.Announcement.ListMyAnnouncements)
				announcements.GET("/my/unread_count", h.Announcement.UnreadCount)
				announcements.PUT("/:id/read", h.Announcement.MarkAsRead)

				announcements.GET("", middleware.SuperuserOnly(), h.Announcement.ListAnnouncements)
				announcements.GET("/:id", h.Announcement.GetAnnouncement)
				announcements.POST("", middleware.SuperuserOnly(), h.Announcement.CreateAnnouncement)
				announcements.PUT("/:id", middleware.SuperuserOnly(), h.Announcement.UpdateAnnouncement)
				announcements.DELETE("/:id", middleware.SuperuserOnly(), h.Announcement.DeleteAnnouncement)
				announcements.PUT("/:id/publish", middleware.SuperuserOnly(), h.Announcement.PublishAnnouncement)
				announcements.GET("/:id/read_stats", middleware.SuperuserOnly(), h.Announcement.ReadStats)
			}
		}
	}

	return r
}
