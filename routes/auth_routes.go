package routes

import (
	"github.com/BerniceZTT/crm_followup/controllers"
	"github.com/BerniceZTT/crm_followup/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证路由
func RegisterAuthRoutes(router *gin.Engine, ctl *controllers.AuthController) {
	if ctl == nil {
		return
	}
	auth := router.Group("/api/auth")

	// 公开路由
	auth.POST("/login", ctl.Login)

	// 需要认证的路由
	auth.GET("/validate", middleware.AuthMiddleware(), ctl.Validate)
}
