package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/controllers"
	"github.com/BerniceZTT/crm_followup/middleware"
)

// RegisterQuotationRoutes 注册报价单路由
func RegisterQuotationRoutes(router *gin.Engine, ctl *controllers.QuotationController) {
	if ctl == nil {
		return
	}
	router.POST("/api/quotations", middleware.AuthMiddleware(), ctl.Create)
}

// RegisterNotificationRoutes 注册错误归一化路由
func RegisterNotificationRoutes(router *gin.Engine) {
	router.POST("/api/notifications/normalize", controllers.NormalizeError)
}
