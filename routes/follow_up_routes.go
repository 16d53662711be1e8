package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/controllers"
	"github.com/BerniceZTT/crm_followup/middleware"
)

// RegisterFollowUpRoutes 注册待跟进相关路由
func RegisterFollowUpRoutes(router *gin.Engine, ctl *controllers.FollowUpController) {
	if ctl == nil {
		return
	}
	followUpGroup := router.Group("/api/followups")
	followUpGroup.Use(middleware.AuthMiddleware())

	// 当前用户的待跟进客户
	followUpGroup.GET("", ctl.List)

	// 标记单条记录完成
	followUpGroup.POST("/:logId/done", ctl.MarkDone)

	// 标记客户全部记录完成
	followUpGroup.POST("/customers/:customerCode/done", ctl.MarkCustomerDone)
}
