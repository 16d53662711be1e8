package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/controllers"
	"github.com/BerniceZTT/crm_followup/middleware"
)

// RegisterDashboardRoutes 注册看板路由
func RegisterDashboardRoutes(router *gin.Engine, ctl *controllers.DashboardController) {
	if ctl == nil {
		return
	}
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.AuthMiddleware())

	dashboard.GET("/frequency-buckets", ctl.FrequencyBuckets)
	dashboard.GET("/frequency-buckets/chart.png", ctl.Chart)
	dashboard.GET("/frequency-buckets/:index", ctl.BucketDetail)
}
