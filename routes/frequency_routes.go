package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/controllers"
	"github.com/BerniceZTT/crm_followup/middleware"
)

// RegisterFrequencyRoutes 注册下单频率路由
func RegisterFrequencyRoutes(router *gin.Engine, ctl *controllers.FrequencyController) {
	if ctl == nil {
		return
	}
	frequency := router.Group("/api/frequency")
	frequency.Use(middleware.AuthMiddleware())

	frequency.POST("/customers/:customerId/calculate", ctl.CalculateCustomer)
	frequency.POST("/logs/generate", middleware.AdminOnly(), ctl.GenerateLogs)
}
