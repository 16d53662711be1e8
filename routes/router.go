package routes

import (
	"context"
	"net/http"

	"github.com/BerniceZTT/crm_followup/controllers"
	"github.com/BerniceZTT/crm_followup/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的控制器
type Handlers struct {
	Auth      *controllers.AuthController
	FollowUp  *controllers.FollowUpController
	Dashboard *controllers.DashboardController
	Frequency *controllers.FrequencyController
	Quotation *controllers.QuotationController

	// DBStatus 为空时不注册 /api/db-status
	DBStatus func(ctx context.Context) map[string]interface{}
}

// Options 全局中间件配置
type Options struct {
	CORSOrigins   []string
	OperationLogs middleware.OperationLogSink
}

// NewRouter 创建 gin 实例并挂载中间件与全部路由
func NewRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware(opts.OperationLogs))

	RegisterRoutes(router, h)
	return router
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, h Handlers) {
	RegisterAuthRoutes(router, h.Auth)
	RegisterFollowUpRoutes(router, h.FollowUp)
	RegisterDashboardRoutes(router, h.Dashboard)
	RegisterFrequencyRoutes(router, h.Frequency)
	RegisterQuotationRoutes(router, h.Quotation)
	RegisterNotificationRoutes(router)

	// 健康检查路由
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 数据库状态检查路由
	if h.DBStatus != nil {
		router.GET("/api/db-status", middleware.AuthMiddleware(), middleware.AdminOnly(), func(c *gin.Context) {
			c.JSON(http.StatusOK, h.DBStatus(c.Request.Context()))
		})
	}
}
