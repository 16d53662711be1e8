package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerniceZTT/crm_followup/config"
	"github.com/BerniceZTT/crm_followup/controllers"
	"github.com/BerniceZTT/crm_followup/repository"
	"github.com/BerniceZTT/crm_followup/routes"
	"github.com/BerniceZTT/crm_followup/service"
	"github.com/BerniceZTT/crm_followup/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig()

	// 初始化日志
	utils.InitLogger(cfg.LogFile)
	utils.SetJWTSecret(cfg.JWTKey)

	// 设置Gin模式
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	buckets, err := service.ParseBucketDefinitions(cfg.BucketDefinitions)
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("区间配置无效")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 初始化数据库
	if err := repository.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		utils.Logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer repository.CloseMongoDB(context.Background())

	// 初始化系统数据
	utils.Logger.Info().Msg("开始系统初始化...")
	if err := repository.InitializeCollections(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化数据库集合失败")
	}
	if err := repository.InitializeAdminAccount(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化管理员账户失败")
	}
	utils.Logger.Info().Msg("系统初始化完成")

	store := repository.NewStore(repository.DB())
	followUps := service.NewFollowUpService(store, buckets)
	frequency := service.NewFrequencyService(store)
	quotations := service.NewQuotationService(store)

	// 每日生成待跟进记录
	service.ScheduleDailyTaskAt(ctx, cfg.FollowUpHour, 0, 0, service.NightlyFollowUpJob(frequency))

	router := routes.NewRouter(routes.Handlers{
		Auth:      controllers.NewAuthController(store),
		FollowUp:  controllers.NewFollowUpController(followUps),
		Dashboard: controllers.NewDashboardController(followUps, service.ChartOptions{FontPath: cfg.ChartFont}),
		Frequency: controllers.NewFrequencyController(frequency),
		Quotation: controllers.NewQuotationController(quotations),
		DBStatus:  repository.GetDatabaseStatus,
	}, routes.Options{
		CORSOrigins:   cfg.CORSOrigins,
		OperationLogs: store,
	})

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("正在关闭服务器...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error().Err(err).Msg("服务器关闭异常")
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
}
