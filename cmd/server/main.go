// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meteo-bot-go/internal/config"
	"meteo-bot-go/internal/handler"
	"meteo-bot-go/internal/middleware"
	"meteo-bot-go/internal/pipeline"
	"meteo-bot-go/internal/repository"
	"meteo-bot-go/internal/service"
	"meteo-bot-go/pkg/database"
	"meteo-bot-go/pkg/kafka"
	"meteo-bot-go/pkg/log"
	"meteo-bot-go/pkg/tasks"
	"meteo-bot-go/pkg/token"
	"meteo-bot-go/pkg/weather"
	"meteo-bot-go/pkg/whatsapp"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化 Redis（天气缓存）
	database.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// 4. 初始化 Repository
	contextRepo := repository.NewContextRepository(time.Now)
	weatherCacheRepo := repository.NewWeatherCacheRepository(
		database.RDB,
		time.Duration(cfg.Weather.CacheTTLMinutes)*time.Minute,
	)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.Admin.JWTSecret, cfg.Admin.AccessTokenExpireHours, cfg.Admin.RefreshTokenExpireDays)
	weatherClient := weather.NewClient(cfg.Weather)
	whatsappClient := whatsapp.NewClient(cfg.WhatsApp)
	intentService := service.NewIntentService()
	contextService := service.NewContextService(contextRepo, time.Now)
	replyService := service.NewReplyService(contextService)
	weatherService := service.NewWeatherService(weatherClient, weatherCacheRepo)
	botService := service.NewBotService(intentService, contextService, replyService, weatherService)
	adminService := service.NewAdminService(cfg.Admin, jwtManager, contextService, botService)

	// 6. 初始化消息处理管道 (Processor) 并启动工作协程
	processor := pipeline.NewProcessor(botService, whatsappClient, cfg.Bot.Workers, cfg.Bot.QueueSize)
	processorCtx, cancelProcessor := context.WithCancel(context.Background())
	processor.Start(processorCtx)

	// 7. 选择入站消息队列：启用 Kafka 时经 Kafka 中转，否则走进程内队列
	var queue handler.TaskQueue = processor
	if cfg.Kafka.Enabled {
		kafka.InitProducer(cfg.Kafka)
		go kafka.StartConsumer(cfg.Kafka, processor)
		queue = kafkaQueue{}
		log.Info("Kafka 消息队列已启用")
	}

	// 8. 启动空闲上下文清理协程
	stopSweeper := contextService.StartSweeper(
		time.Duration(cfg.Bot.ContextTTLHours)*time.Hour,
		10*time.Minute,
	)
	defer stopSweeper()

	// 9. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 10. 注册路由
	webhookHandler := handler.NewWebhookHandler(cfg.WhatsApp.VerifyToken, queue)
	r.GET("/webhook", webhookHandler.Verify)
	r.POST("/webhook", webhookHandler.Receive)

	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(adminService).RefreshToken)
		}

		admin := apiV1.Group("/admin")
		{
			// 无需认证的路由 (公开访问)
			admin.POST("/login", handler.NewAdminHandler(adminService).Login)

			// 需要认证的路由 (仅限管理员访问)
			authed := admin.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager))
			{
				authed.GET("/stats", handler.NewAdminHandler(adminService).GetStats)
				authed.GET("/contexts", handler.NewAdminHandler(adminService).ListContexts)
			}
		}

		// 调试控制台路由 (WebSocket)
		console := apiV1.Group("/console")
		{
			console.GET("/ws", handler.NewConsoleHandler(botService).Handle)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	// 停止工作协程并等待在途消息处理完毕
	cancelProcessor()
	processor.Wait()
	log.Info("服务已优雅关闭")
}

// kafkaQueue 将 Kafka 生产者适配为 webhook 入站队列。
type kafkaQueue struct{}

func (kafkaQueue) Enqueue(task tasks.IncomingMessage) bool {
	if err := kafka.ProduceIncomingMessage(task); err != nil {
		log.Errorf("向 Kafka 投递消息失败: %v", err)
		return false
	}
	return true
}
