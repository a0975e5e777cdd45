package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulsera-data/internal/ai"
	"pulsera-data/internal/config"
	httpapi "pulsera-data/internal/http"
	"pulsera-data/internal/logger"
	"pulsera-data/internal/service"
	"pulsera-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "pulsera-data")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting pulsera-data service")

	// Redis（仪表盘状态的 KV 持久化）
	// 连接失败只告警：持久化是 best-effort，服务以种子数据降级启动
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable, dashboard state will not persist", zap.Error(err))
	}
	kv := store.NewRedisKV(redisClient)
	patientStore := store.NewPatientStore(kv, log)

	// Gemini 客户端（风险评估 + 对话助手共用一个底层客户端）
	gemini := ai.NewGeminiClient(&cfg.Gemini, log)
	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY is empty, AI calls will fall back to conservative defaults")
	}

	// 状态管理器（显式注入依赖，不用包级单例）
	dataService := service.NewDataService(patientStore, gemini, log)

	// HTTP 路由
	router := httpapi.NewRouter(log)
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(dataService, log))
	router.RegisterChatRoutes(httpapi.NewChatHandler(gemini, dataService, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		log.Error("Server error", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()

	log.Info("Service stopped")
}
