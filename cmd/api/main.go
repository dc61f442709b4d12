package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeiKhy/shortener-gateway/internal/config"
	"github.com/SergeiKhy/shortener-gateway/internal/handler"
	"github.com/SergeiKhy/shortener-gateway/internal/middleware"
	"github.com/SergeiKhy/shortener-gateway/internal/service"
	"github.com/SergeiKhy/shortener-gateway/internal/session"
	"github.com/SergeiKhy/shortener-gateway/internal/upstream"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Подключение к Redis (хранилище сессий)
	redisClient, err := session.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	sessionStore := session.NewRedisStore(redisClient, sessionTTL)

	// Клиент бэкенда сокращателя
	backend := upstream.NewClient(cfg.Backend.BaseURL, logger)
	logger.Info("Proxying to backend", zap.String("base_url", cfg.Backend.BaseURL))

	// Аутентификатор и handlers
	authService := service.NewAuthService(backend, logger)
	gateway := handler.NewGatewayHandler(backend, logger)
	authHandler := handler.NewAuthHandler(authService, sessionStore, sessionTTL, cfg.Session.CookieSecure, logger)

	// Rate limiter только для login/register
	authLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		CleanupInterval:   time.Minute,
	})

	// Настройка роутера
	sessionLoader := middleware.LoadSession(sessionStore, logger)
	router := handler.NewRouter(gateway, authHandler, sessionLoader, authLimiter, logger)

	// Запуск сервера
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
