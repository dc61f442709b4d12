package handler

import (
	"net/http"

	"github.com/SergeiKhy/shortener-gateway/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(
	gateway *GatewayHandler,
	authHandler *AuthHandler,
	sessionLoader gin.HandlerFunc,
	authLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.Default()

	// Middleware для логгирования
	if logger != nil {
		router.Use(func(c *gin.Context) {
			logger.Info("Request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.Next()
		})
	}

	// Сессия подгружается на каждый запрос, отказ решают сами handlers
	router.Use(sessionLoader)

	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		// Учётные эндпоинты под rate limit (защита от перебора паролей)
		creds := api.Group("/auth")
		if authLimiter != nil {
			creds.Use(authLimiter.Middleware())
		}
		creds.POST("/register", gateway.Register)
		creds.POST("/login", authHandler.Login)

		auth := api.Group("/auth")
		{
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		api.POST("/shorten", gateway.Shorten)
		api.GET("/urls", gateway.ListURLs)
		api.DELETE("/urls/:code", gateway.DeleteURL)
		api.PATCH("/urls/:code", gateway.UpdateURL)
		api.GET("/stats/:code", gateway.GetStats)
		api.GET("/analytics/:code", gateway.GetAnalytics)
		api.GET("/qrcode/:code", gateway.QRCode)
	}

	// Публичный редирект (корневой путь) - без сессии
	router.GET("/:code", gateway.Redirect)

	return router
}

// HealthCheck godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
