package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig конфигурация rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64       // Количество запросов в секунду
	BurstSize         int           // Максимальный размер burst
	CleanupInterval   time.Duration // Интервал очистки неактивных клиентов
}

// client rate limiter одного IP
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту попыток входа/регистрации по IP
// (Token Bucket). К вызовам в сторону бэкенда не применяется: шлюз
// не сериализует и не ограничивает upstream-трафик.
type RateLimiter struct {
	config  RateLimiterConfig
	clients map[string]*client
	mu      sync.Mutex
}

// NewRateLimiter создаёт rate limiter и запускает фоновую очистку
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}

	rl := &RateLimiter{
		config:  config,
		clients: make(map[string]*client),
	}

	go rl.cleanupLoop()

	return rl
}

// cleanupLoop периодически удаляет давно не появлявшиеся IP
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, c := range rl.clients {
			if time.Since(c.lastSeen) > rl.config.CleanupInterval*3 {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// getLimiter возвращает или создаёт limiter для данного IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if c, exists := rl.clients[ip]; exists {
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
	rl.clients[ip] = &client{
		limiter:  limiter,
		lastSeen: time.Now(),
	}

	return limiter
}

// Middleware возвращает Gin middleware handler для rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP())

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many attempts, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
