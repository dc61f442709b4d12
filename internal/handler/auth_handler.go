package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/SergeiKhy/shortener-gateway/internal/middleware"
	"github.com/SergeiKhy/shortener-gateway/internal/models"
	"github.com/SergeiKhy/shortener-gateway/internal/service"
	"github.com/SergeiKhy/shortener-gateway/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler эндпоинты моста сессий: вход, выход, текущий пользователь.
// Единственное место, где сессия пишется в хранилище.
type AuthHandler struct {
	auth         service.AuthService
	store        session.Store
	ttl          time.Duration
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthHandler(auth service.AuthService, store session.Store, ttl time.Duration, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		store:        store,
		ttl:          ttl,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Login godoc
// @Summary Sign in with email/password or a freshly issued token
// @Description On success sets the session cookie. The optional token field
// @Description is meant for the post-registration flow only.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]models.Identity
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if req.Email == "" && req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	sess, err := h.auth.Authenticate(c.Request.Context(), service.AuthInput{
		Email:    req.Email,
		Password: req.Password,
		Token:    req.Token,
	})
	if err != nil {
		if errors.Is(err, service.ErrAuthFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.logger.Error("Authentication failed unexpectedly", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := h.store.Create(c.Request.Context(), sess)
	if err != nil {
		h.logger.Error("Failed to persist session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	session.SetCookie(c.Writer, id, h.ttl, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"user": sess.Identity})
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		if err := h.store.Delete(c.Request.Context(), cookie); err != nil {
			// Сессия истечёт сама по TTL, клиенту это не мешает
			h.logger.Warn("Failed to delete session", zap.Error(err))
		}
	}

	session.ClearCookie(c.Writer, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me godoc
// @Summary Current signed-in identity
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]models.Identity
// @Failure 401 {object} map[string]string
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !sess.HasToken() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication token not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": sess.Identity})
}
