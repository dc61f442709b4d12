package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/SergeiKhy/shortener-gateway/internal/analytics"
	"github.com/SergeiKhy/shortener-gateway/internal/middleware"
	"github.com/SergeiKhy/shortener-gateway/internal/models"
	"github.com/SergeiKhy/shortener-gateway/internal/upstream"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// customCodeRe ограничение кастомного кода: 3-20 символов, буквы/цифры/_/-.
// Проверка здесь только отсекает заведомый мусор до похода в сеть,
// последнее слово всегда за бэкендом.
var customCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// GatewayHandler проксирует ресурсные операции на бэкенд. Каждый handler
// выполняет один и тот же протокол: проверка сессии, проверка токена,
// один вызов бэкенда, трансляция ответа с сохранением статуса.
type GatewayHandler struct {
	backend *upstream.Client
	logger  *zap.Logger
}

func NewGatewayHandler(backend *upstream.Client, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		backend: backend,
		logger:  logger,
	}
}

// requireToken пропускает запрос дальше только при живой сессии с токеном.
// Нет сессии и сессия без токена — разные 401: первое лечится входом,
// второе означает сломанный мост аутентификации.
func (h *GatewayHandler) requireToken(c *gin.Context) (string, bool) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	if !sess.HasToken() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication token not found"})
		return "", false
	}
	return sess.BearerToken, true
}

// replyUpstreamError транслирует исход вызова бэкенда клиенту.
// Не-2xx статус бэкенда отдаётся verbatim (400 остаётся 400, 409 — 409),
// fallback подставляется только если бэкенд не прислал текста ошибки.
// Транспортные сбои и нарушения контракта схлопываются в 500.
func (h *GatewayHandler) replyUpstreamError(c *gin.Context, err error, fallback string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		c.JSON(apiErr.StatusCode, gin.H{"error": msg})
		return
	}

	h.logger.Error("Upstream call failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// Shorten godoc
// @Summary Create a short link
// @Description Proxy URL shortening to the backend for the signed-in user
// @Tags links
// @Accept json
// @Produce json
// @Success 201 {object} models.ShortLink
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/shorten [post]
func (h *GatewayHandler) Shorten(c *gin.Context) {
	bearer, ok := h.requireToken(c)
	if !ok {
		return
	}

	var req models.ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	if req.ShortCode != "" && !customCodeRe.MatchString(req.ShortCode) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Custom code must be 3-20 characters (letters, digits, _ or -)",
		})
		return
	}

	link, err := h.backend.Shorten(c.Request.Context(), bearer, &req)
	if err != nil {
		h.replyUpstreamError(c, err, "Failed to shorten URL")
		return
	}

	c.JSON(http.StatusCreated, link)
}

// ListURLs godoc
// @Summary List the current user's short links
// @Tags links
// @Produce json
// @Success 200 {array} models.ShortLink
// @Failure 401 {object} map[string]string
// @Router /api/urls [get]
func (h *GatewayHandler) ListURLs(c *gin.Context) {
	bearer, ok := h.requireToken(c)
	if !ok {
		return
	}

	links, err := h.backend.ListURLs(c.Request.Context(), bearer)
	if err != nil {
		h.replyUpstreamError(c, err, "Failed to fetch user URLs")
		return
	}

	c.JSON(http.StatusOK, links)
}

// GetStats godoc
// @Summary Get details for one short link
// @Tags links
// @Produce json
// @Param code path string true "Short code"
// @Success 200 {object} models.ShortLink
// @Failure 401 {object} map[string]string
// @Router /api/stats/{code} [get]
func (h *GatewayHandler) GetStats(c *gin.Context) {
	bearer, ok := h.requireToken(c)
	if !ok {
		return
	}

	link, err := h.backend.GetURL(c.Request.Context(), bearer, c.Param("code"))
	if err != nil {
		h.replyUpstreamError(c, err, "Failed to fetch stats")
		return
	}

	c.JSON(http.StatusOK, link)
}

// UpdateURL godoc
// @Summary Update a short link's expiry
// @Description expires_at accepts an ISO-8601 timestamp or null to clear
// @Tags links
// @Accept json
// @Produce json
// @Param code path string true "Short code"
// @Success 200 {object} models.ShortLink
// @Failure 401 {object} map[string]string
// @Router /api/urls/{code} [patch]
func (h *GatewayHandler) UpdateURL(c *gin.Context) {
	bearer, ok := h.requireToken(c)
	if !ok {
		return
	}

	var req models.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	link, err := h.backend.UpdateURL(c.Request.Context(), bearer, c.Param("code"), &req)
	if err != nil {
		h.replyUpstreamError(c, err, "Failed to update URL")
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeleteURL godoc
// @Summary Delete a short link
// @Tags links
// @Produce json
// @Param code path string true "Short code"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/urls/{code} [delete]
func (h *GatewayHandler) DeleteURL(c *gin.Context) {
	bearer, ok := h.requireToken(c)
	if !ok {
		return
	}

	body, err := h.backend.DeleteURL(c.Request.Context(), bearer, c.Param("code"))
	if err != nil {
		h.replyUpstreamError(c, err, "Failed to delete URL")
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// GetAnalytics godoc
// @Summary Get the click time series for a short link
// @Description hours selects the window (6..720, default 24); view=chart
// @Description returns display-ready buckets labeled in the tz timezone
// @Tags links
// @Produce json
// @Param code path string true "Short code"
// @Param hours query int false "Window in hours" default(24)
// @Success 200 {array} models.AnalyticsPoint
// @Failure 401 {object} map[string]string
// @Router /api/analytics/{code} [get]
func (h *GatewayHandler) GetAnalytics(c *gin.Context) {
	bearer, ok := h.requireToken(c)
	if !ok {
		return
	}

	hours := analytics.DefaultWindow
	if q := c.Query("hours"); q != "" {
		if _, err := fmt.Sscanf(q, "%d", &hours); err != nil || hours < 1 {
			hours = analytics.DefaultWindow
		}
	}

	raw, err := h.backend.Analytics(c.Request.Context(), bearer, c.Param("code"), hours)
	if err != nil {
		h.replyUpstreamError(c, err, "Failed to fetch analytics")
		return
	}

	// view=chart — отдаём подписи в зоне наблюдателя вместо сырого ряда
	if c.Query("view") == "chart" {
		loc := time.UTC
		if tz := c.Query("tz"); tz != "" {
			if parsed, err := time.LoadLocation(tz); err == nil {
				loc = parsed
			}
		}
		c.JSON(http.StatusOK, analytics.FormatRaw(raw, hours, loc))
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// QRCode godoc
// @Summary Fetch the QR code image for a short link
// @Tags links
// @Produce png
// @Param code path string true "Short code"
// @Success 200 {file} binary
// @Failure 401 {object} map[string]string
// @Router /api/qrcode/{code} [get]
func (h *GatewayHandler) QRCode(c *gin.Context) {
	bearer, ok := h.requireToken(c)
	if !ok {
		return
	}

	code := c.Param("code")
	data, err := h.backend.QRCode(c.Request.Context(), bearer, code)
	if err != nil {
		h.replyUpstreamError(c, err, "Failed to generate QR code")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=qrcode-%s.png", code))
	c.Data(http.StatusOK, "image/png", data)
}

// Register godoc
// @Summary Register a new account
// @Description Proxies registration to the backend; no session required.
// @Description Returns the backend-issued token so the client can sign in
// @Description without a second round trip.
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/auth/register [post]
func (h *GatewayHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	auth, err := h.backend.Register(c.Request.Context(), &req)
	if err != nil {
		// "Бэкенд не запущен" — частый случай в разработке, даём адрес
		var connErr *upstream.ConnectionError
		if errors.As(err, &connErr) {
			h.logger.Error("Backend unreachable during registration", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Cannot connect to backend server. Please make sure the backend is running on " + connErr.Endpoint,
			})
			return
		}
		h.replyUpstreamError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, auth)
}

// Redirect godoc
// @Summary Resolve a short code and redirect
// @Description Public: no session needed. 301 is cached aggressively by
// @Description browsers, the upstream answer is authoritative at click time.
// @Tags redirect
// @Produce json
// @Param code path string true "Short code"
// @Success 301 {object} nil
// @Failure 404 {object} map[string]string
// @Router /{code} [get]
func (h *GatewayHandler) Redirect(c *gin.Context) {
	code := c.Param("code")

	originalURL, err := h.backend.Resolve(c.Request.Context(), code)
	if err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) {
			// Истёкшие и никогда не существовавшие коды неразличимы для браузера
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found or expired"})
			return
		}

		var contractErr *upstream.ContractError
		if errors.As(err, &contractErr) {
			h.logger.Error("Resolve response missing original_url", zap.String("code", code))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid URL data"})
			return
		}

		h.logger.Error("Resolve failed", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Redirect(http.StatusMovedPermanently, originalURL)
}
