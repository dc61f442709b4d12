package middleware

import (
	"errors"

	"github.com/SergeiKhy/shortener-gateway/internal/models"
	"github.com/SergeiKhy/shortener-gateway/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionContextKey ключ сессии в контексте gin
const sessionContextKey = "gateway_session"

// LoadSession читает session_id из cookie и подгружает сессию из хранилища.
// Отсутствие cookie или сессии — не ошибка: запрос идёт дальше без сессии,
// решение об отказе принимает каждый handler сам (401 с нужным телом).
func LoadSession(store session.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		sess, err := store.Get(c.Request.Context(), cookie)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Warn("Failed to load session", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// SessionFromContext возвращает сессию запроса или nil, если её нет.
func SessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	sess, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

// ContextWithSession кладёт сессию в контекст gin (для тестов handlers)
func ContextWithSession(c *gin.Context, sess *models.Session) {
	c.Set(sessionContextKey, sess)
}
