package session

import (
	"net/http"
	"time"
)

// CookieName имя cookie с идентификатором сессии
const CookieName = "session_id"

// SetCookie выставляет сессионную cookie. HttpOnly и SameSite=Lax всегда,
// Secure — по конфигурации (в разработке шлюз ходит по http).
func SetCookie(w http.ResponseWriter, id string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie сбрасывает сессионную cookie при логауте.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
