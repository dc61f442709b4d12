package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Ошибки декодирования
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingUserID  = errors.New("token payload has no user_id")
)

// UnverifiedClaims claims из payload токена БЕЗ проверки подписи.
// Отдельный тип, чтобы их нельзя было подставить туда, где требуется
// models.Identity: подпись валидирует только бэкенд, и только он.
// Использовать исключительно для бутстрапа сессии сразу после регистрации.
type UnverifiedClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// DecodeUnverified декодирует средний сегмент JWT как JSON payload.
// Подпись не проверяется.
func DecodeUnverified(raw string) (*UnverifiedClaims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, ErrMalformedToken
	}

	var claims UnverifiedClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrMalformedToken
	}

	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	return &claims, nil
}
