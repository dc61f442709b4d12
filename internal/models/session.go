package models

import (
	"time"
)

// Identity данные пользователя, полученные при аутентификации.
// Неизменяемы на протяжении жизни сессии.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session хранится в Redis и привязана к cookie session_id.
// Сессия без BearerToken считается сломанной: шлюз отвечает на неё 401,
// но с отдельным сообщением (см. handler).
type Session struct {
	Identity    Identity  `json:"identity"`
	BearerToken string    `json:"bearer_token"`
	IssuedAt    time.Time `json:"issued_at"`
}

// HasToken проверяет наличие bearer-токена в сессии.
func (s *Session) HasToken() bool {
	return s != nil && s.BearerToken != ""
}
