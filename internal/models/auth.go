package models

// LoginRequest запрос на вход. Token опционален и передаётся сразу после
// регистрации, чтобы не делать второй round trip к бэкенду.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse ответ бэкенда на login/register.
// Отсутствие Token в успешном ответе — нарушение контракта.
type AuthResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}
