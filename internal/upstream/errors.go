package upstream

import (
	"fmt"
)

// APIError не-2xx ответ бэкенда. StatusCode пробрасывается клиенту verbatim,
// Message — текст из поля error тела ответа (может быть пустым).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// ConnectionError транспортный сбой: бэкенд недоступен, DNS, обрыв соединения.
// Endpoint нужен для диагностики "бэкенд не запущен" при регистрации.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to backend at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ContractError успешный статус бэкенда, но тело не соответствует контракту
// (отсутствует обязательное поле или JSON не парсится). Для шлюза это 500.
type ContractError struct {
	Field string
	Err   error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream contract violation (%s): %v", e.Field, e.Err)
	}
	return fmt.Sprintf("upstream contract violation: missing or empty %s", e.Field)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
