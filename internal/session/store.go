package session

import (
	"context"
	"errors"

	"github.com/SergeiKhy/shortener-gateway/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store хранилище сессий. Запись происходит только при логине,
// чтение — на каждом запросе к шлюзу.
type Store interface {
	// Create сохраняет сессию и возвращает её идентификатор для cookie.
	Create(ctx context.Context, sess *models.Session) (string, error)
	// Get возвращает сессию по идентификатору. Запись без bearer-токена
	// возвращается как есть: различать "не залогинен" и "сломанная сессия"
	// должен шлюз, а не хранилище.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Delete удаляет сессию (logout).
	Delete(ctx context.Context, id string) error
}
