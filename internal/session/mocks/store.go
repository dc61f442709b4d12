package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/SergeiKhy/shortener-gateway/internal/models"
	"github.com/SergeiKhy/shortener-gateway/internal/session"
)

// MockStore in-memory реализация session.Store для тестов
type MockStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	nextID   int
}

func NewMockStore() *MockStore {
	return &MockStore{
		sessions: make(map[string]*models.Session),
	}
}

func (m *MockStore) Create(_ context.Context, sess *models.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("test-session-%d", m.nextID)
	copied := *sess
	m.sessions[id] = &copied
	return id, nil
}

func (m *MockStore) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Put кладёт сессию под фиксированным идентификатором (для тестов шлюза)
func (m *MockStore) Put(id string, sess *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = sess
}
