package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-vault-client/models"
)

type memorySessionRepository struct {
	mu    sync.RWMutex
	token *models.StoredToken
}

// NewMemorySessionRepository returns a [SessionRepository] that forgets the
// token when the process exits.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{}
}

func (m *memorySessionRepository) Load(_ context.Context) (models.StoredToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil {
		return models.StoredToken{}, ErrLocalSessionNotFound
	}
	return *m.token, nil
}

func (m *memorySessionRepository) Save(_ context.Context, token models.StoredToken) error {
	m.mu.Lock()
	m.token = &token
	m.mu.Unlock()
	return nil
}

func (m *memorySessionRepository) Clear(_ context.Context) error {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
	return nil
}
