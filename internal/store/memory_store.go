package store

import (
	"context"
	"sync"

	"github.com/studyloop/quiz-service/internal/models"
)

// memoryStore is an in-process hand-off store for tests and single-node
// development runs.
type memoryStore struct {
	mu        sync.Mutex
	documents map[string]string
	results   map[string]*models.Result
}

// NewMemoryStore creates an in-memory hand-off store.
func NewMemoryStore() HandoffStore {
	return &memoryStore{
		documents: make(map[string]string),
		results:   make(map[string]*models.Result),
	}
}

func (m *memoryStore) PutDocument(ctx context.Context, sessionID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[sessionID] = content
	return nil
}

func (m *memoryStore) GetDocument(ctx context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.documents[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	return content, nil
}

func (m *memoryStore) PutResult(ctx context.Context, sessionID string, result *models.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *result
	m.results[sessionID] = &copied
	return nil
}

func (m *memoryStore) GetResult(ctx context.Context, sessionID string) (*models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *result
	return &copied, nil
}

func (m *memoryStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.documents, sessionID)
	delete(m.results, sessionID)
	return nil
}
