package session

import "go.uber.org/zap"

// Manager opens stores for browser contexts.
type Manager struct {
	provider Provider
	logger   *zap.Logger
}

// NewManager builds a manager over the given storage provider.
func NewManager(provider Provider, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{provider: provider, logger: logger}
}

// Open returns a fresh, unhydrated store for contextID.
func (m *Manager) Open(contextID string) *Store {
	return NewStore(m.provider.For(contextID), m.logger)
}
